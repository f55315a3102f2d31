package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
)

func TestPortCategoryCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.seedCategory(t, "Web")
	assert.Equal(t, "Web", created.Name)
	assert.Equal(t, 0, created.PortCount)

	got, err := f.categories.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestPortCategoryDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedCategory(t, "Web")
	_, err := f.categories.Create(ctx, CreatePortCategoryInput{Name: "Web"})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestPortCategoryUpdateNameConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedCategory(t, "Web")
	db := f.seedCategory(t, "Databases")

	name := "Web"
	_, err := f.categories.Update(ctx, db.ID, UpdatePortCategoryInput{Name: &name})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	// Re-submitting the current name is not a conflict.
	same := "Databases"
	updated, err := f.categories.Update(ctx, db.ID, UpdatePortCategoryInput{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, "Databases", updated.Name)
}

func TestPortCategoryListOrderedByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedCategory(t, "Web")
	f.seedCategory(t, "Databases")
	f.seedCategory(t, "Mail")

	all, err := f.categories.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Databases", all[0].Name)
	assert.Equal(t, "Mail", all[1].Name)
	assert.Equal(t, "Web", all[2].Name)
}

func TestPortCategoryDeleteGuardedByPorts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	f.seedPort(t, 80, category.ID)
	f.seedPort(t, 443, category.ID)

	err := f.categories.Remove(ctx, category.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "2 associated ports")

	// Still present after the failed delete.
	got, err := f.categories.FindOne(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PortCount)
}

func TestPortCategoryNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.categories.FindOne(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	err = f.categories.Remove(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
