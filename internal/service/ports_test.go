package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
)

func TestPortCreateRequiresCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ports.Create(ctx, CreatePortInput{Number: 80, CategoryID: uuid.New()})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestPortDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	f.seedPort(t, 80, category.ID)

	_, err := f.ports.Create(ctx, CreatePortInput{Number: 80, CategoryID: category.ID})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "Port number 80 already exists")
}

func TestPortUpdateNumberConflictOnlyWhenChanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	p80 := f.seedPort(t, 80, category.ID)
	f.seedPort(t, 443, category.ID)

	// Keeping the same number passes.
	same := 80
	updated, err := f.ports.Update(ctx, p80.ID, UpdatePortInput{Number: &same})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Number)

	// Moving onto a taken number fails.
	taken := 443
	_, err = f.ports.Update(ctx, p80.ID, UpdatePortInput{Number: &taken})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestPortListOrderedByNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	f.seedPort(t, 443, category.ID)
	f.seedPort(t, 22, category.ID)
	f.seedPort(t, 80, category.ID)

	all, err := f.ports.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 22, all[0].Number)
	assert.Equal(t, 80, all[1].Number)
	assert.Equal(t, 443, all[2].Number)
	assert.Equal(t, "Web", all[0].Category.Name)
}

func TestPortDeleteGuardedByBindings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	port := f.seedPort(t, 80, category.ID)
	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	_, err := f.instances.BindPort(ctx, instance.ID, BindPortInput{PortID: port.ID, Protocol: "tcp"})
	require.NoError(t, err)

	err = f.ports.Remove(ctx, port.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "bound to 1 instances")

	_, err = f.instances.UnbindPort(ctx, instance.ID, port.ID)
	require.NoError(t, err)
	require.NoError(t, f.ports.Remove(ctx, port.ID))
}

func TestPortCategoryReassignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	web := f.seedCategory(t, "Web")
	db := f.seedCategory(t, "Databases")
	port := f.seedPort(t, 5432, web.ID)

	updated, err := f.ports.Update(ctx, port.ID, UpdatePortInput{CategoryID: &db.ID})
	require.NoError(t, err)
	assert.Equal(t, db.ID, updated.CategoryID)
	assert.Equal(t, "Databases", updated.Category.Name)

	missing := uuid.New()
	_, err = f.ports.Update(ctx, port.ID, UpdatePortInput{CategoryID: &missing})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}
