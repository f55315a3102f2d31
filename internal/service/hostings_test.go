package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
)

func TestHostingCreateDefaultsCurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	assert.Equal(t, "USD", hosting.Currency)

	eur := "EUR"
	other, err := f.hostings.Create(ctx, CreateHostingInput{
		ProviderName:    "ovh",
		ProviderAccount: "ops@example.com",
		Currency:        &eur,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", other.Currency)
}

func TestHostingProviderAccountUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedHosting(t, "hetzner", "ops@example.com")

	_, err := f.hostings.Create(ctx, CreateHostingInput{
		ProviderName:    "hetzner",
		ProviderAccount: "ops@example.com",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	// Same provider under a different account is fine.
	_, err = f.hostings.Create(ctx, CreateHostingInput{
		ProviderName:    "hetzner",
		ProviderAccount: "billing@example.com",
	})
	require.NoError(t, err)
}

func TestHostingUpdateConflictChecksCombinedPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedHosting(t, "hetzner", "ops@example.com")
	target := f.seedHosting(t, "ovh", "ops@example.com")

	// Changing only the provider lands on the taken pair.
	provider := "hetzner"
	_, err := f.hostings.Update(ctx, target.ID, UpdateHostingInput{ProviderName: &provider})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	// No-op update of the same pair passes.
	same := "ovh"
	updated, err := f.hostings.Update(ctx, target.ID, UpdateHostingInput{ProviderName: &same})
	require.NoError(t, err)
	assert.Equal(t, "ovh", updated.ProviderName)
}

func TestHostingDeleteGuardedByInstances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	f.seedInstance(t, "web-1", hosting)

	err := f.hostings.Remove(ctx, hosting.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "1 associated instances")
}

func TestHostingListOrderedByProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedHosting(t, "ovh", "a@example.com")
	hetzner := f.seedHosting(t, "hetzner", "b@example.com")
	f.seedInstance(t, "web-1", hetzner)
	f.seedInstance(t, "web-2", hetzner)

	all, err := f.hostings.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "hetzner", all[0].ProviderName)
	assert.Equal(t, 2, all[0].InstanceCount)
	assert.Equal(t, "ovh", all[1].ProviderName)
	assert.Equal(t, 0, all[1].InstanceCount)
}
