package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

func TestDNSNameValidation(t *testing.T) {
	valid := []string{
		"example.com",
		"my-site.example.com",
		"a.b.c.d",
		"xn--bcher-kva.example",
		"localhost",
	}
	for _, name := range valid {
		assert.True(t, isValidDNSName(name), name)
	}

	invalid := []string{
		"",
		"-badstart.com",
		"badend-.com",
		"bad_underscore.com",
		"double..dot.com",
		strings.Repeat("a", 64) + ".com",
	}
	for _, name := range invalid {
		assert.False(t, isValidDNSName(name), name)
	}
}

func TestDomainCreateRejectsInvalidName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	_, err := f.domains.Create(ctx, CreateDomainInput{
		Name:       "-bad.example.com",
		InstanceID: instance.ID,
		Provider:   "namecheap",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "Invalid DNS name format")
}

func TestDomainCreateRequiresInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.domains.Create(ctx, CreateDomainInput{
		Name:       "example.com",
		InstanceID: uuid.New(),
		Provider:   "namecheap",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestDomainNameUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	f.seedDomain(t, "example.com", instance)

	_, err := f.domains.Create(ctx, CreateDomainInput{
		Name:       "example.com",
		InstanceID: instance.ID,
		Provider:   "godaddy",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestDomainCreateDefaults(t *testing.T) {
	f := newFixture(t)

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	domain := f.seedDomain(t, "example.com", instance)

	assert.Equal(t, "USD", domain.Currency)
	assert.False(t, domain.AutoRenew)
	assert.Nil(t, domain.PaidUntil)
	assert.Equal(t, instance.ID, domain.Instance.ID)
}

func TestDomainRenewFromCurrentExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	paidUntil := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	price := 12.50
	created, err := f.domains.Create(ctx, CreateDomainInput{
		Name:       "example.com",
		InstanceID: instance.ID,
		Provider:   "namecheap",
		PaidUntil:  &paidUntil,
		PriceYear:  &price,
	})
	require.NoError(t, err)

	receipt, err := f.domains.Renew(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "example.com", receipt.DomainName)
	assert.Equal(t, time.Date(2028, 3, 15, 0, 0, 0, 0, time.UTC), receipt.NewExpirationDate)
	assert.Equal(t, 12.50, receipt.RenewalAmount)
	assert.Equal(t, "USD", receipt.Currency)
	assert.True(t, strings.HasPrefix(receipt.TransactionID, "txn_"))

	got, err := f.domains.FindOne(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaidUntil)
	assert.Equal(t, receipt.NewExpirationDate, got.PaidUntil.UTC())
}

func TestDomainRenewWithoutExpiryStartsNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	domain := f.seedDomain(t, "example.com", instance)

	before := time.Now().UTC().AddDate(1, 0, 0)
	receipt, err := f.domains.Renew(ctx, domain.ID)
	require.NoError(t, err)
	after := time.Now().UTC().AddDate(1, 0, 0)

	assert.False(t, receipt.NewExpirationDate.Before(before))
	assert.False(t, receipt.NewExpirationDate.After(after))
	assert.Equal(t, 0.0, receipt.RenewalAmount)
}

func TestDomainRemoveGuardedByPrimarySites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	domain := f.seedDomain(t, "example.com", instance)

	_, err := f.sites.Create(ctx, CreateSiteInput{
		Name:            "example.com",
		Purpose:         "landing",
		InstanceID:      instance.ID,
		PrimaryDomainID: &domain.ID,
	})
	require.NoError(t, err)

	err = f.domains.Remove(ctx, domain.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "primary domain for 1 sites")
}

func TestDomainListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	soon := time.Now().UTC().AddDate(0, 0, 10)
	far := time.Now().UTC().AddDate(0, 0, 200)
	past := time.Now().UTC().AddDate(0, 0, -5)

	mk := func(name, provider string, paidUntil *time.Time) {
		_, err := f.domains.Create(ctx, CreateDomainInput{
			Name:       name,
			InstanceID: instance.ID,
			Provider:   provider,
			PaidUntil:  paidUntil,
		})
		require.NoError(t, err)
	}
	mk("soon.com", "Namecheap", &soon)
	mk("far.com", "godaddy", &far)
	mk("expired.com", "namecheap", &past)
	mk("unpaid.com", "namecheap", nil)

	// Provider filter is a case-insensitive substring match.
	byProvider, err := f.domains.FindAll(ctx, repository.DomainFilter{Provider: "namech"})
	require.NoError(t, err)
	assert.Len(t, byProvider, 3)

	// Expiring window excludes past-due and unpaid domains.
	expiring, err := f.domains.FindAll(ctx, repository.DomainFilter{ExpiringInDays: 30})
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "soon.com", expiring[0].Name)

	// Default listing orders by expiry with unpaid domains last.
	all, err := f.domains.FindAll(ctx, repository.DomainFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "expired.com", all[0].Name)
	assert.Equal(t, "soon.com", all[1].Name)
	assert.Equal(t, "far.com", all[2].Name)
	assert.Equal(t, "unpaid.com", all[3].Name)
}

func TestDomainUpdateNameValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	domain := f.seedDomain(t, "example.com", instance)
	f.seedDomain(t, "other.com", instance)

	bad := "under_score.com"
	_, err := f.domains.Update(ctx, domain.ID, UpdateDomainInput{Name: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid DNS name format")

	taken := "other.com"
	_, err = f.domains.Update(ctx, domain.ID, UpdateDomainInput{Name: &taken})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	fresh := "renamed.com"
	updated, err := f.domains.Update(ctx, domain.ID, UpdateDomainInput{Name: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "renamed.com", updated.Name)
}
