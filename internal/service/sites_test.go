package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

func TestSiteCreateDefaultsToActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	site := f.seedSite(t, "example.com", instance)
	assert.Equal(t, models.SiteStatusActive, site.Status)

	suspended := models.SiteStatusSuspended
	other, err := f.sites.Create(ctx, CreateSiteInput{
		Name:       "other.com",
		Purpose:    "shop",
		InstanceID: instance.ID,
		Status:     &suspended,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SiteStatusSuspended, other.Status)
}

func TestSiteCreateValidatesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sites.Create(ctx, CreateSiteInput{
		Name:       "example.com",
		Purpose:    "landing",
		InstanceID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	missing := uuid.New()
	_, err = f.sites.Create(ctx, CreateSiteInput{
		Name:            "example.com",
		Purpose:         "landing",
		InstanceID:      instance.ID,
		PrimaryDomainID: &missing,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestSitePrimaryDomainIsWeakReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	domain := f.seedDomain(t, "example.com", instance)

	site, err := f.sites.Create(ctx, CreateSiteInput{
		Name:            "example.com",
		Purpose:         "landing",
		InstanceID:      instance.ID,
		PrimaryDomainID: &domain.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, site.PrimaryDomain)
	assert.Equal(t, "example.com", site.PrimaryDomain.Name)
	require.Len(t, site.Domains, 1)
}

func TestSiteListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	web1 := f.seedInstance(t, "web-1", hosting)
	web2 := f.seedInstance(t, "web-2", hosting)
	f.seedDomain(t, "shop.example.com", web1)

	f.seedSite(t, "a.com", web1)
	b := f.seedSite(t, "b.com", web2)

	inactive := models.SiteStatusInactive
	_, err := f.sites.Update(ctx, b.ID, UpdateSiteInput{Status: &inactive})
	require.NoError(t, err)

	byStatus, err := f.sites.FindAll(ctx, repository.SiteFilter{Status: models.SiteStatusInactive})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "b.com", byStatus[0].Name)

	byInstance, err := f.sites.FindAll(ctx, repository.SiteFilter{InstanceID: &web1.ID})
	require.NoError(t, err)
	require.Len(t, byInstance, 1)
	assert.Equal(t, "a.com", byInstance[0].Name)

	// Domain fragment matches any domain on the site's instance.
	byDomain, err := f.sites.FindAll(ctx, repository.SiteFilter{Domain: "SHOP"})
	require.NoError(t, err)
	require.Len(t, byDomain, 1)
	assert.Equal(t, "a.com", byDomain[0].Name)
}

func TestSiteExpandedAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	port := f.seedPort(t, 443, category.ID)
	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	f.seedDomain(t, "example.com", instance)
	f.seedDomain(t, "alias.example.com", instance)
	site := f.seedSite(t, "example.com", instance)

	_, err := f.instances.BindPort(ctx, instance.ID, BindPortInput{PortID: port.ID, Protocol: "tcp"})
	require.NoError(t, err)

	expanded, err := f.sites.FindExpanded(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, site.ID, expanded.Site.ID)
	assert.Equal(t, instance.ID, expanded.Instance.ID)
	assert.Equal(t, hosting.ID, expanded.Hosting.ID)
	require.Len(t, expanded.Domains, 2)
	assert.Equal(t, "alias.example.com", expanded.Domains[0].Name)
	require.Len(t, expanded.Ports, 1)
	assert.Equal(t, 443, expanded.Ports[0].Number)
	assert.Equal(t, "Web", expanded.Ports[0].Category.Name)

	_, err = f.sites.FindExpanded(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSiteFetchSiteInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	site := f.seedSite(t, "example.com", instance)

	info, err := f.sites.FetchSiteInfo(ctx, site.ID, "system")
	require.NoError(t, err)
	assert.Equal(t, site.ID, info.SiteID)
	assert.Equal(t, []string{"+1234567890"}, info.Contacts.Phones)
	assert.Equal(t, []string{"contact@example.com"}, info.Contacts.Emails)
	assert.Equal(t, "https://example.com", info.SourceURL)
	assert.Equal(t, "system", info.Meta.FetchedBy)

	// The snapshot is attached to subsequent single reads.
	got, err := f.sites.FindOne(ctx, site.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SiteInfo)
	assert.Equal(t, info.SourceURL, got.SiteInfo.SourceURL)

	// Refetching replaces the snapshot in place.
	again, err := f.sites.FetchSiteInfo(ctx, site.ID, "system")
	require.NoError(t, err)
	assert.Equal(t, info.CreatedAt, again.CreatedAt)

	_, err = f.sites.FetchSiteInfo(ctx, uuid.New(), "system")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
