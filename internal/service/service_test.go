package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

// fixture wires every service over one shared in-memory store so
// cross-entity checks see each other's writes.
type fixture struct {
	store      *repository.MemoryStore
	categories *PortCategoryService
	ports      *PortService
	hostings   *HostingService
	instances  *InstanceService
	domains    *DomainService
	sites      *SiteService
	enquiries  *EnquiryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	logger := zap.NewNop()
	return &fixture{
		store:      store,
		categories: NewPortCategoryService(store.PortCategories(), logger),
		ports:      NewPortService(store.Ports(), store.PortCategories(), logger),
		hostings:   NewHostingService(store.Hostings(), logger),
		instances:  NewInstanceService(store.Instances(), store.Hostings(), store.Ports(), store.Sites(), store.Domains(), logger),
		domains:    NewDomainService(store.Domains(), store.Instances(), store.Sites(), logger),
		sites:      NewSiteService(store.Sites(), store.Instances(), store.Domains(), MockSiteInfoFetcher{}, logger),
		enquiries:  NewEnquiryService(store.Enquiries(), logger),
	}
}

func (f *fixture) seedCategory(t *testing.T, name string) *models.PortCategoryWithPorts {
	t.Helper()
	category, err := f.categories.Create(context.Background(), CreatePortCategoryInput{Name: name})
	require.NoError(t, err)
	return category
}

func (f *fixture) seedPort(t *testing.T, number int, categoryID uuid.UUID) *models.PortWithRelations {
	t.Helper()
	port, err := f.ports.Create(context.Background(), CreatePortInput{Number: number, CategoryID: categoryID})
	require.NoError(t, err)
	return port
}

func (f *fixture) seedHosting(t *testing.T, provider, account string) *models.HostingWithInstances {
	t.Helper()
	hosting, err := f.hostings.Create(context.Background(), CreateHostingInput{
		ProviderName:    provider,
		ProviderAccount: account,
	})
	require.NoError(t, err)
	return hosting
}

func (f *fixture) seedInstance(t *testing.T, name string, hosting *models.HostingWithInstances) *models.InstanceWithRelations {
	t.Helper()
	instance, err := f.instances.Create(context.Background(), CreateInstanceInput{
		Name:      name,
		HostingID: hosting.ID,
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
	return instance
}

func (f *fixture) seedDomain(t *testing.T, name string, instance *models.InstanceWithRelations) *models.DomainWithRelations {
	t.Helper()
	domain, err := f.domains.Create(context.Background(), CreateDomainInput{
		Name:       name,
		InstanceID: instance.ID,
		Provider:   "namecheap",
	})
	require.NoError(t, err)
	return domain
}

func (f *fixture) seedSite(t *testing.T, name string, instance *models.InstanceWithRelations) *models.SiteWithRelations {
	t.Helper()
	site, err := f.sites.Create(context.Background(), CreateSiteInput{
		Name:       name,
		Purpose:    "landing",
		InstanceID: instance.ID,
	})
	require.NoError(t, err)
	return site
}
