// Package repository defines the store interfaces the resource services are
// built against, one interface per entity group, plus the Postgres and
// in-memory implementations.
//
// Conventions: Get-style methods return (nil, nil) when no row matches, so
// services decide how absence surfaces. Create and Update fill the passed
// struct from the written row. Delete of an absent row is a no-op.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PortCategories interface {
	List(ctx context.Context) ([]models.PortCategoryWithPorts, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PortCategoryWithPorts, error)
	GetByName(ctx context.Context, name string) (*models.PortCategory, error)
	Create(ctx context.Context, c *models.PortCategory) error
	Update(ctx context.Context, c *models.PortCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPorts(ctx context.Context, categoryID uuid.UUID) (int, error)
}

type Ports interface {
	List(ctx context.Context) ([]models.PortWithRelations, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PortWithRelations, error)
	GetRow(ctx context.Context, id uuid.UUID) (*models.Port, error)
	GetByNumber(ctx context.Context, number int) (*models.Port, error)
	Create(ctx context.Context, p *models.Port) error
	Update(ctx context.Context, p *models.Port) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBindings(ctx context.Context, portID uuid.UUID) (int, error)
}

type Hostings interface {
	List(ctx context.Context) ([]models.HostingWithInstances, error)
	Get(ctx context.Context, id uuid.UUID) (*models.HostingWithInstances, error)
	GetRow(ctx context.Context, id uuid.UUID) (*models.Hosting, error)
	GetByProvider(ctx context.Context, providerName, providerAccount string) (*models.Hosting, error)
	Create(ctx context.Context, h *models.Hosting) error
	Update(ctx context.Context, h *models.Hosting) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountInstances(ctx context.Context, hostingID uuid.UUID) (int, error)
}

type Instances interface {
	List(ctx context.Context) ([]models.InstanceWithRelations, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InstanceWithRelations, error)
	GetRow(ctx context.Context, id uuid.UUID) (*models.Instance, error)
	Create(ctx context.Context, in *models.Instance) error
	Update(ctx context.Context, in *models.Instance) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasBinding(ctx context.Context, instanceID, portID uuid.UUID) (bool, error)
	// BindPort inserts the join row and writes the binding config into the
	// instance's port_bindings map as one atomic unit.
	BindPort(ctx context.Context, instanceID, portID uuid.UUID, cfg models.PortBindingConfig) error
	// UnbindPort removes the join row and the map key as one atomic unit.
	UnbindPort(ctx context.Context, instanceID, portID uuid.UUID) error
}

// DomainFilter narrows domain listings. Provider is a case-insensitive
// substring match; ExpiringInDays keeps domains with paid_until between now
// and now+N days (past-due excluded). Zero values disable a filter.
type DomainFilter struct {
	Provider       string
	ExpiringInDays int
}

type Domains interface {
	List(ctx context.Context, f DomainFilter) ([]models.DomainWithRelations, error)
	Get(ctx context.Context, id uuid.UUID) (*models.DomainWithRelations, error)
	GetRow(ctx context.Context, id uuid.UUID) (*models.Domain, error)
	GetByName(ctx context.Context, name string) (*models.Domain, error)
	Create(ctx context.Context, d *models.Domain) error
	Update(ctx context.Context, d *models.Domain) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByInstance(ctx context.Context, instanceID uuid.UUID) (int, error)
}

// SiteFilter narrows site listings. Status and InstanceID are exact matches;
// Domain matches case-insensitively against any domain name on the site's
// instance.
type SiteFilter struct {
	Status     string
	InstanceID *uuid.UUID
	Domain     string
}

type Sites interface {
	List(ctx context.Context, f SiteFilter) ([]models.SiteWithRelations, error)
	Get(ctx context.Context, id uuid.UUID) (*models.SiteWithRelations, error)
	GetRow(ctx context.Context, id uuid.UUID) (*models.Site, error)
	Create(ctx context.Context, s *models.Site) error
	Update(ctx context.Context, s *models.Site) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetExpanded(ctx context.Context, id uuid.UUID) (*models.ExpandedSite, error)
	UpsertSiteInfo(ctx context.Context, info *models.SiteInfo) error
	CountByInstance(ctx context.Context, instanceID uuid.UUID) (int, error)
	CountByPrimaryDomain(ctx context.Context, domainID uuid.UUID) (int, error)
}

type Enquiries interface {
	List(ctx context.Context) ([]models.Enquiry, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Enquiry, error)
	Create(ctx context.Context, e *models.Enquiry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
