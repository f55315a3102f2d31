package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

type CreateSiteInput struct {
	Name            string                  `json:"name" validate:"required"`
	Purpose         string                  `json:"purpose" validate:"required"`
	InstanceID      uuid.UUID               `json:"instanceId" validate:"required"`
	PrimaryDomainID *uuid.UUID              `json:"primaryDomainId"`
	Analytics       *models.AnalyticsConfig `json:"analytics"`
	Status          *string                 `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

type UpdateSiteInput struct {
	Name            *string                 `json:"name"`
	Purpose         *string                 `json:"purpose"`
	InstanceID      *uuid.UUID              `json:"instanceId"`
	PrimaryDomainID *uuid.UUID              `json:"primaryDomainId"`
	Analytics       *models.AnalyticsConfig `json:"analytics"`
	Status          *string                 `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// SiteInfoFetcher produces the contact/metadata snapshot for a site. The
// production implementation would crawl the site; MockSiteInfoFetcher returns
// fixed data.
type SiteInfoFetcher interface {
	Fetch(ctx context.Context, site *models.Site, fetchedBy string) (*models.SiteInfo, error)
}

// MockSiteInfoFetcher is the current placeholder: deterministic contact data
// derived from the site name, no network I/O.
type MockSiteInfoFetcher struct{}

func (MockSiteInfoFetcher) Fetch(_ context.Context, site *models.Site, fetchedBy string) (*models.SiteInfo, error) {
	return &models.SiteInfo{
		SiteID: site.ID,
		Contacts: models.ContactInfo{
			Phones: []string{"+1234567890"},
			Emails: []string{"contact@example.com"},
		},
		Meta: models.FetchMeta{
			FetchedBy: fetchedBy,
			FetchedAt: time.Now().UTC().Format(time.RFC3339),
		},
		SourceURL: "https://" + site.Name,
		RawJSON:   nil,
	}, nil
}

type SiteService struct {
	sites     repository.Sites
	instances repository.Instances
	domains   repository.Domains
	fetcher   SiteInfoFetcher
	logger    *zap.Logger
}

func NewSiteService(
	sites repository.Sites,
	instances repository.Instances,
	domains repository.Domains,
	fetcher SiteInfoFetcher,
	logger *zap.Logger,
) *SiteService {
	return &SiteService{
		sites:     sites,
		instances: instances,
		domains:   domains,
		fetcher:   fetcher,
		logger:    logger,
	}
}

func (s *SiteService) FindAll(ctx context.Context, f repository.SiteFilter) ([]models.SiteWithRelations, error) {
	return s.sites.List(ctx, f)
}

func (s *SiteService) FindOne(ctx context.Context, id uuid.UUID) (*models.SiteWithRelations, error) {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, apperr.NotFound("Site with ID %s not found", id)
	}
	return site, nil
}

func (s *SiteService) Create(ctx context.Context, in CreateSiteInput) (*models.SiteWithRelations, error) {
	instance, err := s.instances.GetRow(ctx, in.InstanceID)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperr.BadRequest("Instance with ID %s not found", in.InstanceID)
	}

	if in.PrimaryDomainID != nil {
		domain, err := s.domains.GetRow(ctx, *in.PrimaryDomainID)
		if err != nil {
			return nil, err
		}
		if domain == nil {
			return nil, apperr.BadRequest("Domain with ID %s not found", *in.PrimaryDomainID)
		}
	}

	site := models.Site{
		Name:            in.Name,
		Purpose:         in.Purpose,
		InstanceID:      in.InstanceID,
		PrimaryDomainID: in.PrimaryDomainID,
		Analytics:       in.Analytics,
		Status:          models.SiteStatusActive,
	}
	if in.Status != nil {
		site.Status = *in.Status
	}
	if err := s.sites.Create(ctx, &site); err != nil {
		return nil, err
	}
	s.logger.Info("site created", zap.String("id", site.ID.String()), zap.String("name", site.Name))
	return s.FindOne(ctx, site.ID)
}

func (s *SiteService) Update(ctx context.Context, id uuid.UUID, in UpdateSiteInput) (*models.SiteWithRelations, error) {
	existing, err := s.sites.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Site with ID %s not found", id)
	}

	if in.InstanceID != nil {
		instance, err := s.instances.GetRow(ctx, *in.InstanceID)
		if err != nil {
			return nil, err
		}
		if instance == nil {
			return nil, apperr.BadRequest("Instance with ID %s not found", *in.InstanceID)
		}
	}

	if in.PrimaryDomainID != nil {
		domain, err := s.domains.GetRow(ctx, *in.PrimaryDomainID)
		if err != nil {
			return nil, err
		}
		if domain == nil {
			return nil, apperr.BadRequest("Domain with ID %s not found", *in.PrimaryDomainID)
		}
	}

	site := *existing
	if in.Name != nil {
		site.Name = *in.Name
	}
	if in.Purpose != nil {
		site.Purpose = *in.Purpose
	}
	if in.InstanceID != nil {
		site.InstanceID = *in.InstanceID
	}
	if in.PrimaryDomainID != nil {
		site.PrimaryDomainID = in.PrimaryDomainID
	}
	if in.Analytics != nil {
		site.Analytics = in.Analytics
	}
	if in.Status != nil {
		site.Status = *in.Status
	}
	if err := s.sites.Update(ctx, &site); err != nil {
		return nil, err
	}
	return s.FindOne(ctx, id)
}

func (s *SiteService) Remove(ctx context.Context, id uuid.UUID) error {
	existing, err := s.sites.GetRow(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Site with ID %s not found", id)
	}

	if err := s.sites.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("site deleted", zap.String("id", id.String()))
	return nil
}

// FindExpanded returns the multi-hop aggregate: site, its instance, the
// instance's hosting, every domain on the instance, and every bound port with
// its category.
func (s *SiteService) FindExpanded(ctx context.Context, id uuid.UUID) (*models.ExpandedSite, error) {
	expanded, err := s.sites.GetExpanded(ctx, id)
	if err != nil {
		return nil, err
	}
	if expanded == nil {
		return nil, apperr.NotFound("Site with ID %s not found", id)
	}
	return expanded, nil
}

func (s *SiteService) FetchSiteInfo(ctx context.Context, id uuid.UUID, fetchedBy string) (*models.SiteInfo, error) {
	site, err := s.sites.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, apperr.NotFound("Site with ID %s not found", id)
	}

	info, err := s.fetcher.Fetch(ctx, site, fetchedBy)
	if err != nil {
		return nil, err
	}
	if err := s.sites.UpsertSiteInfo(ctx, info); err != nil {
		return nil, err
	}
	s.logger.Info("site info fetched",
		zap.String("siteId", id.String()),
		zap.String("fetchedBy", fetchedBy))
	return info, nil
}
