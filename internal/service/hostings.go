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

type CreateHostingInput struct {
	ProviderName    string     `json:"providerName" validate:"required"`
	ProviderAccount string     `json:"providerAccount" validate:"required"`
	PriceYear       *float64   `json:"priceYear" validate:"omitempty,gte=0"`
	PaidAt          *time.Time `json:"paidAt"`
	Currency        *string    `json:"currency"`
}

type UpdateHostingInput struct {
	ProviderName    *string    `json:"providerName"`
	ProviderAccount *string    `json:"providerAccount"`
	PriceYear       *float64   `json:"priceYear" validate:"omitempty,gte=0"`
	PaidAt          *time.Time `json:"paidAt"`
	Currency        *string    `json:"currency"`
}

type HostingService struct {
	hostings repository.Hostings
	logger   *zap.Logger
}

func NewHostingService(hostings repository.Hostings, logger *zap.Logger) *HostingService {
	return &HostingService{hostings: hostings, logger: logger}
}

func (s *HostingService) FindAll(ctx context.Context) ([]models.HostingWithInstances, error) {
	return s.hostings.List(ctx)
}

func (s *HostingService) FindOne(ctx context.Context, id uuid.UUID) (*models.HostingWithInstances, error) {
	hosting, err := s.hostings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if hosting == nil {
		return nil, apperr.NotFound("Hosting with ID %s not found", id)
	}
	return hosting, nil
}

func (s *HostingService) Create(ctx context.Context, in CreateHostingInput) (*models.HostingWithInstances, error) {
	existing, err := s.hostings.GetByProvider(ctx, in.ProviderName, in.ProviderAccount)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest("Hosting with provider '%s' and account '%s' already exists", in.ProviderName, in.ProviderAccount)
	}

	hosting := models.Hosting{
		ProviderName:    in.ProviderName,
		ProviderAccount: in.ProviderAccount,
		PriceYear:       in.PriceYear,
		PaidAt:          in.PaidAt,
		Currency:        "USD",
	}
	if in.Currency != nil {
		hosting.Currency = *in.Currency
	}
	if err := s.hostings.Create(ctx, &hosting); err != nil {
		return nil, err
	}
	s.logger.Info("hosting created",
		zap.String("id", hosting.ID.String()),
		zap.String("provider", hosting.ProviderName))
	return s.FindOne(ctx, hosting.ID)
}

func (s *HostingService) Update(ctx context.Context, id uuid.UUID, in UpdateHostingInput) (*models.HostingWithInstances, error) {
	existing, err := s.hostings.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Hosting with ID %s not found", id)
	}

	newProviderName := existing.ProviderName
	newProviderAccount := existing.ProviderAccount
	if in.ProviderName != nil {
		newProviderName = *in.ProviderName
	}
	if in.ProviderAccount != nil {
		newProviderAccount = *in.ProviderAccount
	}
	if newProviderName != existing.ProviderName || newProviderAccount != existing.ProviderAccount {
		conflict, err := s.hostings.GetByProvider(ctx, newProviderName, newProviderAccount)
		if err != nil {
			return nil, err
		}
		if conflict != nil && conflict.ID != id {
			return nil, apperr.BadRequest("Hosting with provider '%s' and account '%s' already exists", newProviderName, newProviderAccount)
		}
	}

	hosting := *existing
	hosting.ProviderName = newProviderName
	hosting.ProviderAccount = newProviderAccount
	if in.PriceYear != nil {
		hosting.PriceYear = in.PriceYear
	}
	if in.PaidAt != nil {
		hosting.PaidAt = in.PaidAt
	}
	if in.Currency != nil {
		hosting.Currency = *in.Currency
	}
	if err := s.hostings.Update(ctx, &hosting); err != nil {
		return nil, err
	}
	return s.FindOne(ctx, id)
}

func (s *HostingService) Remove(ctx context.Context, id uuid.UUID) error {
	existing, err := s.hostings.GetRow(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Hosting with ID %s not found", id)
	}

	instancesCount, err := s.hostings.CountInstances(ctx, id)
	if err != nil {
		return err
	}
	if instancesCount > 0 {
		return apperr.BadRequest("Cannot delete hosting with %d associated instances. Delete or reassign the instances first.", instancesCount)
	}

	if err := s.hostings.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("hosting deleted", zap.String("id", id.String()))
	return nil
}
