package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

// dnsNameRE accepts dot-separated labels of up to 63 characters, each
// starting and ending with an alphanumeric.
var dnsNameRE = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func isValidDNSName(name string) bool {
	return dnsNameRE.MatchString(name)
}

type CreateDomainInput struct {
	Name       string     `json:"name" validate:"required"`
	InstanceID uuid.UUID  `json:"instanceId" validate:"required"`
	Provider   string     `json:"provider" validate:"required"`
	PaidUntil  *time.Time `json:"paidUntil"`
	PriceYear  *float64   `json:"priceYear" validate:"omitempty,gte=0"`
	Currency   *string    `json:"currency"`
	AutoRenew  *bool      `json:"autoRenew"`
}

type UpdateDomainInput struct {
	Name       *string    `json:"name"`
	InstanceID *uuid.UUID `json:"instanceId"`
	Provider   *string    `json:"provider"`
	PaidUntil  *time.Time `json:"paidUntil"`
	PriceYear  *float64   `json:"priceYear" validate:"omitempty,gte=0"`
	Currency   *string    `json:"currency"`
	AutoRenew  *bool      `json:"autoRenew"`
}

type DomainService struct {
	domains   repository.Domains
	instances repository.Instances
	sites     repository.Sites
	logger    *zap.Logger
}

func NewDomainService(domains repository.Domains, instances repository.Instances, sites repository.Sites, logger *zap.Logger) *DomainService {
	return &DomainService{domains: domains, instances: instances, sites: sites, logger: logger}
}

func (s *DomainService) FindAll(ctx context.Context, f repository.DomainFilter) ([]models.DomainWithRelations, error) {
	return s.domains.List(ctx, f)
}

func (s *DomainService) FindOne(ctx context.Context, id uuid.UUID) (*models.DomainWithRelations, error) {
	domain, err := s.domains.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, apperr.NotFound("Domain with ID %s not found", id)
	}
	return domain, nil
}

func (s *DomainService) Create(ctx context.Context, in CreateDomainInput) (*models.DomainWithRelations, error) {
	instance, err := s.instances.GetRow(ctx, in.InstanceID)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperr.BadRequest("Instance with ID %s not found", in.InstanceID)
	}

	if !isValidDNSName(in.Name) {
		return nil, apperr.BadRequest("Invalid DNS name format: %s", in.Name)
	}

	existing, err := s.domains.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest("Domain %s already exists", in.Name)
	}

	domain := models.Domain{
		Name:       in.Name,
		InstanceID: in.InstanceID,
		Provider:   in.Provider,
		PaidUntil:  in.PaidUntil,
		PriceYear:  in.PriceYear,
		Currency:   "USD",
	}
	if in.Currency != nil {
		domain.Currency = *in.Currency
	}
	if in.AutoRenew != nil {
		domain.AutoRenew = *in.AutoRenew
	}
	if err := s.domains.Create(ctx, &domain); err != nil {
		return nil, err
	}
	s.logger.Info("domain created", zap.String("id", domain.ID.String()), zap.String("name", domain.Name))
	return s.FindOne(ctx, domain.ID)
}

func (s *DomainService) Update(ctx context.Context, id uuid.UUID, in UpdateDomainInput) (*models.DomainWithRelations, error) {
	existing, err := s.domains.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Domain with ID %s not found", id)
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

	if in.Name != nil {
		if !isValidDNSName(*in.Name) {
			return nil, apperr.BadRequest("Invalid DNS name format: %s", *in.Name)
		}
		if *in.Name != existing.Name {
			conflict, err := s.domains.GetByName(ctx, *in.Name)
			if err != nil {
				return nil, err
			}
			if conflict != nil {
				return nil, apperr.BadRequest("Domain %s already exists", *in.Name)
			}
		}
	}

	domain := *existing
	if in.Name != nil {
		domain.Name = *in.Name
	}
	if in.InstanceID != nil {
		domain.InstanceID = *in.InstanceID
	}
	if in.Provider != nil {
		domain.Provider = *in.Provider
	}
	if in.PaidUntil != nil {
		domain.PaidUntil = in.PaidUntil
	}
	if in.PriceYear != nil {
		domain.PriceYear = in.PriceYear
	}
	if in.Currency != nil {
		domain.Currency = *in.Currency
	}
	if in.AutoRenew != nil {
		domain.AutoRenew = *in.AutoRenew
	}
	if err := s.domains.Update(ctx, &domain); err != nil {
		return nil, err
	}
	return s.FindOne(ctx, id)
}

func (s *DomainService) Remove(ctx context.Context, id uuid.UUID) error {
	existing, err := s.domains.GetRow(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Domain with ID %s not found", id)
	}

	primarySitesCount, err := s.sites.CountByPrimaryDomain(ctx, id)
	if err != nil {
		return err
	}
	if primarySitesCount > 0 {
		return apperr.BadRequest("Cannot delete domain used as primary domain for %d sites", primarySitesCount)
	}

	if err := s.domains.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("domain deleted", zap.String("id", id.String()))
	return nil
}

// Renew extends the domain's expiry by one calendar year, from the current
// expiry when set or from now otherwise. Feb 29 normalizes to Mar 1 in
// non-leap target years per time.AddDate. Purely a bookkeeping update; no
// billing side effect is triggered.
func (s *DomainService) Renew(ctx context.Context, id uuid.UUID) (*models.RenewalReceipt, error) {
	domain, err := s.domains.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, apperr.NotFound("Domain with ID %s not found", id)
	}

	renewalAmount := 0.0
	if domain.PriceYear != nil {
		renewalAmount = *domain.PriceYear
	}
	currency := domain.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	currentExpiration := now
	if domain.PaidUntil != nil {
		currentExpiration = *domain.PaidUntil
	}
	newExpiration := currentExpiration.AddDate(1, 0, 0)

	domain.PaidUntil = &newExpiration
	if err := s.domains.Update(ctx, domain); err != nil {
		return nil, err
	}

	transactionID := fmt.Sprintf("txn_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
	s.logger.Info("domain renewed",
		zap.String("id", id.String()),
		zap.String("name", domain.Name),
		zap.Time("newExpirationDate", newExpiration),
		zap.String("transactionId", transactionID))

	return &models.RenewalReceipt{
		DomainID:          id,
		DomainName:        domain.Name,
		NewExpirationDate: newExpiration,
		RenewalAmount:     renewalAmount,
		Currency:          currency,
		RenewedAt:         now,
		TransactionID:     transactionID,
	}, nil
}
