package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

type CreatePortInput struct {
	Number      int       `json:"number" validate:"required,min=1,max=65535"`
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
	Description *string   `json:"description"`
}

type UpdatePortInput struct {
	Number      *int       `json:"number" validate:"omitempty,min=1,max=65535"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Description *string    `json:"description"`
}

type PortService struct {
	ports      repository.Ports
	categories repository.PortCategories
	logger     *zap.Logger
}

func NewPortService(ports repository.Ports, categories repository.PortCategories, logger *zap.Logger) *PortService {
	return &PortService{ports: ports, categories: categories, logger: logger}
}

func (s *PortService) FindAll(ctx context.Context) ([]models.PortWithRelations, error) {
	return s.ports.List(ctx)
}

func (s *PortService) FindOne(ctx context.Context, id uuid.UUID) (*models.PortWithRelations, error) {
	port, err := s.ports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if port == nil {
		return nil, apperr.NotFound("Port with ID %s not found", id)
	}
	return port, nil
}

func (s *PortService) Create(ctx context.Context, in CreatePortInput) (*models.PortWithRelations, error) {
	category, err := s.categories.Get(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.BadRequest("Port category with ID %s not found", in.CategoryID)
	}

	existing, err := s.ports.GetByNumber(ctx, in.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest("Port number %d already exists", in.Number)
	}

	port := models.Port{Number: in.Number, CategoryID: in.CategoryID, Description: in.Description}
	if err := s.ports.Create(ctx, &port); err != nil {
		return nil, err
	}
	s.logger.Info("port created", zap.String("id", port.ID.String()), zap.Int("number", port.Number))
	return s.FindOne(ctx, port.ID)
}

func (s *PortService) Update(ctx context.Context, id uuid.UUID, in UpdatePortInput) (*models.PortWithRelations, error) {
	existing, err := s.ports.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Port with ID %s not found", id)
	}

	if in.CategoryID != nil {
		category, err := s.categories.Get(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.BadRequest("Port category with ID %s not found", *in.CategoryID)
		}
	}

	if in.Number != nil && *in.Number != existing.Number {
		conflict, err := s.ports.GetByNumber(ctx, *in.Number)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, apperr.BadRequest("Port number %d already exists", *in.Number)
		}
	}

	port := *existing
	if in.Number != nil {
		port.Number = *in.Number
	}
	if in.CategoryID != nil {
		port.CategoryID = *in.CategoryID
	}
	if in.Description != nil {
		port.Description = in.Description
	}
	if err := s.ports.Update(ctx, &port); err != nil {
		return nil, err
	}
	return s.FindOne(ctx, id)
}

func (s *PortService) Remove(ctx context.Context, id uuid.UUID) error {
	existing, err := s.ports.GetRow(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Port with ID %s not found", id)
	}

	instancesCount, err := s.ports.CountBindings(ctx, id)
	if err != nil {
		return err
	}
	if instancesCount > 0 {
		return apperr.BadRequest("Cannot delete port bound to %d instances. Unbind the port first.", instancesCount)
	}

	if err := s.ports.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("port deleted", zap.String("id", id.String()))
	return nil
}
