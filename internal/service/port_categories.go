// Package service implements the resource services over the repository
// interfaces: CRUD plus the cross-entity checks (referential integrity,
// uniqueness, delete guards) and the domain workflows (port binding, renewal,
// site expansion, site-info fetch).
//
// Layering: services run advisory pre-checks and fast-fail with apperr
// values; the store's own constraints remain the authoritative backstop for
// racing writers, and their violations surface through the same error shapes.
package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

type CreatePortCategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type UpdatePortCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type PortCategoryService struct {
	categories repository.PortCategories
	logger     *zap.Logger
}

func NewPortCategoryService(categories repository.PortCategories, logger *zap.Logger) *PortCategoryService {
	return &PortCategoryService{categories: categories, logger: logger}
}

func (s *PortCategoryService) FindAll(ctx context.Context) ([]models.PortCategoryWithPorts, error) {
	return s.categories.List(ctx)
}

func (s *PortCategoryService) FindOne(ctx context.Context, id uuid.UUID) (*models.PortCategoryWithPorts, error) {
	category, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Port category with ID %s not found", id)
	}
	return category, nil
}

func (s *PortCategoryService) Create(ctx context.Context, in CreatePortCategoryInput) (*models.PortCategoryWithPorts, error) {
	existing, err := s.categories.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest("Port category with name '%s' already exists", in.Name)
	}

	category := models.PortCategory{Name: in.Name, Description: in.Description}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, err
	}
	s.logger.Info("port category created", zap.String("id", category.ID.String()), zap.String("name", category.Name))
	return s.FindOne(ctx, category.ID)
}

func (s *PortCategoryService) Update(ctx context.Context, id uuid.UUID, in UpdatePortCategoryInput) (*models.PortCategoryWithPorts, error) {
	existing, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Port category with ID %s not found", id)
	}

	if in.Name != nil && *in.Name != existing.Name {
		conflict, err := s.categories.GetByName(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, apperr.BadRequest("Port category with name '%s' already exists", *in.Name)
		}
	}

	category := existing.PortCategory
	if in.Name != nil {
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = in.Description
	}
	if err := s.categories.Update(ctx, &category); err != nil {
		return nil, err
	}
	return s.FindOne(ctx, id)
}

func (s *PortCategoryService) Remove(ctx context.Context, id uuid.UUID) error {
	existing, err := s.categories.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Port category with ID %s not found", id)
	}

	portsCount, err := s.categories.CountPorts(ctx, id)
	if err != nil {
		return err
	}
	if portsCount > 0 {
		return apperr.BadRequest("Cannot delete port category with %d associated ports. Delete or reassign the ports first.", portsCount)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("port category deleted", zap.String("id", id.String()))
	return nil
}
