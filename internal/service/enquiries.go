package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/repository"
)

type CreateEnquiryInput struct {
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    string  `json:"lastName" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Company     *string `json:"company"`
	ProjectType string  `json:"projectType" validate:"required,oneof=web-development mobile-app ui-ux-design consulting other"`
	Budget      *string `json:"budget" validate:"omitempty,oneof=under-10k 10k-25k 25k-50k 50k-100k over-100k"`
	Timeline    *string `json:"timeline" validate:"omitempty,oneof=asap 1-3-months 3-6-months 6-12-months flexible"`
	Message     string  `json:"message" validate:"required,min=20"`
	Newsletter  *bool   `json:"newsletter"`
}

// EnquiryService wraps every store failure as an internal error; storage
// details never reach the contact-form caller. FindOne reports absence as
// (nil, nil) and leaves the 404 decision to the handler, which also
// pre-checks existence before Remove.
type EnquiryService struct {
	enquiries repository.Enquiries
	logger    *zap.Logger
}

func NewEnquiryService(enquiries repository.Enquiries, logger *zap.Logger) *EnquiryService {
	return &EnquiryService{enquiries: enquiries, logger: logger}
}

func (s *EnquiryService) Create(ctx context.Context, in CreateEnquiryInput) (*models.Enquiry, error) {
	enquiry := models.Enquiry{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Company:     in.Company,
		ProjectType: in.ProjectType,
		Budget:      in.Budget,
		Timeline:    in.Timeline,
		Message:     in.Message,
	}
	if in.Newsletter != nil {
		enquiry.Newsletter = *in.Newsletter
	}
	if err := s.enquiries.Create(ctx, &enquiry); err != nil {
		s.logger.Error("enquiry create failed", zap.Error(err))
		return nil, apperr.Internal("Failed to create enquiry")
	}
	s.logger.Info("enquiry created", zap.String("id", enquiry.ID.String()))
	return &enquiry, nil
}

func (s *EnquiryService) FindAll(ctx context.Context) ([]models.Enquiry, error) {
	enquiries, err := s.enquiries.List(ctx)
	if err != nil {
		s.logger.Error("enquiry list failed", zap.Error(err))
		return nil, apperr.Internal("Failed to fetch enquiries")
	}
	return enquiries, nil
}

func (s *EnquiryService) FindOne(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	enquiry, err := s.enquiries.Get(ctx, id)
	if err != nil {
		s.logger.Error("enquiry get failed", zap.Error(err))
		return nil, apperr.Internal("Failed to fetch enquiry")
	}
	return enquiry, nil
}

func (s *EnquiryService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.enquiries.Delete(ctx, id); err != nil {
		s.logger.Error("enquiry delete failed", zap.Error(err))
		return apperr.Internal("Failed to delete enquiry")
	}
	return nil
}
