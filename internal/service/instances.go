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

type CreateInstanceInput struct {
	Name         string                `json:"name" validate:"required"`
	HostingID    uuid.UUID             `json:"hostingId" validate:"required"`
	IPAddress    string                `json:"ipAddress" validate:"required"`
	PortBindings models.PortBindingMap `json:"portBindings"`
}

type UpdateInstanceInput struct {
	Name      *string    `json:"name"`
	HostingID *uuid.UUID `json:"hostingId"`
	IPAddress *string    `json:"ipAddress"`
}

type BindPortInput struct {
	PortID   uuid.UUID `json:"portId" validate:"required"`
	Protocol string    `json:"protocol" validate:"required,oneof=tcp udp"`
	HostPort *int      `json:"hostPort" validate:"omitempty,min=1,max=65535"`
}

type InstanceService struct {
	instances repository.Instances
	hostings  repository.Hostings
	ports     repository.Ports
	sites     repository.Sites
	domains   repository.Domains
	logger    *zap.Logger
}

func NewInstanceService(
	instances repository.Instances,
	hostings repository.Hostings,
	ports repository.Ports,
	sites repository.Sites,
	domains repository.Domains,
	logger *zap.Logger,
) *InstanceService {
	return &InstanceService{
		instances: instances,
		hostings:  hostings,
		ports:     ports,
		sites:     sites,
		domains:   domains,
		logger:    logger,
	}
}

func (s *InstanceService) FindAll(ctx context.Context) ([]models.InstanceWithRelations, error) {
	return s.instances.List(ctx)
}

func (s *InstanceService) FindOne(ctx context.Context, id uuid.UUID) (*models.InstanceWithRelations, error) {
	instance, err := s.instances.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperr.NotFound("Instance with ID %s not found", id)
	}
	return instance, nil
}

func (s *InstanceService) Create(ctx context.Context, in CreateInstanceInput) (*models.InstanceWithRelations, error) {
	hosting, err := s.hostings.GetRow(ctx, in.HostingID)
	if err != nil {
		return nil, err
	}
	if hosting == nil {
		return nil, apperr.BadRequest("Hosting with ID %s not found", in.HostingID)
	}

	instance := models.Instance{
		Name:         in.Name,
		HostingID:    in.HostingID,
		IPAddress:    in.IPAddress,
		PortBindings: in.PortBindings,
	}
	if err := s.instances.Create(ctx, &instance); err != nil {
		return nil, err
	}
	s.logger.Info("instance created",
		zap.String("id", instance.ID.String()),
		zap.String("name", instance.Name))
	return s.FindOne(ctx, instance.ID)
}

func (s *InstanceService) Update(ctx context.Context, id uuid.UUID, in UpdateInstanceInput) (*models.InstanceWithRelations, error) {
	existing, err := s.instances.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Instance with ID %s not found", id)
	}

	if in.HostingID != nil {
		hosting, err := s.hostings.GetRow(ctx, *in.HostingID)
		if err != nil {
			return nil, err
		}
		if hosting == nil {
			return nil, apperr.BadRequest("Hosting with ID %s not found", *in.HostingID)
		}
	}

	instance := *existing
	if in.Name != nil {
		instance.Name = *in.Name
	}
	if in.HostingID != nil {
		instance.HostingID = *in.HostingID
	}
	if in.IPAddress != nil {
		instance.IPAddress = *in.IPAddress
	}
	if err := s.instances.Update(ctx, &instance); err != nil {
		return nil, err
	}
	return s.FindOne(ctx, id)
}

// Remove guards against dependent sites and domains. Active port bindings are
// not checked here; delete with bindings removes the join rows' parent and is
// currently allowed.
func (s *InstanceService) Remove(ctx context.Context, id uuid.UUID) error {
	existing, err := s.instances.GetRow(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Instance with ID %s not found", id)
	}

	sitesCount, err := s.sites.CountByInstance(ctx, id)
	if err != nil {
		return err
	}
	if sitesCount > 0 {
		return apperr.BadRequest("Cannot delete instance with %d associated sites", sitesCount)
	}

	domainsCount, err := s.domains.CountByInstance(ctx, id)
	if err != nil {
		return err
	}
	if domainsCount > 0 {
		return apperr.BadRequest("Cannot delete instance with %d associated domains", domainsCount)
	}

	if err := s.instances.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("instance deleted", zap.String("id", id.String()))
	return nil
}

func (s *InstanceService) BindPort(ctx context.Context, id uuid.UUID, in BindPortInput) (*models.PortBindingResult, error) {
	instance, err := s.instances.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperr.NotFound("Instance with ID %s not found", id)
	}

	port, err := s.ports.GetRow(ctx, in.PortID)
	if err != nil {
		return nil, err
	}
	if port == nil {
		return nil, apperr.BadRequest("Port with ID %s not found", in.PortID)
	}

	bound, err := s.instances.HasBinding(ctx, id, in.PortID)
	if err != nil {
		return nil, err
	}
	if bound {
		return nil, apperr.BadRequest("Port %s is already bound to this instance", in.PortID)
	}

	hostPort := port.Number
	if in.HostPort != nil {
		hostPort = *in.HostPort
	}
	now := time.Now().UTC()
	cfg := models.PortBindingConfig{
		Protocol: in.Protocol,
		HostPort: hostPort,
		BoundAt:  now,
	}
	if err := s.instances.BindPort(ctx, id, in.PortID, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("port bound",
		zap.String("instanceId", id.String()),
		zap.String("portId", in.PortID.String()),
		zap.String("protocol", in.Protocol),
		zap.Int("hostPort", hostPort))
	return &models.PortBindingResult{
		InstanceID: id,
		PortID:     in.PortID,
		Config:     cfg,
		BoundAt:    now,
	}, nil
}

func (s *InstanceService) UnbindPort(ctx context.Context, id, portID uuid.UUID) (*models.PortUnbindResult, error) {
	instance, err := s.instances.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperr.NotFound("Instance with ID %s not found", id)
	}

	if err := s.instances.UnbindPort(ctx, id, portID); err != nil {
		return nil, err
	}

	s.logger.Info("port unbound",
		zap.String("instanceId", id.String()),
		zap.String("portId", portID.String()))
	return &models.PortUnbindResult{
		InstanceID: id,
		PortID:     portID,
		UnboundAt:  time.Now().UTC(),
	}, nil
}
