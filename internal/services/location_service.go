package services

import (
	"context"
	"time"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db/repositories"
	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/metrics"
	"larpilot/backoffice/internal/models/dtos/requests"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

type LocationService struct {
	locations *repositories.LocationGormRepository
	authz     *auth.Authorizer
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

func NewLocationService(locations *repositories.LocationGormRepository, authz *auth.Authorizer, metricsReg *metrics.MetricsRegistry) *LocationService {
	return &LocationService{
		locations: locations,
		authz:     authz,
		metrics:   metricsReg,
		now:       time.Now,
	}
}

// Create stores a PENDING location. Locations created by a super admin are
// approved on the spot.
func (s *LocationService) Create(ctx context.Context, actor *auth.Actor, req *requests.LocationRequest) (*models.Location, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeValidation, err.Error())
	}
	if err := authorize(ctx, s.authz, actor, constants.PermCreateLocation, nil, constants.MsgAccountNotApproved); err != nil {
		return nil, err
	}

	location := &models.Location{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Country:     req.Country,
		IsPublic:    req.IsPublic,
		CreatedBy:   actor.UserID,
		Approval:    workflow.NewApproval(),
	}
	if actor.IsSuperAdmin() {
		location.Approval.AutoApprove(actor.UserID, s.now().UTC())
	}

	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	if location.Approval.Status == workflow.ApprovalApproved {
		s.record(location.Approval.Status)
	}

	logging.Info("Location created",
		"location_id", location.ID,
		"approval_status", location.Approval.Status.String(),
		"actor_id", actor.UserID,
	)
	return location, nil
}

// Update changes the descriptive fields. The approval state is left as is.
func (s *LocationService) Update(ctx context.Context, actor *auth.Actor, locationID string, req *requests.LocationRequest) (*models.Location, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeValidation, err.Error())
	}
	location, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermEditLocation, location, constants.MsgLocationNotEditable); err != nil {
		return nil, err
	}

	location.Name = req.Name
	location.Description = req.Description
	location.Address = req.Address
	location.Country = req.Country
	location.IsPublic = req.IsPublic
	if err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}

	logging.Info("Location updated", "location_id", location.ID, "actor_id", actor.UserID)
	return location, nil
}

func (s *LocationService) Delete(ctx context.Context, actor *auth.Actor, locationID string) error {
	location, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermDeleteLocation, location, constants.MsgLocationNotEditable); err != nil {
		return err
	}
	if err := s.locations.Delete(ctx, location.ID); err != nil {
		return err
	}

	logging.Info("Location deleted", "location_id", location.ID, "actor_id", actor.UserID)
	return nil
}

func (s *LocationService) Approve(ctx context.Context, actor *auth.Actor, locationID string) (*models.Location, error) {
	location, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermApproveLocation, location, constants.MsgPermissionDenied); err != nil {
		return nil, err
	}

	location.Approval.Approve(actor.UserID, s.now().UTC())
	if err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}
	s.record(location.Approval.Status)

	logging.Info("Location approved", "location_id", location.ID, "actor_id", actor.UserID)
	return location, nil
}

func (s *LocationService) Reject(ctx context.Context, actor *auth.Actor, locationID, reason string) (*models.Location, error) {
	location, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermRejectLocation, location, constants.MsgPermissionDenied); err != nil {
		return nil, err
	}

	location.Approval.Reject(reason)
	if err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}
	s.record(location.Approval.Status)

	logging.Info("Location rejected",
		"location_id", location.ID,
		"reason", reason,
		"actor_id", actor.UserID,
	)
	return location, nil
}

// ListPending is the moderation queue.
func (s *LocationService) ListPending(ctx context.Context, actor *auth.Actor) ([]models.Location, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.New(apperr.CodeForbidden, constants.MsgPermissionDenied)
	}
	return s.locations.ListByApprovalStatus(ctx, workflow.ApprovalPending)
}

// ListVisible returns approved locations plus the actor's own.
func (s *LocationService) ListVisible(ctx context.Context, actor *auth.Actor) ([]models.Location, error) {
	if actor == nil {
		return s.locations.ListByApprovalStatus(ctx, workflow.ApprovalApproved)
	}
	return s.locations.ListVisibleTo(ctx, actor.UserID)
}

func (s *LocationService) record(status workflow.ApprovalStatus) {
	if s.metrics != nil {
		s.metrics.RecordLocationDecision(status.String())
	}
}
