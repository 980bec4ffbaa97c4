package services

import (
	"context"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db/repositories"
	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/models/dtos/requests"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

type LarpService struct {
	larps        *repositories.LarpGormRepository
	participants *repositories.ParticipantGormRepository
	locations    *repositories.LocationGormRepository
	workflow     *LarpWorkflow
	authz        *auth.Authorizer
}

func NewLarpService(
	larps *repositories.LarpGormRepository,
	participants *repositories.ParticipantGormRepository,
	locations *repositories.LocationGormRepository,
	larpWorkflow *LarpWorkflow,
	authz *auth.Authorizer,
) *LarpService {
	return &LarpService{
		larps:        larps,
		participants: participants,
		locations:    locations,
		workflow:     larpWorkflow,
		authz:        authz,
	}
}

// Create stores a DRAFT LARP with the actor as its organizer.
func (s *LarpService) Create(ctx context.Context, actor *auth.Actor, req *requests.CreateLarpRequest) (*models.Larp, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeValidation, err.Error())
	}

	message := constants.MsgLarpQuotaExceeded
	if !auth.CanUserCreateLocation(actor) {
		// Same account gate as location creation.
		message = constants.MsgAccountNotApproved
	}
	if err := authorize(ctx, s.authz, actor, constants.PermCreateLarp, nil, message); err != nil {
		return nil, err
	}

	if req.LocationID != nil {
		location, err := s.locations.GetByID(ctx, *req.LocationID)
		if err != nil {
			return nil, err
		}
		if location.Approval.Status != workflow.ApprovalApproved && location.CreatedBy != actor.UserID {
			return nil, apperr.New(apperr.CodeValidation, "Location is not approved")
		}
	}

	larp := &models.Larp{
		Title:       req.Title,
		Description: req.Description,
		Status:      workflow.InitialStatus(),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		LocationID:  req.LocationID,
		CreatedBy:   actor.UserID,
	}
	if err := s.larps.CreateWithOrganizer(ctx, larp, actor.UserID); err != nil {
		return nil, err
	}

	logging.Info("LARP created", "larp_id", larp.ID, "actor_id", actor.UserID)
	return larp, nil
}

// Get returns a LARP visible to the actor. Hidden LARPs are reported as not
// found to anyone outside them. actor may be nil for anonymous reads.
func (s *LarpService) Get(ctx context.Context, actor *auth.Actor, larpID string) (*models.Larp, error) {
	larp, err := s.larps.GetByID(ctx, larpID)
	if err != nil {
		return nil, err
	}
	if workflow.IsVisibleForEveryone(larp.Status) {
		return larp, nil
	}

	if actor != nil {
		_, found, err := s.participants.FindRoles(ctx, larp.ID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if found {
			return larp, nil
		}
	}
	return nil, apperr.New(apperr.CodeNotFound, constants.MsgLarpNotFound)
}

func (s *LarpService) ListPublic(ctx context.Context) ([]models.Larp, error) {
	return s.larps.ListByStatuses(ctx, workflow.PubliclyVisibleStatuses())
}

// EnabledTransitions lists what the organizer can do next.
func (s *LarpService) EnabledTransitions(ctx context.Context, actor *auth.Actor, larpID string) (*models.Larp, []workflow.Transition, error) {
	larp, err := s.larps.GetByID(ctx, larpID)
	if err != nil {
		return nil, nil, err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermManageLarpGeneralSettings, larp, constants.MsgPermissionDenied); err != nil {
		return nil, nil, err
	}
	return larp, s.workflow.EnabledTransitions(larp), nil
}

// ApplyTransition authorizes and applies a named transition. A transition
// that is not enabled, or lost a race, is a CONFLICT.
func (s *LarpService) ApplyTransition(ctx context.Context, actor *auth.Actor, larpID, name string) (*models.Larp, error) {
	transition, err := workflow.ParseTransition(name)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeValidation, "Unknown transition")
	}

	larp, err := s.larps.GetByID(ctx, larpID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermManageLarpGeneralSettings, larp, constants.MsgPermissionDenied); err != nil {
		return nil, err
	}

	applied, err := s.workflow.ApplyTransition(ctx, larp, transition, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperr.New(apperr.CodeConflict, constants.MsgTransitionNotEnabled)
	}
	return larp, nil
}

func (s *LarpService) History(ctx context.Context, actor *auth.Actor, larpID string) ([]models.LarpStatusChange, error) {
	if err := authorize(ctx, s.authz, actor, constants.PermViewLarpBackoffice, auth.LarpRef(larpID), constants.MsgPermissionDenied); err != nil {
		return nil, err
	}
	return s.larps.History(ctx, larpID)
}
