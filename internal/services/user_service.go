package services

import (
	"context"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db/repositories"
	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/models/dtos/responses"
	models "larpilot/backoffice/internal/models/gorm"
)

// ActorInvalidator drops a cached actor after its account changed.
type ActorInvalidator interface {
	Invalidate(userID string)
}

type UserService struct {
	users        *repositories.UserGormRepository
	plans        *repositories.PlanGormRepository
	participants *repositories.ParticipantGormRepository
	authz        *auth.Authorizer
	actors       ActorInvalidator
}

func NewUserService(
	users *repositories.UserGormRepository,
	plans *repositories.PlanGormRepository,
	participants *repositories.ParticipantGormRepository,
	authz *auth.Authorizer,
	actors ActorInvalidator,
) *UserService {
	return &UserService{
		users:        users,
		plans:        plans,
		participants: participants,
		authz:        authz,
		actors:       actors,
	}
}

// Capabilities summarizes what the actor may create right now.
func (s *UserService) Capabilities(ctx context.Context, actor *auth.Actor) (*responses.CapabilitiesResponse, error) {
	if actor == nil {
		return nil, auth.ErrMissingActor
	}

	canCreateLarp, err := s.authz.IsGranted(ctx, actor, constants.PermCreateLarp, nil)
	if err != nil {
		return nil, err
	}
	organized, err := s.participants.CountOrganizedLarps(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	caps := &responses.CapabilitiesResponse{
		UserID:            actor.UserID,
		Status:            actor.Status.String(),
		IsSuperAdmin:      actor.IsSuperAdmin(),
		CanCreateLarp:     canCreateLarp,
		CanCreateLocation: auth.CanUserCreateLocation(actor),
		OrganizedLarps:    organized,
	}
	if limit, unlimited := auth.LarpLimit(actor); !unlimited {
		caps.LarpLimit = &limit
	}
	if actor.Plan != nil {
		caps.PlanName = actor.Plan.Name
	}
	return caps, nil
}

func (s *UserService) GetAccount(ctx context.Context, actor *auth.Actor, userID string) (*models.User, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) SetAccountStatus(ctx context.Context, actor *auth.Actor, userID, status string) (*models.User, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	parsed, err := constants.ParseAccountStatus(status)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeValidation, err.Error())
	}

	if err := s.users.UpdateStatus(ctx, userID, parsed); err != nil {
		return nil, err
	}
	s.actors.Invalidate(userID)

	logging.Info("Account status changed",
		"user_id", userID,
		"status", parsed.String(),
		"actor_id", actor.UserID,
	)
	return s.users.GetByID(ctx, userID)
}

// SetPlan assigns a plan, or clears it when planID is nil.
func (s *UserService) SetPlan(ctx context.Context, actor *auth.Actor, userID string, planID *string) (*models.User, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if planID != nil {
		if _, err := s.plans.GetByID(ctx, *planID); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdatePlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	s.actors.Invalidate(userID)

	plan := "free"
	if planID != nil {
		plan = *planID
	}
	logging.Info("Account plan changed", "user_id", userID, "plan", plan, "actor_id", actor.UserID)
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) ListPlans(ctx context.Context) ([]models.Plan, error) {
	return s.plans.List(ctx)
}

func requireSuperAdmin(actor *auth.Actor) error {
	if !actor.IsSuperAdmin() {
		return apperr.New(apperr.CodeForbidden, constants.MsgPermissionDenied)
	}
	return nil
}
