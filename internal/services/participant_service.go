package services

import (
	"context"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db/repositories"
	"larpilot/backoffice/internal/logging"
	models "larpilot/backoffice/internal/models/gorm"
)

type ParticipantService struct {
	larps        *repositories.LarpGormRepository
	participants *repositories.ParticipantGormRepository
	users        *repositories.UserGormRepository
	authz        *auth.Authorizer
}

func NewParticipantService(
	larps *repositories.LarpGormRepository,
	participants *repositories.ParticipantGormRepository,
	users *repositories.UserGormRepository,
	authz *auth.Authorizer,
) *ParticipantService {
	return &ParticipantService{
		larps:        larps,
		participants: participants,
		users:        users,
		authz:        authz,
	}
}

func (s *ParticipantService) List(ctx context.Context, actor *auth.Actor, larpID string) ([]models.Participant, error) {
	if err := authorize(ctx, s.authz, actor, constants.PermViewLarpBackoffice, auth.LarpRef(larpID), constants.MsgPermissionDenied); err != nil {
		return nil, err
	}
	return s.participants.ListByLarp(ctx, larpID)
}

func (s *ParticipantService) Add(ctx context.Context, actor *auth.Actor, larpID, userID string, roleLabels []string) (*models.Participant, error) {
	larp, err := s.larps.GetByID(ctx, larpID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermManageParticipants, larp, constants.MsgPermissionDenied); err != nil {
		return nil, err
	}

	roles, err := parseRoles(roleLabels)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	participant := &models.Participant{LarpID: larp.ID, UserID: user.ID, Roles: roles}
	if err := s.participants.Create(ctx, participant); err != nil {
		return nil, err
	}
	participant.User = *user

	logging.Info("Participant added",
		"larp_id", larp.ID,
		"user_id", user.ID,
		"roles", roles.Strings(),
		"actor_id", actor.UserID,
	)
	return participant, nil
}

// UpdateRoles replaces a participant's roles. Removing ORGANIZER from the
// last organizer is a BUSINESS_RULE error.
func (s *ParticipantService) UpdateRoles(ctx context.Context, actor *auth.Actor, larpID, participantID string, roleLabels []string) (*models.Participant, error) {
	participant, err := s.participants.GetByID(ctx, larpID, participantID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.authz, actor, constants.PermManageParticipants, participant, constants.MsgPermissionDenied); err != nil {
		return nil, err
	}

	roles, err := parseRoles(roleLabels)
	if err != nil {
		return nil, err
	}
	if err := s.participants.UpdateRoles(ctx, participant, roles); err != nil {
		return nil, err
	}

	logging.Info("Participant roles updated",
		"larp_id", larpID,
		"participant_id", participantID,
		"roles", roles.Strings(),
		"actor_id", actor.UserID,
	)
	return participant, nil
}

// Remove deletes a participant. The last-organizer rule is checked before
// authorization, so it is reported even to callers who could not delete.
func (s *ParticipantService) Remove(ctx context.Context, actor *auth.Actor, larpID, participantID string) error {
	participant, err := s.participants.GetByID(ctx, larpID, participantID)
	if err != nil {
		return err
	}

	last, err := s.participants.IsLastOrganizer(ctx, participant)
	if err != nil {
		return err
	}
	if last {
		return repositories.ErrLastOrganizer
	}

	if err := authorize(ctx, s.authz, actor, constants.PermDeleteParticipant, participant, constants.MsgPermissionDenied); err != nil {
		return err
	}
	if err := s.participants.Delete(ctx, participant); err != nil {
		return err
	}

	logging.Info("Participant removed",
		"larp_id", larpID,
		"participant_id", participantID,
		"actor_id", actor.UserID,
	)
	return nil
}

func parseRoles(labels []string) (constants.RoleSet, error) {
	roles, err := constants.ParseRoleSet(labels)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeValidation, err.Error())
	}
	if roles.IsEmpty() {
		return nil, apperr.New(apperr.CodeValidation, constants.MsgEmptyRoleSet)
	}
	return roles, nil
}
