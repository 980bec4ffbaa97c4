package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/constants"
	models "larpilot/backoffice/internal/models/gorm"
)

// ParticipantGormRepository manages LARP memberships
type ParticipantGormRepository struct {
	db *gorm.DB
}

func NewParticipantGormRepository(db *gorm.DB) *ParticipantGormRepository {
	return &ParticipantGormRepository{db: db}
}

// FindRoles returns the user's role set inside the LARP. found is false when
// there is no participant record.
func (r *ParticipantGormRepository) FindRoles(ctx context.Context, larpID, userID string) (constants.RoleSet, bool, error) {
	var participants []models.Participant

	err := r.db.WithContext(ctx).
		Where("larp_id = ? AND user_id = ?", larpID, userID).
		Limit(1).
		Find(&participants).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch participant roles: %w", err)
	}
	if len(participants) == 0 {
		return nil, false, nil
	}

	return participants[0].Roles, true, nil
}

// CountOrganizedLarps counts LARPs where the user holds ORGANIZER. Roles are
// stored as a JSON array, so the quoted label only matches the whole token.
func (r *ParticipantGormRepository) CountOrganizedLarps(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("user_id = ? AND roles LIKE ?", userID, `%"`+string(constants.RoleOrganizer)+`"%`).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count organized larps: %w", err)
	}

	return count, nil
}

func (r *ParticipantGormRepository) GetByID(ctx context.Context, larpID, participantID string) (*models.Participant, error) {
	var participant models.Participant

	err := r.db.WithContext(ctx).
		Where("id = ? AND larp_id = ?", participantID, larpID).
		First(&participant).Error
	if err != nil {
		if nf := notFound(err, constants.MsgParticipantNotFound); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to fetch participant: %w", err)
	}

	return &participant, nil
}

// ListByLarp returns the LARP's participants with their users preloaded.
func (r *ParticipantGormRepository) ListByLarp(ctx context.Context, larpID string) ([]models.Participant, error) {
	var participants []models.Participant

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("larp_id = ?", larpID).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}

// Create adds a participant; a second record for the same user is a conflict.
func (r *ParticipantGormRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.Roles.IsEmpty() {
		return apperr.New(apperr.CodeValidation, constants.MsgEmptyRoleSet)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.Participant{}).
			Where("larp_id = ? AND user_id = ?", participant.LarpID, participant.UserID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check participant: %w", err)
		}
		if existing > 0 {
			return apperr.New(apperr.CodeConflict, constants.MsgAlreadyParticipant)
		}

		if err := tx.Omit(clause.Associations).Create(participant).Error; err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}
		return nil
	})
}

// IsLastOrganizer reports whether the participant is an organizer and no
// other participant of the same LARP is.
func (r *ParticipantGormRepository) IsLastOrganizer(ctx context.Context, participant *models.Participant) (bool, error) {
	return isLastOrganizer(r.db.WithContext(ctx), participant)
}

// UpdateRoles replaces the role set. Dropping ORGANIZER from the last
// organizer fails with ErrLastOrganizer.
func (r *ParticipantGormRepository) UpdateRoles(ctx context.Context, participant *models.Participant, roles constants.RoleSet) error {
	if roles.IsEmpty() {
		return apperr.New(apperr.CodeValidation, constants.MsgEmptyRoleSet)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !roles.IsOrganizer() {
			last, err := isLastOrganizer(lockLarp(tx, participant.LarpID), participant)
			if err != nil {
				return err
			}
			if last {
				return ErrLastOrganizer
			}
		}

		res := tx.Model(&models.Participant{}).
			Where("id = ?", participant.ID).
			Update("roles", roles)
		if res.Error != nil {
			return fmt.Errorf("failed to update participant roles: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, constants.MsgParticipantNotFound)
		}

		participant.Roles = roles
		return nil
	})
}

// Delete removes the participant unless it is the LARP's last organizer.
// The check is repeated inside the transaction.
func (r *ParticipantGormRepository) Delete(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		last, err := isLastOrganizer(lockLarp(tx, participant.LarpID), participant)
		if err != nil {
			return err
		}
		if last {
			return ErrLastOrganizer
		}

		res := tx.Where("id = ?", participant.ID).Delete(&models.Participant{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete participant: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, constants.MsgParticipantNotFound)
		}
		return nil
	})
}

func isLastOrganizer(db *gorm.DB, participant *models.Participant) (bool, error) {
	if !participant.Roles.IsOrganizer() {
		return false, nil
	}

	var others []models.Participant
	err := db.
		Where("larp_id = ? AND id <> ?", participant.LarpID, participant.ID).
		Find(&others).Error
	if err != nil {
		return false, fmt.Errorf("failed to load co-participants: %w", err)
	}

	for _, other := range others {
		if other.Roles.IsOrganizer() {
			return false, nil
		}
	}
	return true, nil
}

// lockLarp serializes organizer changes of one LARP on postgres. SQLite has a
// single writer and no row locks.
func lockLarp(tx *gorm.DB, larpID string) *gorm.DB {
	if tx.Dialector.Name() != "postgres" {
		return tx
	}
	var larp models.Larp
	tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", larpID).First(&larp)
	return tx
}
