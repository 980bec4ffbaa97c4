package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"larpilot/backoffice/internal/constants"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

// LarpGormRepository persists LARPs and their status history
type LarpGormRepository struct {
	db *gorm.DB
}

func NewLarpGormRepository(db *gorm.DB) *LarpGormRepository {
	return &LarpGormRepository{db: db}
}

// CreateWithOrganizer stores the LARP and makes organizerID its first
// ORGANIZER participant in one transaction.
func (r *LarpGormRepository) CreateWithOrganizer(ctx context.Context, larp *models.Larp, organizerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(larp).Error; err != nil {
			return fmt.Errorf("failed to create larp: %w", err)
		}

		organizer := &models.Participant{
			LarpID: larp.ID,
			UserID: organizerID,
			Roles:  constants.NewRoleSet(constants.RoleOrganizer),
		}
		if err := tx.Omit(clause.Associations).Create(organizer).Error; err != nil {
			return fmt.Errorf("failed to add organizer: %w", err)
		}
		return nil
	})
}

func (r *LarpGormRepository) GetByID(ctx context.Context, id string) (*models.Larp, error) {
	var larp models.Larp

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&larp).Error
	if err != nil {
		if nf := notFound(err, constants.MsgLarpNotFound); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to fetch larp: %w", err)
	}

	return &larp, nil
}

// ListByStatuses returns LARPs in any of statuses, soonest first.
func (r *LarpGormRepository) ListByStatuses(ctx context.Context, statuses []workflow.LarpStatus) ([]models.Larp, error) {
	var larps []models.Larp

	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("start_date ASC").
		Order("created_at ASC").
		Find(&larps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list larps: %w", err)
	}

	return larps, nil
}

// ListConfirmedEndedBefore feeds the completion sweep.
func (r *LarpGormRepository) ListConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Larp, error) {
	var larps []models.Larp

	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", workflow.StatusConfirmed, cutoff).
		Find(&larps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ended larps: %w", err)
	}

	return larps, nil
}

// CompareAndSwapStatus moves the LARP from one status to another and records
// the change. It reports false when the LARP is no longer in from, which is
// how a concurrent transition that won the race shows up.
func (r *LarpGormRepository) CompareAndSwapStatus(ctx context.Context, larpID string, from, to workflow.LarpStatus, transition workflow.Transition, actorID string) (bool, error) {
	swapped := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Larp{}).
			Where("id = ? AND status = ?", larpID, from).
			Updates(map[string]any{"status": to, "updated_at": time.Now()})
		if res.Error != nil {
			return fmt.Errorf("failed to update larp status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		change := &models.LarpStatusChange{
			LarpID:     larpID,
			Transition: transition,
			FromStatus: from,
			ToStatus:   to,
			ActorID:    actorID,
		}
		if err := tx.Create(change).Error; err != nil {
			return fmt.Errorf("failed to record status change: %w", err)
		}

		swapped = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return swapped, nil
}

// History returns applied transitions, oldest first.
func (r *LarpGormRepository) History(ctx context.Context, larpID string) ([]models.LarpStatusChange, error) {
	var changes []models.LarpStatusChange

	err := r.db.WithContext(ctx).
		Where("larp_id = ?", larpID).
		Order("created_at ASC").
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch larp history: %w", err)
	}

	return changes, nil
}
