package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"larpilot/backoffice/internal/constants"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

// LocationGormRepository persists venues and their approval state
type LocationGormRepository struct {
	db *gorm.DB
}

func NewLocationGormRepository(db *gorm.DB) *LocationGormRepository {
	return &LocationGormRepository{db: db}
}

func (r *LocationGormRepository) Create(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (r *LocationGormRepository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	var location models.Location

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&location).Error
	if err != nil {
		if nf := notFound(err, constants.MsgLocationNotFound); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}

	return &location, nil
}

// Save writes every column, approval fields included, so cleared pointers
// become NULL.
func (r *LocationGormRepository) Save(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Save(location).Error; err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}

func (r *LocationGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Location{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete location: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, constants.MsgLocationNotFound)
	}
	return nil
}

func (r *LocationGormRepository) ListByApprovalStatus(ctx context.Context, status workflow.ApprovalStatus) ([]models.Location, error) {
	var locations []models.Location

	err := r.db.WithContext(ctx).
		Where("approval_status = ?", status).
		Order("created_at ASC").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}

// ListVisibleTo returns approved locations plus the user's own submissions.
func (r *LocationGormRepository) ListVisibleTo(ctx context.Context, userID string) ([]models.Location, error) {
	var locations []models.Location

	err := r.db.WithContext(ctx).
		Where("approval_status = ? OR created_by = ?", workflow.ApprovalApproved, userID).
		Order("name ASC").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}
