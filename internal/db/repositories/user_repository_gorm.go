package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"larpilot/backoffice/internal/constants"
	models "larpilot/backoffice/internal/models/gorm"
)

// UserGormRepository handles users and plans with GORM
type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// GetByID loads the user with its plan preloaded.
func (r *UserGormRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if nf := notFound(err, constants.MsgUserNotFound); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (r *UserGormRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if nf := notFound(err, constants.MsgUserNotFound); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (r *UserGormRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Plan").Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserGormRepository) UpdateStatus(ctx context.Context, id string, status constants.AccountStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

// UpdatePlan sets the plan; nil moves the user back to the free tier.
func (r *UserGormRepository) UpdatePlan(ctx context.Context, id string, planID *string) error {
	return r.updateColumn(ctx, id, "plan_id", planID)
}

func (r *UserGormRepository) updateColumn(ctx context.Context, id, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, constants.MsgUserNotFound)
	}
	return nil
}

// PlanGormRepository handles subscription plans
type PlanGormRepository struct {
	db *gorm.DB
}

func NewPlanGormRepository(db *gorm.DB) *PlanGormRepository {
	return &PlanGormRepository{db: db}
}

func (r *PlanGormRepository) GetByID(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		if nf := notFound(err, "Plan not found"); nf != nil {
			return nil, nf
		}
		return nil, fmt.Errorf("failed to fetch plan: %w", err)
	}

	return &plan, nil
}

func (r *PlanGormRepository) List(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan

	if err := r.db.WithContext(ctx).Order("name").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}
