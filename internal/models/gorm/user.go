package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
)

type User struct {
	ID          string                  `gorm:"column:id;primaryKey;type:uuid"`
	Email       string                  `gorm:"column:email;uniqueIndex;not null"`
	DisplayName string                  `gorm:"column:display_name"`
	Status      constants.AccountStatus `gorm:"column:status;type:varchar(16);not null;index"`
	GlobalRole  constants.GlobalRole    `gorm:"column:global_role;type:varchar(32)"`
	PlanID      *string                 `gorm:"column:plan_id;type:uuid"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Plan *Plan `gorm:"foreignKey:PlanID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gormlib.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = constants.AccountPending
	}
	return nil
}

// ToActor builds the authorization view of the user. Plan must be preloaded
// for the quota to be known.
func (u *User) ToActor() *auth.Actor {
	actor := &auth.Actor{
		UserID:     u.ID,
		Email:      u.Email,
		Status:     u.Status,
		GlobalRole: u.GlobalRole,
	}
	if u.Plan != nil {
		actor.Plan = u.Plan.ToQuota()
	}
	return actor
}

// Plan is a subscription tier. MaxLarps NULL means unlimited.
type Plan struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	MaxLarps  *int      `gorm:"column:max_larps"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Plan) TableName() string {
	return "plans"
}

func (p *Plan) BeforeCreate(tx *gormlib.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Plan) ToQuota() *auth.PlanQuota {
	return &auth.PlanQuota{ID: p.ID, Name: p.Name, MaxLarps: p.MaxLarps}
}
