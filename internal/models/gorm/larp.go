package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"larpilot/backoffice/internal/workflow"
)

type Larp struct {
	ID          string              `gorm:"column:id;primaryKey;type:uuid"`
	Title       string              `gorm:"column:title;not null"`
	Description string              `gorm:"column:description"`
	Status      workflow.LarpStatus `gorm:"column:status;type:varchar(16);not null;index"`
	StartDate   *time.Time          `gorm:"column:start_date"`
	EndDate     *time.Time          `gorm:"column:end_date;index"`
	LocationID  *string             `gorm:"column:location_id;type:uuid"`
	CreatedBy   string              `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Location     *Location     `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL"`
	Participants []Participant `gorm:"foreignKey:LarpID;constraint:OnDelete:CASCADE"`
}

func (Larp) TableName() string {
	return "larps"
}

func (l *Larp) BeforeCreate(tx *gormlib.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = workflow.InitialStatus()
	}
	return nil
}

func (l *Larp) ScopeLarpID() string { return l.ID }

// LarpStatusChange is the audit trail of applied lifecycle transitions.
type LarpStatusChange struct {
	ID         string              `gorm:"column:id;primaryKey;type:uuid"`
	LarpID     string              `gorm:"column:larp_id;type:uuid;not null;index"`
	Transition workflow.Transition `gorm:"column:transition;type:varchar(32);not null"`
	FromStatus workflow.LarpStatus `gorm:"column:from_status;type:varchar(16);not null"`
	ToStatus   workflow.LarpStatus `gorm:"column:to_status;type:varchar(16);not null"`
	ActorID    string              `gorm:"column:actor_id;not null"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime;index"`
}

func (LarpStatusChange) TableName() string {
	return "larp_status_changes"
}

func (c *LarpStatusChange) BeforeCreate(tx *gormlib.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
