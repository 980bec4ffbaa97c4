package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"larpilot/backoffice/internal/workflow"
)

type Location struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Address     string    `gorm:"column:address"`
	Country     string    `gorm:"column:country"`
	IsPublic    bool      `gorm:"column:is_public"`
	CreatedBy   string    `gorm:"column:created_by;type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	workflow.Approval `gorm:"embedded"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeCreate(tx *gormlib.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Approval.Status == "" {
		l.Approval = workflow.NewApproval()
	}
	return nil
}

func (l *Location) CreatorID() string { return l.CreatedBy }

func (l *Location) ApprovalState() workflow.ApprovalStatus { return l.Approval.Status }
