package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"larpilot/backoffice/internal/constants"
)

// Participant links a user to a LARP with a non-empty role set.
type Participant struct {
	ID        string            `gorm:"column:id;primaryKey;type:uuid"`
	LarpID    string            `gorm:"column:larp_id;type:uuid;not null;uniqueIndex:idx_participant_larp_user"`
	UserID    string            `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_participant_larp_user;index"`
	Roles     constants.RoleSet `gorm:"column:roles;type:text;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

func (Participant) TableName() string {
	return "participants"
}

func (p *Participant) BeforeCreate(tx *gormlib.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Participant) ScopeLarpID() string { return p.LarpID }
