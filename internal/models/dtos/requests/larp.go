package requests

import (
	"errors"
	"strings"
	"time"
)

type CreateLarpRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	LocationID  *string    `json:"location_id"`
}

func (r *CreateLarpRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	return nil
}

type AddParticipantRequest struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

func (r *AddParticipantRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if len(r.Roles) == 0 {
		return errors.New("roles must not be empty")
	}
	return nil
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

func (r *UpdateRolesRequest) Validate() error {
	if len(r.Roles) == 0 {
		return errors.New("roles must not be empty")
	}
	return nil
}
