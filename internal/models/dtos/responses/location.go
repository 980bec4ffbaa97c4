package responses

import "time"

type LocationResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Address         string     `json:"address,omitempty"`
	Country         string     `json:"country,omitempty"`
	IsPublic        bool       `json:"is_public"`
	CreatedBy       string     `json:"created_by"`
	ApprovalStatus  string     `json:"approval_status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}
