package workflow

import (
	"strings"
	"time"
)

// ApprovalStatus is the moderation state of a Location.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

func (s ApprovalStatus) String() string { return string(s) }

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Approval carries the moderation fields of a Location. It is embedded in
// the persisted model, so the column tags live here.
type Approval struct {
	Status          ApprovalStatus `gorm:"column:approval_status;type:varchar(16);not null;index" json:"approval_status"`
	ApprovedBy      *string        `gorm:"column:approved_by;type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectionReason *string        `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
}

// NewApproval returns the initial PENDING state.
func NewApproval() Approval {
	return Approval{Status: ApprovalPending}
}

// Approve moves to APPROVED from any state and clears a previous rejection.
func (a *Approval) Approve(approverID string, now time.Time) {
	approver := approverID
	at := now
	a.Status = ApprovalApproved
	a.ApprovedBy = &approver
	a.ApprovedAt = &at
	a.RejectionReason = nil
}

// Reject moves to REJECTED from any state and clears a previous approval.
// An empty reason is stored as NULL.
func (a *Approval) Reject(reason string) {
	a.Status = ApprovalRejected
	a.ApprovedBy = nil
	a.ApprovedAt = nil
	a.RejectionReason = nil
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		a.RejectionReason = &trimmed
	}
}

// AutoApprove is Approve with the creator as approver. Only locations created
// by a super admin are auto-approved; the caller decides that.
func (a *Approval) AutoApprove(creatorID string, now time.Time) {
	a.Approve(creatorID, now)
}

// EditableByCreator reports whether the creator may still change the record.
func (a Approval) EditableByCreator() bool {
	return a.Status == ApprovalPending || a.Status == ApprovalRejected
}
