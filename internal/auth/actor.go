package auth

import "larpilot/backoffice/internal/constants"

// PlanQuota is the slice of a subscription plan the policy needs.
// A nil MaxLarps means unlimited.
type PlanQuota struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MaxLarps *int   `json:"max_larps"`
}

// Actor is the authenticated user a decision is made for.
type Actor struct {
	UserID     string                  `json:"user_id"`
	Email      string                  `json:"email"`
	Status     constants.AccountStatus `json:"status"`
	GlobalRole constants.GlobalRole    `json:"global_role"`
	Plan       *PlanQuota              `json:"plan,omitempty"`
}

func (a *Actor) IsSuperAdmin() bool {
	return a != nil && a.GlobalRole == constants.GlobalRoleSuperAdmin
}

func (a *Actor) IsApproved() bool {
	return a != nil && a.Status == constants.AccountApproved
}

// passesAccountGate is the account-status check in front of every creation
// permission. Super admins are not subject to it.
func (a *Actor) passesAccountGate() bool {
	return a.IsSuperAdmin() || a.IsApproved()
}
