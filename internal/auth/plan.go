package auth

import "larpilot/backoffice/internal/constants"

// LarpLimit resolves how many LARPs the actor may organize. unlimited wins
// over limit when set.
func LarpLimit(actor *Actor) (limit int, unlimited bool) {
	if actor.IsSuperAdmin() {
		return 0, true
	}
	if actor == nil || actor.Plan == nil {
		return constants.FreeTierLarpLimit, false
	}
	if actor.Plan.MaxLarps == nil {
		return 0, true
	}
	return *actor.Plan.MaxLarps, false
}

// CanCreateLarp is the plan quota policy: super admins always may, everybody
// else while the number of LARPs they organize is below their plan limit.
func CanCreateLarp(actor *Actor, organizedLarps int64) bool {
	limit, unlimited := LarpLimit(actor)
	if unlimited {
		return true
	}
	return organizedLarps < int64(limit)
}
