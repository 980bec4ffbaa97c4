package requests

import "errors"

type SetAccountStatusRequest struct {
	Status string `json:"status"`
}

func (r *SetAccountStatusRequest) Validate() error {
	if r.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

// SetPlanRequest assigns a plan by id; a null plan_id returns the user to the
// free tier.
type SetPlanRequest struct {
	PlanID *string `json:"plan_id"`
}
