package responses

type CapabilitiesResponse struct {
	UserID            string `json:"user_id"`
	Status            string `json:"status"`
	IsSuperAdmin      bool   `json:"is_super_admin"`
	CanCreateLarp     bool   `json:"can_create_larp"`
	CanCreateLocation bool   `json:"can_create_location"`
	OrganizedLarps    int64  `json:"organized_larps"`
	// LarpLimit is nil for unlimited.
	LarpLimit *int   `json:"larp_limit"`
	PlanName  string `json:"plan_name,omitempty"`
}

type AccountResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Status      string  `json:"status"`
	GlobalRole  string  `json:"global_role,omitempty"`
	PlanID      *string `json:"plan_id,omitempty"`
}

type PlanResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// MaxLarps is nil for unlimited.
	MaxLarps *int `json:"max_larps"`
}
