package responses

import "time"

type LarpResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	LocationID  *string    `json:"location_id,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

type TransitionsResponse struct {
	LarpID      string   `json:"larp_id"`
	Status      string   `json:"status"`
	Transitions []string `json:"transitions"`
}

type StatusChangeResponse struct {
	Transition string    `json:"transition"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id"`
	ChangedAt  time.Time `json:"changed_at"`
}

type ParticipantResponse struct {
	ID          string   `json:"id"`
	LarpID      string   `json:"larp_id"`
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name,omitempty"`
	Roles       []string `json:"roles"`
}
