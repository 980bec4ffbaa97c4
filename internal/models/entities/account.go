package entities

import "time"

// Account is the sqlx row of the users table used by operator tooling.
type Account struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Status      string    `db:"status"`
	GlobalRole  *string   `db:"global_role"`
	PlanID      *string   `db:"plan_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
