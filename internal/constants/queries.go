package constants

const (
	GetAccountByID = `
	SELECT id, email, display_name, status, global_role, plan_id, created_at, updated_at
	FROM users WHERE id = $1
	`

	GetAccountByEmail = `
	SELECT id, email, display_name, status, global_role, plan_id, created_at, updated_at
	FROM users WHERE email = $1
	`

	SetAccountGlobalRole = `
	UPDATE users SET global_role = $2, updated_at = NOW() WHERE id = $1
	`

	SetAccountStatus = `
	UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1
	`

	SetAccountPlan = `
	UPDATE users SET plan_id = $2, updated_at = NOW() WHERE id = $1
	`
)

const (
	GetPlanIDByName = `
	SELECT id FROM plans WHERE name = $1
	`

	PingQuery = `SELECT 1`
)
