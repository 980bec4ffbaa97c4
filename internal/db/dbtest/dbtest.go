// Package dbtest provides migrated SQLite databases and fixtures for tests.
package dbtest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db"
	gormModels "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

// NewTestDB returns a migrated in-memory SQLite database. Every call gets its
// own database; the single connection keeps ":memory:" from splitting.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// CreateUser inserts an APPROVED user unless status is given.
func CreateUser(t testing.TB, conn *gorm.DB, email string, status ...constants.AccountStatus) *gormModels.User {
	t.Helper()

	user := &gormModels.User{Email: email, DisplayName: email, Status: constants.AccountApproved}
	if len(status) > 0 {
		user.Status = status[0]
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func CreateSuperAdmin(t testing.TB, conn *gorm.DB, email string) *gormModels.User {
	t.Helper()

	user := CreateUser(t, conn, email)
	user.GlobalRole = constants.GlobalRoleSuperAdmin
	if err := conn.Model(user).Update("global_role", user.GlobalRole).Error; err != nil {
		t.Fatalf("promote %s: %v", email, err)
	}
	return user
}

// CreatePlan inserts a plan; a nil maxLarps is unlimited.
func CreatePlan(t testing.TB, conn *gorm.DB, name string, maxLarps *int) *gormModels.Plan {
	t.Helper()

	plan := &gormModels.Plan{Name: name, MaxLarps: maxLarps}
	if err := conn.Create(plan).Error; err != nil {
		t.Fatalf("create plan %s: %v", name, err)
	}
	return plan
}

// CreateLarp inserts a LARP in the given status with no participants.
func CreateLarp(t testing.TB, conn *gorm.DB, title, createdBy string, status workflow.LarpStatus) *gormModels.Larp {
	t.Helper()

	larp := &gormModels.Larp{Title: title, CreatedBy: createdBy, Status: status}
	if err := conn.Create(larp).Error; err != nil {
		t.Fatalf("create larp %s: %v", title, err)
	}
	return larp
}

func AddParticipant(t testing.TB, conn *gorm.DB, larpID, userID string, roles ...constants.ParticipantRole) *gormModels.Participant {
	t.Helper()

	p := &gormModels.Participant{LarpID: larpID, UserID: userID, Roles: constants.NewRoleSet(roles...)}
	if err := conn.Omit("User").Create(p).Error; err != nil {
		t.Fatalf("add participant: %v", err)
	}
	return p
}
