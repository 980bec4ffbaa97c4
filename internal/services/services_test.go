package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/db/dbtest"
	"larpilot/backoffice/internal/db/repositories"
	"larpilot/backoffice/internal/metrics"
	models "larpilot/backoffice/internal/models/gorm"
)

type testEnv struct {
	conn         *gorm.DB
	metrics      *metrics.MetricsRegistry
	authz        *auth.Authorizer
	users        *repositories.UserGormRepository
	larps        *repositories.LarpGormRepository
	participants *repositories.ParticipantGormRepository
	locations    *repositories.LocationGormRepository
	workflow     *LarpWorkflow
	invalidated  []string
}

func (e *testEnv) Invalidate(userID string) {
	e.invalidated = append(e.invalidated, userID)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := dbtest.NewTestDB(t)
	reg := metrics.NewMetricsRegistry()
	participants := repositories.NewParticipantGormRepository(conn)
	larps := repositories.NewLarpGormRepository(conn)

	return &testEnv{
		conn:         conn,
		metrics:      reg,
		authz:        auth.NewAuthorizer(participants, participants, reg),
		users:        repositories.NewUserGormRepository(conn),
		larps:        larps,
		participants: participants,
		locations:    repositories.NewLocationGormRepository(conn),
		workflow:     NewLarpWorkflow(larps, reg),
	}
}

func (e *testEnv) larpService() *LarpService {
	return NewLarpService(e.larps, e.participants, e.locations, e.workflow, e.authz)
}

func (e *testEnv) participantService() *ParticipantService {
	return NewParticipantService(e.larps, e.participants, e.users, e.authz)
}

func (e *testEnv) locationService() *LocationService {
	return NewLocationService(e.locations, e.authz, e.metrics)
}

func (e *testEnv) userService() *UserService {
	return NewUserService(e.users, repositories.NewPlanGormRepository(e.conn), e.participants, e.authz, e)
}

// actorFor reloads the user with its plan, as the auth middleware does.
func (e *testEnv) actorFor(t *testing.T, user *models.User) *auth.Actor {
	t.Helper()

	loaded, err := e.users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	return loaded.ToActor()
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()

	if !apperr.Is(err, code) {
		t.Fatalf("error = %v, want code %s", err, code)
	}
}
