package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db/dbtest"
	"larpilot/backoffice/internal/models/dtos/requests"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

func TestLarpService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := env.larpService()
	ctx := context.Background()
	organizer := env.actorFor(t, dbtest.CreateUser(t, env.conn, "org@example.com"))

	larp, err := svc.Create(ctx, organizer, &requests.CreateLarpRequest{Title: "  Ashes of Avalon  "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if larp.Title != "Ashes of Avalon" || larp.Status != workflow.StatusDraft {
		t.Errorf("created larp = %q/%s", larp.Title, larp.Status)
	}

	roles, found, _ := env.participants.FindRoles(ctx, larp.ID, organizer.UserID)
	if !found || !roles.IsOrganizer() {
		t.Errorf("creator roles = %v (found %v), want ORGANIZER", roles, found)
	}

	// Free tier: the second LARP is over quota.
	_, err = svc.Create(ctx, organizer, &requests.CreateLarpRequest{Title: "Second"})
	assertCode(t, err, apperr.CodeForbidden)
	if apperr.MessageOf(err) != constants.MsgLarpQuotaExceeded {
		t.Errorf("message = %q, want quota message", apperr.MessageOf(err))
	}
}

func TestLarpService_CreateRejections(t *testing.T) {
	env := newTestEnv(t)
	svc := env.larpService()
	ctx := context.Background()
	pending := env.actorFor(t, dbtest.CreateUser(t, env.conn, "new@example.com", constants.AccountPending))
	approved := env.actorFor(t, dbtest.CreateUser(t, env.conn, "org@example.com"))

	_, err := svc.Create(ctx, pending, &requests.CreateLarpRequest{Title: "Nope"})
	assertCode(t, err, apperr.CodeForbidden)
	if apperr.MessageOf(err) != constants.MsgAccountNotApproved {
		t.Errorf("message = %q, want account message", apperr.MessageOf(err))
	}

	_, err = svc.Create(ctx, approved, &requests.CreateLarpRequest{Title: " "})
	assertCode(t, err, apperr.CodeValidation)

	start := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = svc.Create(ctx, approved, &requests.CreateLarpRequest{Title: "Backwards", StartDate: &start, EndDate: &end})
	assertCode(t, err, apperr.CodeValidation)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = svc.Create(ctx, approved, &requests.CreateLarpRequest{Title: "Nowhere", LocationID: &missing})
	assertCode(t, err, apperr.CodeNotFound)
}

func TestLarpService_CreateWithLocation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.larpService()
	ctx := context.Background()
	owner := dbtest.CreateUser(t, env.conn, "owner@example.com")
	other := env.actorFor(t, dbtest.CreateUser(t, env.conn, "other@example.com"))

	location := &models.Location{Name: "Old Mill", CreatedBy: owner.ID}
	if err := env.locations.Create(ctx, location); err != nil {
		t.Fatalf("create location: %v", err)
	}

	_, err := svc.Create(ctx, other, &requests.CreateLarpRequest{Title: "Mill Night", LocationID: &location.ID})
	assertCode(t, err, apperr.CodeValidation)

	larp, err := svc.Create(ctx, env.actorFor(t, owner), &requests.CreateLarpRequest{Title: "Mill Night", LocationID: &location.ID})
	if err != nil {
		t.Fatalf("owner Create() error = %v", err)
	}
	if larp.LocationID == nil || *larp.LocationID != location.ID {
		t.Errorf("LocationID = %v, want %s", larp.LocationID, location.ID)
	}
}

func TestLarpService_GetVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := env.larpService()
	ctx := context.Background()
	org := dbtest.CreateUser(t, env.conn, "org@example.com")
	stranger := env.actorFor(t, dbtest.CreateUser(t, env.conn, "stranger@example.com"))

	draft := dbtest.CreateLarp(t, env.conn, "Secret", org.ID, workflow.StatusDraft)
	dbtest.AddParticipant(t, env.conn, draft.ID, org.ID, constants.RoleOrganizer)
	published := dbtest.CreateLarp(t, env.conn, "Open", org.ID, workflow.StatusPublished)

	if _, err := svc.Get(ctx, env.actorFor(t, org), draft.ID); err != nil {
		t.Errorf("participant Get(draft) error = %v", err)
	}
	_, err := svc.Get(ctx, stranger, draft.ID)
	assertCode(t, err, apperr.CodeNotFound)
	_, err = svc.Get(ctx, nil, draft.ID)
	assertCode(t, err, apperr.CodeNotFound)

	if _, err := svc.Get(ctx, nil, published.ID); err != nil {
		t.Errorf("anonymous Get(published) error = %v", err)
	}

	public, err := svc.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic() error = %v", err)
	}
	if len(public) != 1 || public[0].ID != published.ID {
		t.Errorf("ListPublic() = %d larps, want only the published one", len(public))
	}
}

func TestLarpService_ApplyTransition(t *testing.T) {
	env := newTestEnv(t)
	svc := env.larpService()
	ctx := context.Background()
	org := dbtest.CreateUser(t, env.conn, "org@example.com")
	player := dbtest.CreateUser(t, env.conn, "player@example.com")
	larp := dbtest.CreateLarp(t, env.conn, "Tides", org.ID, workflow.StatusDraft)
	dbtest.AddParticipant(t, env.conn, larp.ID, org.ID, constants.RoleOrganizer)
	dbtest.AddParticipant(t, env.conn, larp.ID, player.ID, constants.RolePlayer)
	orgActor := env.actorFor(t, org)

	_, transitions, err := svc.EnabledTransitions(ctx, orgActor, larp.ID)
	if err != nil {
		t.Fatalf("EnabledTransitions() error = %v", err)
	}
	if len(transitions) != 2 || transitions[0] != workflow.ToWIP || transitions[1] != workflow.ToPublished {
		t.Errorf("EnabledTransitions() = %v, want [to_wip to_published]", transitions)
	}

	_, err = svc.ApplyTransition(ctx, env.actorFor(t, player), larp.ID, "to_wip")
	assertCode(t, err, apperr.CodeForbidden)

	_, err = svc.ApplyTransition(ctx, orgActor, larp.ID, "to_nowhere")
	assertCode(t, err, apperr.CodeValidation)

	_, err = svc.ApplyTransition(ctx, orgActor, larp.ID, "to_completed")
	assertCode(t, err, apperr.CodeConflict)

	updated, err := svc.ApplyTransition(ctx, orgActor, larp.ID, "to_published")
	if err != nil {
		t.Fatalf("ApplyTransition() error = %v", err)
	}
	if updated.Status != workflow.StatusPublished {
		t.Errorf("status = %s, want PUBLISHED", updated.Status)
	}

	history, err := svc.History(ctx, env.actorFor(t, player), larp.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 || history[0].ToStatus != workflow.StatusPublished || history[0].ActorID != org.ID {
		t.Errorf("History() = %+v", history)
	}

	if got := testutil.ToFloat64(env.metrics.LarpTransitionsTotal.WithLabelValues("to_published", "applied")); got != 1 {
		t.Errorf("applied metric = %v, want 1", got)
	}
	if got := testutil.ToFloat64(env.metrics.LarpTransitionsTotal.WithLabelValues("to_completed", "not_enabled")); got != 1 {
		t.Errorf("not_enabled metric = %v, want 1", got)
	}
}

func TestLarpService_HistoryRequiresParticipant(t *testing.T) {
	env := newTestEnv(t)
	svc := env.larpService()
	org := dbtest.CreateUser(t, env.conn, "org@example.com")
	admin := env.actorFor(t, dbtest.CreateSuperAdmin(t, env.conn, "admin@example.com"))
	larp := dbtest.CreateLarp(t, env.conn, "Tides", org.ID, workflow.StatusDraft)

	_, err := svc.History(context.Background(), admin, larp.ID)
	assertCode(t, err, apperr.CodeForbidden)
}

type staleSwapper struct{}

func (staleSwapper) CompareAndSwapStatus(context.Context, string, workflow.LarpStatus, workflow.LarpStatus, workflow.Transition, string) (bool, error) {
	return false, nil
}

func TestLarpWorkflow_StaleSwapLeavesStatus(t *testing.T) {
	wf := NewLarpWorkflow(staleSwapper{}, nil)
	larp := &models.Larp{ID: "larp-1", Status: workflow.StatusDraft}

	applied, err := wf.ApplyTransition(context.Background(), larp, workflow.ToWIP, "user-1")
	if err != nil || applied {
		t.Fatalf("ApplyTransition() = %v, %v; want false, nil", applied, err)
	}
	if larp.Status != workflow.StatusDraft {
		t.Errorf("status = %s, want DRAFT", larp.Status)
	}
	if !wf.CanTransition(larp, workflow.ToWIP) {
		t.Error("CanTransition(DRAFT, to_wip) = false")
	}
}
