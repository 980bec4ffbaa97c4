package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db/dbtest"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

func TestLarpRepository_CreateWithOrganizer(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewLarpGormRepository(conn)
	participants := NewParticipantGormRepository(conn)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn, "org@example.com")

	larp := &models.Larp{Title: "Winter Court", CreatedBy: user.ID}
	if err := repo.CreateWithOrganizer(ctx, larp, user.ID); err != nil {
		t.Fatalf("CreateWithOrganizer() error = %v", err)
	}
	if larp.Status != workflow.StatusDraft {
		t.Errorf("new larp status = %s, want DRAFT", larp.Status)
	}

	roles, found, err := participants.FindRoles(ctx, larp.ID, user.ID)
	if err != nil || !found {
		t.Fatalf("FindRoles() = %v, %v, %v", roles, found, err)
	}
	if !roles.IsOrganizer() {
		t.Errorf("creator roles = %v, want ORGANIZER", roles)
	}
}

func TestLarpRepository_GetByIDNotFound(t *testing.T) {
	repo := NewLarpGormRepository(dbtest.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("GetByID() error = %v, want NOT_FOUND", err)
	}
}

func TestLarpRepository_CompareAndSwapStatus(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewLarpGormRepository(conn)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn, "org@example.com")
	larp := dbtest.CreateLarp(t, conn, "Harbor Nights", user.ID, workflow.StatusDraft)

	ok, err := repo.CompareAndSwapStatus(ctx, larp.ID, workflow.StatusDraft, workflow.StatusWIP, workflow.ToWIP, user.ID)
	if err != nil || !ok {
		t.Fatalf("first swap = %v, %v; want true", ok, err)
	}

	// The LARP is no longer in DRAFT, so the same swap loses.
	ok, err = repo.CompareAndSwapStatus(ctx, larp.ID, workflow.StatusDraft, workflow.StatusPublished, workflow.ToPublished, user.ID)
	if err != nil || ok {
		t.Fatalf("stale swap = %v, %v; want false", ok, err)
	}

	stored, _ := repo.GetByID(ctx, larp.ID)
	if stored.Status != workflow.StatusWIP {
		t.Errorf("status = %s, want WIP", stored.Status)
	}

	history, err := repo.History(ctx, larp.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	h := history[0]
	if h.Transition != workflow.ToWIP || h.FromStatus != workflow.StatusDraft || h.ToStatus != workflow.StatusWIP || h.ActorID != user.ID {
		t.Errorf("unexpected history row: %+v", h)
	}
}

func TestLarpRepository_ConcurrentSwapsHaveOneWinner(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewLarpGormRepository(conn)
	user := dbtest.CreateUser(t, conn, "org@example.com")
	larp := dbtest.CreateLarp(t, conn, "Race", user.ID, workflow.StatusDraft)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CompareAndSwapStatus(context.Background(), larp.ID, workflow.StatusDraft, workflow.StatusPublished, workflow.ToPublished, user.ID)
			if err != nil {
				t.Errorf("swap error = %v", err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("winners = %d, want 1", wins)
	}
	history, _ := repo.History(context.Background(), larp.ID)
	if len(history) != 1 {
		t.Errorf("history rows = %d, want 1", len(history))
	}
}

func TestLarpRepository_Listings(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewLarpGormRepository(conn)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn, "org@example.com")

	now := time.Now()
	ended := dbtest.CreateLarp(t, conn, "Ended", user.ID, workflow.StatusConfirmed)
	conn.Model(ended).Update("end_date", now.Add(-48*time.Hour))
	upcoming := dbtest.CreateLarp(t, conn, "Upcoming", user.ID, workflow.StatusConfirmed)
	conn.Model(upcoming).Update("end_date", now.Add(48*time.Hour))
	dbtest.CreateLarp(t, conn, "Undated", user.ID, workflow.StatusConfirmed)
	dbtest.CreateLarp(t, conn, "Secret", user.ID, workflow.StatusDraft)
	dbtest.CreateLarp(t, conn, "Open", user.ID, workflow.StatusPublished)

	due, err := repo.ListConfirmedEndedBefore(ctx, now)
	if err != nil {
		t.Fatalf("ListConfirmedEndedBefore() error = %v", err)
	}
	if len(due) != 1 || due[0].ID != ended.ID {
		t.Errorf("due larps = %v, want only %s", due, ended.ID)
	}

	public, err := repo.ListByStatuses(ctx, workflow.PubliclyVisibleStatuses())
	if err != nil {
		t.Fatalf("ListByStatuses() error = %v", err)
	}
	if len(public) != 4 {
		t.Errorf("public larps = %d, want 4", len(public))
	}
	for _, l := range public {
		if l.Status == workflow.StatusDraft {
			t.Errorf("draft larp %q listed publicly", l.Title)
		}
	}
}

func TestParticipantRepository_CountOrganizedLarps(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewParticipantGormRepository(conn)
	user := dbtest.CreateUser(t, conn, "u@example.com")
	other := dbtest.CreateUser(t, conn, "o@example.com")

	l1 := dbtest.CreateLarp(t, conn, "One", other.ID, workflow.StatusDraft)
	l2 := dbtest.CreateLarp(t, conn, "Two", other.ID, workflow.StatusDraft)
	l3 := dbtest.CreateLarp(t, conn, "Three", other.ID, workflow.StatusDraft)
	dbtest.AddParticipant(t, conn, l1.ID, user.ID, constants.RoleOrganizer)
	dbtest.AddParticipant(t, conn, l2.ID, user.ID, constants.RolePlayer, constants.RoleOrganizer)
	dbtest.AddParticipant(t, conn, l3.ID, user.ID, constants.RolePlayer)

	count, err := repo.CountOrganizedLarps(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("CountOrganizedLarps() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestParticipantRepository_DeleteKeepsLastOrganizer(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewParticipantGormRepository(conn)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, conn, "alice@example.com")
	bob := dbtest.CreateUser(t, conn, "bob@example.com")
	larp := dbtest.CreateLarp(t, conn, "Keep", alice.ID, workflow.StatusDraft)

	a := dbtest.AddParticipant(t, conn, larp.ID, alice.ID, constants.RoleOrganizer)
	b := dbtest.AddParticipant(t, conn, larp.ID, bob.ID, constants.RoleOrganizer, constants.RoleGameMaster)

	if err := repo.Delete(ctx, b); err != nil {
		t.Fatalf("deleting one of two organizers: %v", err)
	}
	if err := repo.Delete(ctx, a); err != ErrLastOrganizer {
		t.Fatalf("deleting the last organizer error = %v, want ErrLastOrganizer", err)
	}

	roles, found, _ := repo.FindRoles(ctx, larp.ID, alice.ID)
	if !found || !roles.IsOrganizer() {
		t.Error("last organizer was removed")
	}
}

func TestParticipantRepository_UpdateRolesKeepsLastOrganizer(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewParticipantGormRepository(conn)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, conn, "alice@example.com")
	larp := dbtest.CreateLarp(t, conn, "Keep", alice.ID, workflow.StatusDraft)
	a := dbtest.AddParticipant(t, conn, larp.ID, alice.ID, constants.RoleOrganizer)

	err := repo.UpdateRoles(ctx, a, constants.NewRoleSet(constants.RolePlayer))
	if err != ErrLastOrganizer {
		t.Fatalf("UpdateRoles() error = %v, want ErrLastOrganizer", err)
	}

	if err := repo.UpdateRoles(ctx, a, constants.NewRoleSet(constants.RoleOrganizer, constants.RoleStoryWriter)); err != nil {
		t.Fatalf("UpdateRoles() keeping organizer error = %v", err)
	}
	roles, _, _ := repo.FindRoles(ctx, larp.ID, alice.ID)
	if !roles.IsStoryWriter() || !roles.IsOrganizer() {
		t.Errorf("roles = %v", roles)
	}

	if err := repo.UpdateRoles(ctx, a, constants.RoleSet{}); !apperr.Is(err, apperr.CodeValidation) {
		t.Errorf("empty role set error = %v, want VALIDATION_ERROR", err)
	}
}

func TestParticipantRepository_CreateRejectsDuplicate(t *testing.T) {
	conn := dbtest.NewTestDB(t)
	repo := NewParticipantGormRepository(conn)
	ctx := context.Background()
	user := dbtest.CreateUser(t, conn, "u@example.com")
	larp := dbtest.CreateLarp(t, conn, "Dup", user.ID, workflow.StatusDraft)

	first := &models.Participant{LarpID: larp.ID, UserID: user.ID, Roles: constants.NewRoleSet(constants.RolePlayer)}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second := &models.Participant{LarpID: larp.ID, UserID: user.ID, Roles: constants.NewRoleSet(constants.RoleNPCShort)}
	if err := repo.Create(ctx, second); !apperr.Is(err, apperr.CodeConflict) {
		t.Errorf("duplicate Create() error = %v, want CONFLICT", err)
	}

	list, err := repo.ListByLarp(ctx, larp.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByLarp() = %d rows, %v", len(list), err)
	}
	if list[0].User.Email != "u@example.com" {
		t.Errorf("user not preloaded: %+v", list[0].User)
	}
}
