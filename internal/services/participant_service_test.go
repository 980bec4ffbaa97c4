package services

import (
	"context"
	"testing"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/db/dbtest"
	"larpilot/backoffice/internal/workflow"
)

func TestParticipantService_AddAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := env.participantService()
	ctx := context.Background()
	org := dbtest.CreateUser(t, env.conn, "org@example.com")
	newcomer := dbtest.CreateUser(t, env.conn, "npc@example.com")
	larp := dbtest.CreateLarp(t, env.conn, "Tides", org.ID, workflow.StatusDraft)
	dbtest.AddParticipant(t, env.conn, larp.ID, org.ID, constants.RoleOrganizer)
	orgActor := env.actorFor(t, org)

	added, err := svc.Add(ctx, orgActor, larp.ID, newcomer.ID, []string{"npc_long", "PLAYER", "player"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := added.Roles.Strings(); len(got) != 2 || got[0] != "NPC_LONG" || got[1] != "PLAYER" {
		t.Errorf("roles = %v, want [NPC_LONG PLAYER]", got)
	}
	if added.User.Email != "npc@example.com" {
		t.Errorf("User = %+v, want the added user", added.User)
	}

	_, err = svc.Add(ctx, orgActor, larp.ID, newcomer.ID, []string{"STAFF"})
	assertCode(t, err, apperr.CodeConflict)

	_, err = svc.Add(ctx, orgActor, larp.ID, newcomer.ID, []string{"BARD"})
	assertCode(t, err, apperr.CodeValidation)

	_, err = svc.Add(ctx, orgActor, larp.ID, "00000000-0000-0000-0000-000000000000", []string{"PLAYER"})
	assertCode(t, err, apperr.CodeNotFound)

	// Non-organizers can read but not manage.
	npcActor := env.actorFor(t, newcomer)
	_, err = svc.Add(ctx, npcActor, larp.ID, org.ID, []string{"PLAYER"})
	assertCode(t, err, apperr.CodeForbidden)

	list, err := svc.List(ctx, npcActor, larp.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("List() = %d participants, want 2", len(list))
	}

	outsider := env.actorFor(t, dbtest.CreateUser(t, env.conn, "out@example.com"))
	_, err = svc.List(ctx, outsider, larp.ID)
	assertCode(t, err, apperr.CodeForbidden)
}

func TestParticipantService_UpdateRoles(t *testing.T) {
	env := newTestEnv(t)
	svc := env.participantService()
	ctx := context.Background()
	org := dbtest.CreateUser(t, env.conn, "org@example.com")
	writer := dbtest.CreateUser(t, env.conn, "writer@example.com")
	larp := dbtest.CreateLarp(t, env.conn, "Tides", org.ID, workflow.StatusDraft)
	orgRecord := dbtest.AddParticipant(t, env.conn, larp.ID, org.ID, constants.RoleOrganizer)
	writerRecord := dbtest.AddParticipant(t, env.conn, larp.ID, writer.ID, constants.RoleStoryWriter)
	orgActor := env.actorFor(t, org)

	_, err := svc.UpdateRoles(ctx, orgActor, larp.ID, orgRecord.ID, []string{"PLAYER"})
	assertCode(t, err, apperr.CodeBusinessRule)

	_, err = svc.UpdateRoles(ctx, orgActor, larp.ID, writerRecord.ID, nil)
	assertCode(t, err, apperr.CodeValidation)

	updated, err := svc.UpdateRoles(ctx, orgActor, larp.ID, writerRecord.ID, []string{"ORGANIZER", "STORY_WRITER"})
	if err != nil {
		t.Fatalf("UpdateRoles() error = %v", err)
	}
	if !updated.Roles.IsOrganizer() {
		t.Errorf("roles = %v, want ORGANIZER", updated.Roles)
	}

	// With a second organizer the first may step down.
	if _, err := svc.UpdateRoles(ctx, orgActor, larp.ID, orgRecord.ID, []string{"PLAYER"}); err != nil {
		t.Errorf("UpdateRoles() with two organizers error = %v", err)
	}

	_, err = svc.UpdateRoles(ctx, orgActor, larp.ID, "missing", []string{"PLAYER"})
	assertCode(t, err, apperr.CodeNotFound)
}

func TestParticipantService_Remove(t *testing.T) {
	env := newTestEnv(t)
	svc := env.participantService()
	ctx := context.Background()
	org := dbtest.CreateUser(t, env.conn, "org@example.com")
	player := dbtest.CreateUser(t, env.conn, "player@example.com")
	larp := dbtest.CreateLarp(t, env.conn, "Tides", org.ID, workflow.StatusDraft)
	orgRecord := dbtest.AddParticipant(t, env.conn, larp.ID, org.ID, constants.RoleOrganizer)
	playerRecord := dbtest.AddParticipant(t, env.conn, larp.ID, player.ID, constants.RolePlayer)

	// The last-organizer rule wins over the missing permission.
	err := svc.Remove(ctx, env.actorFor(t, player), larp.ID, orgRecord.ID)
	assertCode(t, err, apperr.CodeBusinessRule)

	err = svc.Remove(ctx, env.actorFor(t, player), larp.ID, playerRecord.ID)
	assertCode(t, err, apperr.CodeForbidden)

	if err := svc.Remove(ctx, env.actorFor(t, org), larp.ID, playerRecord.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, found, _ := env.participants.FindRoles(ctx, larp.ID, player.ID); found {
		t.Error("player still participates after Remove()")
	}
}
