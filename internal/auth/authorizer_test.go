package auth

import (
	"context"
	"errors"
	"testing"

	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/workflow"
)

type fakeMembers struct {
	roles map[string]constants.RoleSet // key: larpID + "/" + userID
	err   error
}

func (f *fakeMembers) FindRoles(ctx context.Context, larpID, userID string) (constants.RoleSet, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	roles, ok := f.roles[larpID+"/"+userID]
	return roles, ok, nil
}

type fakeCounter struct {
	counts map[string]int64
	calls  int
}

func (f *fakeCounter) CountOrganizedLarps(ctx context.Context, userID string) (int64, error) {
	f.calls++
	return f.counts[userID], nil
}

type recordedDecision struct {
	permission string
	allowed    bool
}

type fakeRecorder struct {
	decisions []recordedDecision
}

func (f *fakeRecorder) RecordAuthzDecision(permission string, allowed bool) {
	f.decisions = append(f.decisions, recordedDecision{permission, allowed})
}

type fakeLocation struct {
	creator string
	state   workflow.ApprovalStatus
}

func (l *fakeLocation) CreatorID() string                      { return l.creator }
func (l *fakeLocation) ApprovalState() workflow.ApprovalStatus { return l.state }

func intPtr(v int) *int { return &v }

func approvedUser(id string) *Actor {
	return &Actor{UserID: id, Status: constants.AccountApproved}
}

func superAdmin(id string, status constants.AccountStatus) *Actor {
	return &Actor{UserID: id, Status: status, GlobalRole: constants.GlobalRoleSuperAdmin}
}

func newTestAuthorizer() (*Authorizer, *fakeMembers, *fakeCounter) {
	members := &fakeMembers{roles: map[string]constants.RoleSet{}}
	counter := &fakeCounter{counts: map[string]int64{}}
	return NewAuthorizer(members, counter, nil), members, counter
}

func mustGrant(t *testing.T, a *Authorizer, actor *Actor, perm constants.Permission, target any) bool {
	t.Helper()
	ok, err := a.IsGranted(context.Background(), actor, perm, target)
	if err != nil {
		t.Fatalf("IsGranted(%s) unexpected error = %v", perm, err)
	}
	return ok
}

func TestCreateLarp_AccountStatusGate(t *testing.T) {
	a, _, _ := newTestAuthorizer()

	for _, status := range []constants.AccountStatus{constants.AccountPending, constants.AccountSuspended, constants.AccountBanned} {
		actor := &Actor{UserID: "u1", Status: status, Plan: &PlanQuota{MaxLarps: nil}}
		if mustGrant(t, a, actor, constants.PermCreateLarp, nil) {
			t.Errorf("%s user with unlimited plan was allowed CREATE_LARP", status)
		}
		if mustGrant(t, a, actor, constants.PermCreateLocation, nil) {
			t.Errorf("%s user was allowed CREATE_LOCATION", status)
		}
	}

	if !mustGrant(t, a, approvedUser("u1"), constants.PermCreateLocation, nil) {
		t.Error("approved user denied CREATE_LOCATION")
	}
}

func TestCreateLarp_FreeTierAllowsExactlyOne(t *testing.T) {
	a, _, counter := newTestAuthorizer()
	actor := approvedUser("u1")

	if !mustGrant(t, a, actor, constants.PermCreateLarp, nil) {
		t.Fatal("free tier user with no LARPs denied")
	}
	counter.counts["u1"] = 1
	if mustGrant(t, a, actor, constants.PermCreateLarp, nil) {
		t.Error("free tier user allowed a second LARP")
	}
}

func TestCreateLarp_PlanLimit(t *testing.T) {
	a, _, counter := newTestAuthorizer()
	actor := approvedUser("u1")
	actor.Plan = &PlanQuota{Name: "premium", MaxLarps: intPtr(3)}

	for organized := int64(0); organized < 3; organized++ {
		counter.counts["u1"] = organized
		if !mustGrant(t, a, actor, constants.PermCreateLarp, nil) {
			t.Errorf("denied with %d organized LARPs on a 3-LARP plan", organized)
		}
	}
	counter.counts["u1"] = 3
	if mustGrant(t, a, actor, constants.PermCreateLarp, nil) {
		t.Error("allowed a 4th LARP on a 3-LARP plan")
	}
}

func TestCreateLarp_UnlimitedAndSuperAdminSkipCounting(t *testing.T) {
	a, _, counter := newTestAuthorizer()
	counter.counts["u1"] = 500
	counter.counts["admin"] = 500

	unlimited := approvedUser("u1")
	unlimited.Plan = &PlanQuota{Name: "unlimited"}
	if !mustGrant(t, a, unlimited, constants.PermCreateLarp, nil) {
		t.Error("unlimited plan denied")
	}

	// Super admins bypass the account gate and the quota.
	if !mustGrant(t, a, superAdmin("admin", constants.AccountPending), constants.PermCreateLarp, nil) {
		t.Error("super admin denied CREATE_LARP")
	}
	if !mustGrant(t, a, superAdmin("admin", constants.AccountSuspended), constants.PermCreateLocation, nil) {
		t.Error("super admin denied CREATE_LOCATION")
	}

	if counter.calls != 0 {
		t.Errorf("counter called %d times, want 0", counter.calls)
	}
}

func TestLocationEditAndDelete(t *testing.T) {
	a, _, _ := newTestAuthorizer()
	creator := approvedUser("creator")
	stranger := approvedUser("stranger")
	admin := superAdmin("admin", constants.AccountApproved)

	tests := []struct {
		name  string
		actor *Actor
		state workflow.ApprovalStatus
		want  bool
	}{
		{"creator pending", creator, workflow.ApprovalPending, true},
		{"creator rejected", creator, workflow.ApprovalRejected, true},
		{"creator approved", creator, workflow.ApprovalApproved, false},
		{"stranger pending", stranger, workflow.ApprovalPending, false},
		{"stranger rejected", stranger, workflow.ApprovalRejected, false},
		{"stranger approved", stranger, workflow.ApprovalApproved, false},
		{"super admin pending", admin, workflow.ApprovalPending, true},
		{"super admin approved", admin, workflow.ApprovalApproved, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := &fakeLocation{creator: "creator", state: tt.state}
			for _, perm := range []constants.Permission{constants.PermEditLocation, constants.PermDeleteLocation} {
				if got := mustGrant(t, a, tt.actor, perm, loc); got != tt.want {
					t.Errorf("%s = %v, want %v", perm, got, tt.want)
				}
			}
			if got := CanUserEditLocation(tt.actor, loc); got != tt.want {
				t.Errorf("CanUserEditLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocationApproveRejectAreSuperAdminOnly(t *testing.T) {
	a, _, _ := newTestAuthorizer()
	loc := &fakeLocation{creator: "creator", state: workflow.ApprovalPending}

	for _, perm := range []constants.Permission{constants.PermApproveLocation, constants.PermRejectLocation} {
		if mustGrant(t, a, approvedUser("creator"), perm, loc) {
			t.Errorf("creator granted %s", perm)
		}
		if !mustGrant(t, a, superAdmin("admin", constants.AccountApproved), perm, loc) {
			t.Errorf("super admin denied %s", perm)
		}
	}
}

func TestLarpScopedPermissions(t *testing.T) {
	a, members, _ := newTestAuthorizer()
	larp := LarpRef("larp-1")
	members.roles["larp-1/org"] = constants.NewRoleSet(constants.RoleOrganizer)
	members.roles["larp-1/staff"] = constants.NewRoleSet(constants.RoleStaff, constants.RoleGameMaster)
	members.roles["larp-1/player"] = constants.NewRoleSet(constants.RolePlayer)
	members.roles["larp-1/admin-org"] = constants.NewRoleSet(constants.RoleOrganizer)

	tests := []struct {
		name   string
		actor  *Actor
		perm   constants.Permission
		expect bool
	}{
		{"organizer manages settings", approvedUser("org"), constants.PermManageLarpGeneralSettings, true},
		{"organizer deletes participant", approvedUser("org"), constants.PermDeleteParticipant, true},
		{"staff cannot manage settings", approvedUser("staff"), constants.PermManageLarpGeneralSettings, false},
		{"staff views backoffice", approvedUser("staff"), constants.PermViewLarpBackoffice, true},
		{"player cannot delete participant", approvedUser("player"), constants.PermDeleteParticipant, false},
		{"outsider cannot view", approvedUser("outsider"), constants.PermViewLarpBackoffice, false},
		{"super admin without record", superAdmin("admin", constants.AccountApproved), constants.PermManageLarpGeneralSettings, false},
		{"super admin without record cannot view", superAdmin("admin", constants.AccountApproved), constants.PermViewLarpBackoffice, false},
		{"super admin who organizes", superAdmin("admin-org", constants.AccountApproved), constants.PermManageLarpGeneralSettings, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustGrant(t, a, tt.actor, tt.perm, larp); got != tt.expect {
				t.Errorf("IsGranted(%s) = %v, want %v", tt.perm, got, tt.expect)
			}
		})
	}
}

func TestIsGranted_ProgrammingErrors(t *testing.T) {
	a, _, _ := newTestAuthorizer()
	ctx := context.Background()

	if _, err := a.IsGranted(ctx, nil, constants.PermCreateLarp, nil); !errors.Is(err, ErrMissingActor) {
		t.Errorf("nil actor error = %v, want ErrMissingActor", err)
	}
	if _, err := a.IsGranted(ctx, approvedUser("u"), constants.Permission("LAUNCH_ROCKET"), nil); !errors.Is(err, ErrUnknownPermission) {
		t.Errorf("unknown permission error = %v, want ErrUnknownPermission", err)
	}
	if _, err := a.IsGranted(ctx, approvedUser("u"), constants.PermEditLocation, LarpRef("x")); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("wrong target error = %v, want ErrInvalidTarget", err)
	}
	var missing *fakeLocation
	if _, err := a.IsGranted(ctx, approvedUser("u"), constants.PermEditLocation, missing); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("nil location error = %v, want ErrInvalidTarget", err)
	}
	if _, err := a.IsGranted(ctx, approvedUser("u"), constants.PermDeleteParticipant, nil); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("missing larp target error = %v, want ErrInvalidTarget", err)
	}
}

func TestIsGranted_LookupFailurePropagates(t *testing.T) {
	lookupErr := errors.New("db down")
	a := NewAuthorizer(&fakeMembers{err: lookupErr}, &fakeCounter{}, nil)

	_, err := a.IsGranted(context.Background(), approvedUser("u"), constants.PermViewLarpBackoffice, LarpRef("l"))
	if !errors.Is(err, lookupErr) {
		t.Errorf("error = %v, want wrapped lookup error", err)
	}
}

func TestIsGranted_RecordsDecisions(t *testing.T) {
	recorder := &fakeRecorder{}
	a := NewAuthorizer(&fakeMembers{}, &fakeCounter{}, recorder)

	mustGrant(t, a, approvedUser("u"), constants.PermCreateLocation, nil)
	mustGrant(t, a, approvedUser("u"), constants.PermViewLarpBackoffice, LarpRef("l"))

	want := []recordedDecision{
		{"CREATE_LOCATION", true},
		{"VIEW_LARP_BACKOFFICE", false},
	}
	if len(recorder.decisions) != len(want) {
		t.Fatalf("recorded %d decisions, want %d", len(recorder.decisions), len(want))
	}
	for i := range want {
		if recorder.decisions[i] != want[i] {
			t.Errorf("decision %d = %+v, want %+v", i, recorder.decisions[i], want[i])
		}
	}
}

func TestCanUserCreateLocation(t *testing.T) {
	if CanUserCreateLocation(nil) {
		t.Error("nil actor allowed")
	}
	if CanUserCreateLocation(&Actor{UserID: "u", Status: constants.AccountBanned}) {
		t.Error("banned user allowed")
	}
	if !CanUserCreateLocation(superAdmin("a", constants.AccountBanned)) {
		t.Error("super admin denied")
	}
}
