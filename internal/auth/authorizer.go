package auth

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/workflow"
)

var (
	ErrMissingActor      = errors.New("authorization requires an actor")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrInvalidTarget     = errors.New("invalid authorization target")
)

// LarpScoped is implemented by anything that lives inside one LARP.
type LarpScoped interface {
	ScopeLarpID() string
}

// LarpRef scopes a check to a LARP known only by id.
type LarpRef string

func (r LarpRef) ScopeLarpID() string { return string(r) }

// LocationResource is the view of a Location the location rules need.
type LocationResource interface {
	CreatorID() string
	ApprovalState() workflow.ApprovalStatus
}

// MembershipLookup finds the actor's role set inside a LARP. found is false
// when the user has no participant record there.
type MembershipLookup interface {
	FindRoles(ctx context.Context, larpID, userID string) (roles constants.RoleSet, found bool, err error)
}

// OrganizedLarpCounter counts LARPs where the user holds an organizer role.
type OrganizedLarpCounter interface {
	CountOrganizedLarps(ctx context.Context, userID string) (int64, error)
}

// DecisionRecorder observes every decision, e.g. for metrics.
type DecisionRecorder interface {
	RecordAuthzDecision(permission string, allowed bool)
}

type scope int

const (
	scopeAccount scope = iota
	scopeLocation
	scopeLarp
)

type permissionRule struct {
	scope scope
	// superAdminOnly closes location rules to creators.
	superAdminOnly bool
	// roles decides larp-scoped permissions once a participant record exists.
	roles func(constants.RoleSet) bool
}

func anyParticipant(constants.RoleSet) bool { return true }

func organizerOnly(roles constants.RoleSet) bool { return roles.IsOrganizer() }

var permissionRules = map[constants.Permission]permissionRule{
	constants.PermCreateLarp:                {scope: scopeAccount},
	constants.PermCreateLocation:            {scope: scopeAccount},
	constants.PermEditLocation:              {scope: scopeLocation},
	constants.PermDeleteLocation:            {scope: scopeLocation},
	constants.PermApproveLocation:           {scope: scopeLocation, superAdminOnly: true},
	constants.PermRejectLocation:            {scope: scopeLocation, superAdminOnly: true},
	constants.PermManageLarpGeneralSettings: {scope: scopeLarp, roles: organizerOnly},
	constants.PermDeleteParticipant:         {scope: scopeLarp, roles: organizerOnly},
	constants.PermManageParticipants:        {scope: scopeLarp, roles: organizerOnly},
	constants.PermViewLarpBackoffice:        {scope: scopeLarp, roles: anyParticipant},
}

// Authorizer is the single entry point for permission decisions.
type Authorizer struct {
	members  MembershipLookup
	counter  OrganizedLarpCounter
	recorder DecisionRecorder
}

func NewAuthorizer(members MembershipLookup, counter OrganizedLarpCounter, recorder DecisionRecorder) *Authorizer {
	return &Authorizer{
		members:  members,
		counter:  counter,
		recorder: recorder,
	}
}

// IsGranted decides whether actor holds permission on target. A denial is a
// false result; errors are reserved for programming mistakes (unknown token,
// missing actor, wrong target type) and lookup failures.
func (a *Authorizer) IsGranted(ctx context.Context, actor *Actor, permission constants.Permission, target any) (bool, error) {
	allowed, err := a.decide(ctx, actor, permission, target)
	if err != nil {
		return false, err
	}
	if a.recorder != nil {
		a.recorder.RecordAuthzDecision(permission.String(), allowed)
	}
	return allowed, nil
}

func (a *Authorizer) decide(ctx context.Context, actor *Actor, permission constants.Permission, target any) (bool, error) {
	if actor == nil {
		return false, ErrMissingActor
	}
	rule, ok := permissionRules[permission]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownPermission, permission)
	}

	switch rule.scope {
	case scopeAccount:
		if !actor.passesAccountGate() {
			return false, nil
		}
		if permission == constants.PermCreateLarp {
			return a.CanCreateLarp(ctx, actor)
		}
		return true, nil

	case scopeLocation:
		location, ok := target.(LocationResource)
		if !ok || isNil(target) {
			return false, fmt.Errorf("%w: %s needs a location, got %T", ErrInvalidTarget, permission, target)
		}
		if actor.IsSuperAdmin() {
			return true, nil
		}
		if rule.superAdminOnly {
			return false, nil
		}
		return canCreatorChange(actor, location), nil

	case scopeLarp:
		scoped, ok := target.(LarpScoped)
		if !ok || isNil(target) {
			return false, fmt.Errorf("%w: %s needs a larp-scoped target, got %T", ErrInvalidTarget, permission, target)
		}
		roles, found, err := a.members.FindRoles(ctx, scoped.ScopeLarpID(), actor.UserID)
		if err != nil {
			return false, fmt.Errorf("lookup participant roles: %w", err)
		}
		// No participant record means no backoffice access, super admins included.
		if !found {
			return false, nil
		}
		return rule.roles(roles), nil
	}

	return false, fmt.Errorf("%w: %q", ErrUnknownPermission, permission)
}

// CanCreateLarp applies the plan quota. It does not apply the account gate;
// IsGranted(CREATE_LARP) does.
func (a *Authorizer) CanCreateLarp(ctx context.Context, actor *Actor) (bool, error) {
	if actor == nil {
		return false, ErrMissingActor
	}
	if _, unlimited := LarpLimit(actor); unlimited {
		return true, nil
	}
	count, err := a.counter.CountOrganizedLarps(ctx, actor.UserID)
	if err != nil {
		return false, fmt.Errorf("count organized larps: %w", err)
	}
	return CanCreateLarp(actor, count), nil
}

// CanUserCreateLocation is the account gate alone.
func CanUserCreateLocation(actor *Actor) bool {
	return actor != nil && actor.passesAccountGate()
}

// CanUserEditLocation: super admins always, creators while the location is
// still PENDING or REJECTED.
func CanUserEditLocation(actor *Actor, location LocationResource) bool {
	if actor == nil || isNil(location) {
		return false
	}
	if actor.IsSuperAdmin() {
		return true
	}
	return canCreatorChange(actor, location)
}

func canCreatorChange(actor *Actor, location LocationResource) bool {
	if location.CreatorID() != actor.UserID {
		return false
	}
	state := location.ApprovalState()
	return state == workflow.ApprovalPending || state == workflow.ApprovalRejected
}

func isNil(target any) bool {
	if target == nil {
		return true
	}
	v := reflect.ValueOf(target)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
