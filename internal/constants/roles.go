package constants

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ParticipantRole is a role a user holds inside one LARP.
type ParticipantRole string

const (
	RoleOrganizer   ParticipantRole = "ORGANIZER"
	RolePlayer      ParticipantRole = "PLAYER"
	RoleStaff       ParticipantRole = "STAFF"
	RoleStoryWriter ParticipantRole = "STORY_WRITER"
	RoleNPCShort    ParticipantRole = "NPC_SHORT"
	RoleNPCLong     ParticipantRole = "NPC_LONG"
	RoleGameMaster  ParticipantRole = "GAME_MASTER"
	RoleTrustPerson ParticipantRole = "TRUST_PERSON"
)

// participantRoleOrder is the canonical ordering used when a RoleSet is normalized.
var participantRoleOrder = []ParticipantRole{
	RoleOrganizer,
	RoleStoryWriter,
	RoleGameMaster,
	RoleStaff,
	RoleTrustPerson,
	RoleNPCLong,
	RoleNPCShort,
	RolePlayer,
}

// String is handy for fmt and logs.
func (r ParticipantRole) String() string { return string(r) }

// Valid reports whether r is one of the known participant roles.
func (r ParticipantRole) Valid() bool {
	return r.rank() >= 0
}

func (r ParticipantRole) rank() int {
	for i, known := range participantRoleOrder {
		if known == r {
			return i
		}
	}
	return -1
}

// ParseParticipantRole accepts the canonical upper-case label, case-insensitively.
func ParseParticipantRole(value string) (ParticipantRole, error) {
	role := ParticipantRole(strings.ToUpper(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown participant role %q", value)
	}
	return role, nil
}

// AllParticipantRoles returns every known role in canonical order.
func AllParticipantRoles() []ParticipantRole {
	out := make([]ParticipantRole, len(participantRoleOrder))
	copy(out, participantRoleOrder)
	return out
}

// RoleSet is a normalized set of participant roles: no duplicates, canonical order.
// Build it with NewRoleSet or ParseRoleSet so the normalization holds.
type RoleSet []ParticipantRole

// Named role groups. Role predicates intersect against these, so extending a
// group changes every check that depends on it.
var (
	OrganizerRoles   = NewRoleSet(RoleOrganizer)
	StoryWriterRoles = NewRoleSet(RoleStoryWriter)
)

// NewRoleSet builds a normalized set. Unknown roles are dropped; use
// ParseRoleSet when the input comes from outside the process.
func NewRoleSet(roles ...ParticipantRole) RoleSet {
	present := make(map[ParticipantRole]bool, len(roles))
	for _, r := range roles {
		if r.Valid() {
			present[r] = true
		}
	}
	set := make(RoleSet, 0, len(present))
	for _, r := range participantRoleOrder {
		if present[r] {
			set = append(set, r)
		}
	}
	return set
}

// ParseRoleSet parses raw labels, failing on the first unknown one.
func ParseRoleSet(values []string) (RoleSet, error) {
	roles := make([]ParticipantRole, 0, len(values))
	for _, v := range values {
		r, err := ParseParticipantRole(v)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return NewRoleSet(roles...), nil
}

func (s RoleSet) Has(role ParticipantRole) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects reports whether s and group share at least one role.
func (s RoleSet) Intersects(group RoleSet) bool {
	for _, r := range group {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) IsEmpty() bool { return len(s) == 0 }

// With returns a new set that also contains role.
func (s RoleSet) With(role ParticipantRole) RoleSet {
	return NewRoleSet(append(append([]ParticipantRole{}, s...), role)...)
}

// Without returns a new set with role removed.
func (s RoleSet) Without(role ParticipantRole) RoleSet {
	out := make([]ParticipantRole, 0, len(s))
	for _, r := range s {
		if r != role {
			out = append(out, r)
		}
	}
	return NewRoleSet(out...)
}

func (s RoleSet) IsOrganizer() bool   { return s.Intersects(OrganizerRoles) }
func (s RoleSet) IsStoryWriter() bool { return s.Intersects(StoryWriterRoles) }
func (s RoleSet) IsPlayer() bool      { return s.Has(RolePlayer) }
func (s RoleSet) IsTrustPerson() bool { return s.Has(RoleTrustPerson) }

func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

/* ---------- DB adapters: stored as a JSON array of labels ---------- */

// Scan implements the sql.Scanner interface
func (s *RoleSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = RoleSet{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("RoleSet: cannot scan type %T", src)
	}

	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return fmt.Errorf("RoleSet: invalid stored value: %w", err)
	}
	set, err := ParseRoleSet(labels)
	if err != nil {
		return fmt.Errorf("RoleSet: %w", err)
	}
	*s = set
	return nil
}

// Value implements the driver.Valuer interface
func (s RoleSet) Value() (driver.Value, error) {
	data, err := json.Marshal(NewRoleSet(s...).Strings())
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
