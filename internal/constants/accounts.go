package constants

import (
	"fmt"
	"strings"
)

// AccountStatus is the platform-wide status of a user account. It is
// independent of any LARP membership.
type AccountStatus string

const (
	AccountPending   AccountStatus = "PENDING"
	AccountApproved  AccountStatus = "APPROVED"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountBanned    AccountStatus = "BANNED"
)

func (s AccountStatus) String() string { return string(s) }

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountPending, AccountApproved, AccountSuspended, AccountBanned:
		return true
	}
	return false
}

func ParseAccountStatus(value string) (AccountStatus, error) {
	s := AccountStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown account status %q", value)
	}
	return s, nil
}

// GlobalRole is a platform role held outside any LARP.
type GlobalRole string

const (
	GlobalRoleNone       GlobalRole = ""
	GlobalRoleSuperAdmin GlobalRole = "SUPER_ADMIN"
)

func (g GlobalRole) String() string { return string(g) }

func ParseGlobalRole(value string) (GlobalRole, error) {
	switch g := GlobalRole(strings.ToUpper(strings.TrimSpace(value))); g {
	case GlobalRoleNone, GlobalRoleSuperAdmin:
		return g, nil
	}
	return "", fmt.Errorf("unknown global role %q", value)
}

// FreeTierLarpLimit applies to users without a plan.
const FreeTierLarpLimit = 1
