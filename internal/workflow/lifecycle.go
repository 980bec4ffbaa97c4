// Package workflow holds the explicit state machines of the backoffice: the
// LARP publication lifecycle and the Location approval flow. Both are pure;
// persistence is the caller's concern.
package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownStatus     = errors.New("unknown larp status")
	ErrUnknownTransition = errors.New("unknown larp transition")
)

// LarpStatus is the publication lifecycle state of a LARP.
type LarpStatus string

const (
	StatusDraft     LarpStatus = "DRAFT"
	StatusWIP       LarpStatus = "WIP"
	StatusPublished LarpStatus = "PUBLISHED"
	StatusInquiries LarpStatus = "INQUIRIES"
	StatusConfirmed LarpStatus = "CONFIRMED"
	StatusCompleted LarpStatus = "COMPLETED"
	StatusCancelled LarpStatus = "CANCELLED"
)

// Transition names a lifecycle edge.
type Transition string

const (
	ToWIP       Transition = "to_wip"
	ToPublished Transition = "to_published"
	BackToDraft Transition = "back_to_draft"
	BackToWIP   Transition = "back_to_wip"
	ToInquiries Transition = "to_inquiries"
	ToConfirmed Transition = "to_confirmed"
	ToCompleted Transition = "to_completed"
	ToCancelled Transition = "to_cancelled"
)

var allStatuses = []LarpStatus{
	StatusDraft,
	StatusWIP,
	StatusPublished,
	StatusInquiries,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

type transitionDef struct {
	name Transition
	from []LarpStatus
	to   LarpStatus
}

// larpTransitions is the whole lifecycle graph. Order is the order in which
// enabled transitions are reported.
// TODO: confirm with product whether WIP, PUBLISHED and INQUIRIES may also be cancelled.
var larpTransitions = []transitionDef{
	{name: ToWIP, from: []LarpStatus{StatusDraft}, to: StatusWIP},
	{name: ToPublished, from: []LarpStatus{StatusDraft, StatusWIP}, to: StatusPublished},
	{name: BackToDraft, from: []LarpStatus{StatusWIP, StatusPublished}, to: StatusDraft},
	{name: BackToWIP, from: []LarpStatus{StatusPublished}, to: StatusWIP},
	{name: ToInquiries, from: []LarpStatus{StatusPublished}, to: StatusInquiries},
	{name: ToConfirmed, from: []LarpStatus{StatusInquiries}, to: StatusConfirmed},
	{name: ToCompleted, from: []LarpStatus{StatusConfirmed}, to: StatusCompleted},
	{name: ToCancelled, from: []LarpStatus{StatusConfirmed}, to: StatusCancelled},
}

func (s LarpStatus) String() string { return string(s) }

func (s LarpStatus) Valid() bool {
	for _, known := range allStatuses {
		if known == s {
			return true
		}
	}
	return false
}

func (t Transition) String() string { return string(t) }

func (t Transition) Valid() bool {
	_, ok := findTransition(t)
	return ok
}

// InitialStatus is the status every new LARP starts in.
func InitialStatus() LarpStatus { return StatusDraft }

// AllStatuses returns the seven lifecycle states in lifecycle order.
func AllStatuses() []LarpStatus {
	out := make([]LarpStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// AllTransitions returns every transition name in table order.
func AllTransitions() []Transition {
	out := make([]Transition, 0, len(larpTransitions))
	for _, def := range larpTransitions {
		out = append(out, def.name)
	}
	return out
}

func ParseLarpStatus(value string) (LarpStatus, error) {
	s := LarpStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
	return s, nil
}

func ParseTransition(value string) (Transition, error) {
	t := Transition(strings.ToLower(strings.TrimSpace(value)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransition, value)
	}
	return t, nil
}

func findTransition(name Transition) (transitionDef, bool) {
	for _, def := range larpTransitions {
		if def.name == name {
			return def, true
		}
	}
	return transitionDef{}, false
}

func (d transitionDef) startsFrom(s LarpStatus) bool {
	for _, from := range d.from {
		if from == s {
			return true
		}
	}
	return false
}

// NextStatus resolves the target of transition t from status from. ok is false
// when t does not leave from, including unknown names and statuses.
func NextStatus(from LarpStatus, t Transition) (to LarpStatus, ok bool) {
	def, found := findTransition(t)
	if !found || !def.startsFrom(from) {
		return "", false
	}
	return def.to, true
}

// CanTransition reports whether t is enabled from status from.
func CanTransition(from LarpStatus, t Transition) bool {
	_, ok := NextStatus(from, t)
	return ok
}

// EnabledTransitions lists the transitions leaving status from. Terminal
// states yield an empty, non-nil slice.
func EnabledTransitions(from LarpStatus) []Transition {
	out := []Transition{}
	for _, def := range larpTransitions {
		if def.startsFrom(from) {
			out = append(out, def.name)
		}
	}
	return out
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s LarpStatus) bool {
	return s.Valid() && len(EnabledTransitions(s)) == 0
}

// IsVisibleForEveryone decides public visibility from the status alone.
func IsVisibleForEveryone(s LarpStatus) bool {
	switch s {
	case StatusPublished, StatusInquiries, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

// PubliclyVisibleStatuses returns the statuses for which IsVisibleForEveryone holds.
func PubliclyVisibleStatuses() []LarpStatus {
	out := make([]LarpStatus, 0, len(allStatuses))
	for _, s := range allStatuses {
		if IsVisibleForEveryone(s) {
			out = append(out, s)
		}
	}
	return out
}
