// Package adminlist holds the static authorization policy for privileged
// operations: a configured set of trusted identity-provider IDs and a
// membership predicate.
//
// Every admin-only store mutation calls IsAdmin before touching data and
// aborts with ErrUnauthorized when the check fails. The check lives in the
// data layer on purpose: callers pass their own claimed identity as an
// explicit argument, and the stores are the last line that enforces it.
package adminlist

import (
	"errors"
	"strings"
)

// ErrUnauthorized is returned when a caller's identity is not on the admin
// allow-list. Admin mutations abort with no side effects.
var ErrUnauthorized = errors.New("admin access required")

// List is an immutable set of admin identities (Clerk user IDs).
type List struct {
	ids map[string]struct{}
}

// New builds a List from the given identities. Blank entries are ignored.
func New(ids ...string) *List {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return &List{ids: set}
}

// Parse builds a List from a comma-separated configuration value.
func Parse(csv string) *List {
	return New(strings.Split(csv, ",")...)
}

// IsAdmin reports whether id is on the allow-list.
func (l *List) IsAdmin(id string) bool {
	if l == nil || id == "" {
		return false
	}
	_, ok := l.ids[id]
	return ok
}

// Require returns nil if id is on the allow-list, ErrUnauthorized otherwise.
func (l *List) Require(id string) error {
	if !l.IsAdmin(id) {
		return ErrUnauthorized
	}
	return nil
}

// Len returns the number of configured admin identities.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.ids)
}
