package scaffold

import (
	"fmt"
	"strings"
)

// Actions selects which CRUD handlers a model router gets.
type Actions struct {
	Create bool
	Read   bool
	Update bool
	Delete bool
}

// AllActions enables every handler.
var AllActions = Actions{Create: true, Read: true, Update: true, Delete: true}

// ParseActions parses a subset of the letters c, r, u, d in any order and case.
// Repeated letters are allowed; anything else is an error.
func ParseActions(s string) (Actions, error) {
	if s == "" {
		return Actions{}, fmt.Errorf("route subset must name at least one of c, r, u, d")
	}
	var a Actions
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'c':
			a.Create = true
		case 'r':
			a.Read = true
		case 'u':
			a.Update = true
		case 'd':
			a.Delete = true
		default:
			return Actions{}, fmt.Errorf("invalid route subset %q: unexpected %q (use letters from \"crud\")", s, r)
		}
	}
	return a, nil
}

// String returns the canonical "crud" form, e.g. "rd".
func (a Actions) String() string {
	var b strings.Builder
	if a.Create {
		b.WriteByte('c')
	}
	if a.Read {
		b.WriteByte('r')
	}
	if a.Update {
		b.WriteByte('u')
	}
	if a.Delete {
		b.WriteByte('d')
	}
	return b.String()
}
