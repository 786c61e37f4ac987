// Package policy decides whether a caller may act on a resolved resource.
package policy

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is one rule a caller can satisfy
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSelf         Role = "self"
	RoleOwner        Role = "owner"
	RoleCommentOwner Role = "commentOwner"
	RoleReplyOwner   Role = "replyOwner"
)

// Decision is the outcome of Authorize
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Caller is the authenticated user performing a request
type Caller struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the caller carries the admin role tag
func (c Caller) IsAdmin() bool {
	return c.Role == string(RoleAdmin)
}

// Context is everything the roles are evaluated against.
// Unresolved resources are left nil.
type Context struct {
	Caller          Caller
	PathUserID      *uuid.UUID
	ThreadAuthorID  *uuid.UUID
	CommentAuthorID *uuid.UUID
	ReplyAuthorID   *uuid.UUID
}

var predicates = map[Role]func(Context) bool{
	RoleAdmin: func(c Context) bool {
		return c.Caller.IsAdmin()
	},
	RoleSelf: func(c Context) bool {
		return matches(c.Caller.ID, c.PathUserID)
	},
	RoleOwner: func(c Context) bool {
		return matches(c.Caller.ID, c.ThreadAuthorID)
	},
	RoleCommentOwner: func(c Context) bool {
		return matches(c.Caller.ID, c.CommentAuthorID)
	},
	RoleReplyOwner: func(c Context) bool {
		return matches(c.Caller.ID, c.ReplyAuthorID)
	},
}

func matches(callerID uuid.UUID, id *uuid.UUID) bool {
	return id != nil && callerID != uuid.Nil && *id == callerID
}

// ParseRole validates a role name
func ParseRole(name string) (Role, error) {
	role := Role(name)
	if _, ok := predicates[role]; !ok {
		return "", fmt.Errorf("unknown role %q", name)
	}
	return role, nil
}

// MustParseRoles parses role names at route setup and panics on an unknown one
func MustParseRoles(names ...string) []Role {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		role, err := ParseRole(name)
		if err != nil {
			panic(err)
		}
		roles = append(roles, role)
	}
	return roles
}

// Authorize allows when any required role holds. An empty set allows.
func Authorize(required []Role, ctx Context) Decision {
	if len(required) == 0 {
		return Allow
	}
	for _, role := range required {
		predicate, ok := predicates[role]
		if !ok {
			continue
		}
		if predicate(ctx) {
			return Allow
		}
	}
	return Deny
}
