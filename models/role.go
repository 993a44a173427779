package models

import (
	"errors"
	"fmt"
)

type Role string

const (
	RolePending  Role = "pending"
	RoleAuthor   Role = "author"
	RoleRejected Role = "rejected"
	RoleAdmin    Role = "admin"
)

var (
	ErrInvalidTransition = errors.New("invalid role transition")
	ErrUnknownRole       = errors.New("unknown role")
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RolePending, RoleAuthor, RoleRejected, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// CanLogin reports whether an account holding this role may obtain a session.
func (r Role) CanLogin() bool {
	switch r {
	case RoleAuthor, RoleAdmin:
		return true
	default:
		return false
	}
}

// Transition returns the role an approval decision moves r to. Only pending
// accounts can be decided; admin is never reachable from here.
func (r Role) Transition(approved bool) (Role, error) {
	switch r {
	case RolePending:
		if approved {
			return RoleAuthor, nil
		}
		return RoleRejected, nil
	case RoleAuthor, RoleRejected, RoleAdmin:
		return r, fmt.Errorf("%w: %s is not pending", ErrInvalidTransition, r)
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
	}
}
