package identity

import (
	"encoding/json"
	"fmt"
)

// Role determines what a user may do in the approval workflow.
type Role string

const (
	// RoleEmployee submits expenses but never approves them.
	RoleEmployee Role = "employee"
	// RoleManager approves expenses submitted within their own department.
	RoleManager Role = "manager"
	// RoleAdmin approves expenses from any department.
	RoleAdmin Role = "admin"
)

// AllRoles returns all valid roles.
func AllRoles() []Role {
	return []Role{RoleEmployee, RoleManager, RoleAdmin}
}

// IsValid returns true if the role is a member of the closed role set.
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsApprover returns true if the role is permitted to decide on expenses at all.
func (r Role) IsApprover() bool {
	return r == RoleManager || r == RoleAdmin
}

// DisplayName returns a human-readable display name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleManager:
		return "Manager"
	case RoleAdmin:
		return "Administrator"
	default:
		return string(r)
	}
}

// ParseRole parses a string into a Role. Unrecognized values are rejected;
// the role set is closed.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return role, nil
}

// MustParseRole parses a string into a Role, panicking on error.
func MustParseRole(s string) Role {
	role, err := ParseRole(s)
	if err != nil {
		panic(err)
	}
	return role
}

// MarshalJSON implements json.Marshaler.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	role := Role(str)
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %q", str)
	}

	*r = role
	return nil
}
