package user

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a capability tag controlling which menus a user may see and use.
type Role string

const (
	// RoleAdmin has full access.
	RoleAdmin Role = "admin"
	// RoleModerator may grant roles to guests.
	RoleModerator Role = "moderator"
	// RoleSender may broadcast notices.
	RoleSender Role = "sender"
	// RoleMember may browse links and manage subscriptions.
	RoleMember Role = "member"
	// RoleGuest is the default for a freshly seen user; may only request access.
	RoleGuest Role = "guest"
)

// ParseRole maps a wire string to a Role. Legacy "moder" is accepted
// for files written by earlier deployments.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "moderator", "moder":
		return RoleModerator, true
	case "sender":
		return RoleSender, true
	case "member":
		return RoleMember, true
	case "guest":
		return RoleGuest, true
	}
	return "", false
}

// Valid reports whether the role is one of the known capability tags.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleSender, RoleMember, RoleGuest:
		return true
	}
	return false
}

// String returns the canonical wire value.
func (r Role) String() string { return string(r) }

// UnmarshalJSON accepts canonical values and legacy aliases.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	role, ok := ParseRole(raw)
	if !ok {
		return fmt.Errorf("user: unknown role %q", raw)
	}
	*r = role
	return nil
}
