package user

import (
	"strconv"
	"time"
)

// User represents a person the bot has talked to, persisted in the users file.
// The identity key is the Telegram chat id, stored as a string.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Contact  string    `json:"contact,omitempty"`
	Address  string    `json:"address,omitempty"`
	Roles    []Role    `json:"role"`
	LastSeen time.Time `json:"last_seen"`
}

// New returns a freshly seen user carrying the Guest role only.
func New(chatID int64, name, contact string) User {
	return User{
		ID:       strconv.FormatInt(chatID, 10),
		Name:     name,
		Contact:  contact,
		Roles:    []Role{RoleGuest},
		LastSeen: time.Now().UTC(),
	}
}

// ChatID parses the identity key back into a Telegram chat id.
// Returns 0 when the stored id is malformed.
func (u User) ChatID() int64 {
	id, err := strconv.ParseInt(u.ID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// HasRole reports whether the user's role set intersects required.
func (u User) HasRole(required ...Role) bool {
	for _, have := range u.Roles {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// AddRole appends role unless already present. Granting any non-Guest role
// revokes Guest: a user is never simultaneously Guest and privileged.
func (u *User) AddRole(role Role) {
	for _, have := range u.Roles {
		if have == role {
			return
		}
	}
	u.Roles = append(u.Roles, role)
	if role != RoleGuest {
		kept := u.Roles[:0]
		for _, have := range u.Roles {
			if have != RoleGuest {
				kept = append(kept, have)
			}
		}
		u.Roles = kept
	}
}
