package store

import (
	"encoding/json"

	"officebot/user"
)

// Group is a named set of users receiving broadcast notices together.
// Auto-registered groups (bot added to a chat) carry the chat id in ID
// and are additionally keyed by that id in the groups file.
type Group struct {
	ID      string               `json:"id,omitempty"`
	Title   string               `json:"title"`
	Members map[string]user.User `json:"members"`
}

// HasMember reports whether the user id is subscribed to the group.
func (g Group) HasMember(userID string) bool {
	_, ok := g.Members[userID]
	return ok
}

// RoleEntry describes one role in the role catalog file.
// Hidden entries are not offered in the grant-access picker.
type RoleEntry struct {
	ID     string    `json:"id,omitempty"`
	Title  string    `json:"title"`
	Role   user.Role `json:"role"`
	Hidden bool      `json:"hidden"`
}

// UnmarshalJSON fills defaults: hidden is true when absent.
func (e *RoleEntry) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID     string    `json:"id"`
		Title  string    `json:"title"`
		Role   user.Role `json:"role"`
		Hidden *bool     `json:"hidden"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	e.ID = a.ID
	e.Title = a.Title
	e.Role = a.Role
	e.Hidden = true
	if a.Hidden != nil {
		e.Hidden = *a.Hidden
	}
	return nil
}

// Link is a single leaf entry of the link tree.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LinkNode is a node of the recursive link tree: leaf links plus
// an ordered map of child nodes.
type LinkNode struct {
	Title string   `json:"title,omitempty"`
	Links []Link   `json:"links"`
	Child ChildMap `json:"child"`
}
