// Package dialog implements the conversation state machine behind the
// bot's menus: an id-indexed state store, per-menu command parsing, and
// the transition logic that turns inbound events into menu renders and
// storage mutations.
package dialog

import (
	"officebot/store"
	"officebot/user"
)

// State is one variant of the per-conversation machine. Every variant
// except Start embeds its parent state by value, so back-navigation
// needs no separate stack and chains are acyclic by construction.
type State interface {
	state()
}

// Start is the initial and post-exit state; only /start is accepted.
type Start struct {
	// Restarted is set when the conversation was reset implicitly
	// (process restart, unknown chat) rather than by an explicit exit.
	Restarted bool
}

// Main is the authenticated root menu.
type Main struct {
	Prev   Start
	ChatID int64
}

// Links is a position in the link tree. Level is the current node id
// ("" at the root), Path the ancestor ids above it, Child the cached
// children of the current node so stepping back needs no reload.
type Links struct {
	Prev   Main
	Level  string
	Path   []string
	Child  store.ChildMap
	ChatID int64
}

// Notice is the broadcast flow. Group == "" means the group picker is
// showing; a non-empty Group means the next plain message is the body.
type Notice struct {
	Prev   Main
	Group  string
	ChatID int64
}

// Subscribe is the membership toggle picker.
type Subscribe struct {
	Prev   Main
	Group  string
	ChatID int64
	User   user.User
}

// RequestAccess parks a requester until a moderator decides.
type RequestAccess struct {
	Prev Main
	User user.User
}

// GrantAccess is a moderator's in-progress grant for User. Role nil
// means the choice is pending; non-nil means apply it. Prev holds
// whatever the moderator was doing before the request arrived.
type GrantAccess struct {
	Prev State
	User user.User
	Role *user.Role
}

// Help shows the usage text; any input pops back.
type Help struct {
	Prev Main
	User user.User
}

func (Start) state()         {}
func (Main) state()          {}
func (Links) state()         {}
func (Notice) state()        {}
func (Subscribe) state()     {}
func (RequestAccess) state() {}
func (GrantAccess) state()   {}
func (Help) state()          {}

// StateName returns a short identifier for logging.
func StateName(s State) string {
	switch s.(type) {
	case Start:
		return "start"
	case Main:
		return "main"
	case Links:
		return "links"
	case Notice:
		return "notice"
	case Subscribe:
		return "subscribe"
	case RequestAccess:
		return "request_access"
	case GrantAccess:
		return "grant_access"
	case Help:
		return "help"
	default:
		return "unknown"
	}
}
