package dialog

import (
	"strconv"
	"strings"

	"officebot/user"
)

// Parsing is total: every input string, slash-prefixed or not, maps to
// exactly one command variant per menu context. Matching is
// case-insensitive and whitespace-tolerant.

// MainCmd enumerates the main-menu commands.
type MainCmd int

const (
	MainUnknown MainCmd = iota
	MainLinks
	MainNotice
	MainSubscribe
	MainRequestAccess
	MainHelp
	MainDone
)

// ParseMain classifies a main-menu command or button payload.
func ParseMain(raw string) MainCmd {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "/links":
		return MainLinks
	case "/notice":
		return MainNotice
	case "/subscribe":
		return MainSubscribe
	case "/requestaccess":
		return MainRequestAccess
	case "/help":
		return MainHelp
	}
	if isPop(raw) {
		return MainDone
	}
	return MainUnknown
}

// isPop reports whether raw is one of the universal pop-state synonyms.
func isPop(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "/back", "/done", "/exit":
		return true
	}
	return false
}

// PickKind classifies picker payloads shared by the Links, Notice and
// Subscribe menus.
type PickKind int

const (
	PickUnknown PickKind = iota
	PickSelect
	PickDone
)

// PickCmd is a parsed picker payload: /back pops, /<id> selects.
type PickCmd struct {
	Kind PickKind
	ID   string
	Raw  string
}

// ParsePick classifies an id-selection payload.
func ParsePick(raw string) PickCmd {
	trimmed := strings.TrimSpace(raw)
	if isPop(trimmed) {
		return PickCmd{Kind: PickDone, Raw: raw}
	}
	if !strings.HasPrefix(trimmed, "/") {
		return PickCmd{Kind: PickUnknown, Raw: raw}
	}
	id := strings.TrimPrefix(trimmed, "/")
	if id == "" || strings.ContainsAny(id, "/:") {
		return PickCmd{Kind: PickUnknown, Raw: raw}
	}
	return PickCmd{Kind: PickSelect, ID: id, Raw: raw}
}

// GrantKind classifies grant-menu payloads.
type GrantKind int

const (
	GrantUnknown GrantKind = iota
	GrantRole
	GrantDone
)

// GrantCmd is a parsed grant payload. Role selections travel as
// "/<role>:<chat_id>" so the button pins down which requester the
// moderator is deciding about.
type GrantCmd struct {
	Kind   GrantKind
	Role   user.Role
	ChatID string
	Raw    string
}

// ParseGrant classifies a grant-menu payload.
func ParseGrant(raw string) GrantCmd {
	trimmed := strings.TrimSpace(raw)
	if isPop(trimmed) {
		return GrantCmd{Kind: GrantDone, Raw: raw}
	}
	if !strings.HasPrefix(trimmed, "/") {
		return GrantCmd{Kind: GrantUnknown, Raw: raw}
	}
	payload := strings.TrimPrefix(trimmed, "/")
	roleStr, chatID, ok := strings.Cut(payload, ":")
	if !ok {
		return GrantCmd{Kind: GrantUnknown, Raw: raw}
	}
	role, ok := user.ParseRole(roleStr)
	if !ok {
		return GrantCmd{Kind: GrantUnknown, Raw: raw}
	}
	if _, err := strconv.ParseInt(chatID, 10, 64); err != nil {
		return GrantCmd{Kind: GrantUnknown, Raw: raw}
	}
	return GrantCmd{Kind: GrantRole, Role: role, ChatID: chatID, Raw: raw}
}
