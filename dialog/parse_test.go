package dialog

import (
	"testing"

	"officebot/user"
)

func TestParseMain(t *testing.T) {
	cases := []struct {
		in   string
		want MainCmd
	}{
		{"/links", MainLinks},
		{"/LINKS", MainLinks},
		{"  /notice  ", MainNotice},
		{"/subscribe", MainSubscribe},
		{"/requestaccess", MainRequestAccess},
		{"/help", MainHelp},
		{"/done", MainDone},
		{"/back", MainDone},
		{"/exit", MainDone},
		{"/Exit", MainDone},
		{"", MainUnknown},
		{"links", MainUnknown},
		{"/links extra", MainUnknown},
		{"/unknown", MainUnknown},
		{"hello there", MainUnknown},
	}
	for _, c := range cases {
		if got := ParseMain(c.in); got != c.want {
			t.Errorf("ParseMain(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParsePick(t *testing.T) {
	cases := []struct {
		in   string
		kind PickKind
		id   string
	}{
		{"/eng", PickSelect, "eng"},
		{" /eng ", PickSelect, "eng"},
		{"/back", PickDone, ""},
		{"/DONE", PickDone, ""},
		{"/exit", PickDone, ""},
		{"/", PickUnknown, ""},
		{"eng", PickUnknown, ""},
		{"", PickUnknown, ""},
		{"/a/b", PickUnknown, ""},
		{"/a:b", PickUnknown, ""},
	}
	for _, c := range cases {
		got := ParsePick(c.in)
		if got.Kind != c.kind || got.ID != c.id {
			t.Errorf("ParsePick(%q) = %+v, want kind=%v id=%q", c.in, got, c.kind, c.id)
		}
	}
}

func TestParseGrant(t *testing.T) {
	cases := []struct {
		in     string
		kind   GrantKind
		role   user.Role
		chatID string
	}{
		{"/member:42", GrantRole, user.RoleMember, "42"},
		{"/moderator:100", GrantRole, user.RoleModerator, "100"},
		{"/moder:100", GrantRole, user.RoleModerator, "100"},
		{"/back", GrantDone, "", ""},
		{"/done", GrantDone, "", ""},
		{"/member", GrantUnknown, "", ""},
		{"/member:", GrantUnknown, "", ""},
		{"/member:abc", GrantUnknown, "", ""},
		{"/president:42", GrantUnknown, "", ""},
		{"member:42", GrantUnknown, "", ""},
		{"", GrantUnknown, "", ""},
	}
	for _, c := range cases {
		got := ParseGrant(c.in)
		if got.Kind != c.kind || got.Role != c.role || got.ChatID != c.chatID {
			t.Errorf("ParseGrant(%q) = %+v, want kind=%v role=%q chat=%q", c.in, got, c.kind, c.role, c.chatID)
		}
	}
}
