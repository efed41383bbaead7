package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"officebot/user"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return New(Options{Dir: dir}), dir
}

func TestUserRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	u := user.New(42, "Greg", "greg")
	u.LastSeen = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := s.PutUser(u); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	got, ok := s.GetUser("42")
	if !ok {
		t.Fatal("user not found after put")
	}
	if got.ID != "42" || got.Name != "Greg" || got.Contact != "greg" {
		t.Errorf("got %+v", got)
	}
	if len(got.Roles) != 1 || got.Roles[0] != user.RoleGuest {
		t.Errorf("fresh user roles = %v", got.Roles)
	}
	if !got.LastSeen.Equal(u.LastSeen) {
		t.Errorf("last seen = %v", got.LastSeen)
	}
}

func TestListUsersNumericOrder(t *testing.T) {
	s, _ := newTestStore(t)
	for _, id := range []int64{300, 9, 41} {
		if err := s.PutUser(user.New(id, "u", "")); err != nil {
			t.Fatal(err)
		}
	}
	users := s.ListUsers()
	want := []string{"9", "41", "300"}
	if len(users) != len(want) {
		t.Fatalf("got %d users", len(users))
	}
	for i, w := range want {
		if users[i].ID != w {
			t.Errorf("users[%d].ID = %s, want %s", i, users[i].ID, w)
		}
	}
}

func TestMissingFilesDegradeToEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	if _, ok := s.GetUser("1"); ok {
		t.Error("expected no user")
	}
	if got := s.GetGroups(); len(got) != 0 {
		t.Errorf("groups = %v", got)
	}
	if got := s.GetRoles(); len(got) != 0 {
		t.Errorf("roles = %v", got)
	}
	if root := s.GetLinks(); root.Child.Len() != 0 || len(root.Links) != 0 {
		t.Errorf("links = %+v", root)
	}
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	s, dir := newTestStore(t)
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetUser("1"); ok {
		t.Error("expected empty collection for corrupt file")
	}
}

func TestGroupsDefaults(t *testing.T) {
	s, dir := newTestStore(t)
	raw := `{"eng": {"title": "Engineering", "extra_field": 1}}`
	if err := os.WriteFile(filepath.Join(dir, "subscription.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	groups := s.GetGroups()
	g, ok := groups["eng"]
	if !ok {
		t.Fatal("group missing")
	}
	if g.Members == nil {
		t.Error("members should default to empty map")
	}
	if g.Title != "Engineering" {
		t.Errorf("title = %q", g.Title)
	}
}

func TestRoleCatalogHiddenDefault(t *testing.T) {
	s, dir := newTestStore(t)
	raw := `{
        "member": {"title": "Member", "role": "member", "hidden": false},
        "admin": {"title": "Administrator", "role": "admin"}
    }`
	if err := os.WriteFile(filepath.Join(dir, "roles.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	roles := s.GetRoles()
	if roles["member"].Hidden {
		t.Error("member should be visible")
	}
	if !roles["admin"].Hidden {
		t.Error("hidden should default to true when absent")
	}
	if roles["member"].Role != user.RoleMember {
		t.Errorf("role = %q", roles["member"].Role)
	}
}

func TestRegisterGroup(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.RegisterGroup("-100500", "Announcements"); err != nil {
		t.Fatalf("RegisterGroup: %v", err)
	}
	g := s.GetGroups()["-100500"]
	if g.ID != "-100500" || g.Title != "Announcements" || g.Members == nil {
		t.Errorf("group = %+v", g)
	}

	// Add a member, then re-register: title refreshed, members kept.
	groups := s.GetGroups()
	g = groups["-100500"]
	g.Members["7"] = user.New(7, "m", "")
	groups["-100500"] = g
	if err := s.PutGroups(groups); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterGroup("-100500", "Announcements v2"); err != nil {
		t.Fatal(err)
	}
	g = s.GetGroups()["-100500"]
	if g.Title != "Announcements v2" {
		t.Errorf("title = %q", g.Title)
	}
	if !g.HasMember("7") {
		t.Error("member lost on re-register")
	}
}

func TestRemoveGroupNotImplemented(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.RemoveGroup("-1"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("err = %v, want ErrNotImplemented", err)
	}
}

func TestLinkChildrenKeepFileOrder(t *testing.T) {
	s, dir := newTestStore(t)
	raw := `{
        "title": "root",
        "links": [],
        "child": {
            "zeta": {"title": "Z", "links": [], "child": {}},
            "alpha": {"title": "A", "links": [], "child": {}},
            "mid": {"title": "M", "links": [], "child": {}}
        }
    }`
	if err := os.WriteFile(filepath.Join(dir, "links.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	root := s.GetLinks()
	want := []string{"zeta", "alpha", "mid"}
	got := root.Child.IDs()
	if len(got) != len(want) {
		t.Fatalf("ids = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestChildMapRoundTrip(t *testing.T) {
	var m ChildMap
	m.Set("b", LinkNode{Title: "B"})
	m.Set("a", LinkNode{Title: "A"})
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var back ChildMap
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	ids := back.IDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("ids = %v", ids)
	}
	if node, ok := back.Get("a"); !ok || node.Title != "A" {
		t.Errorf("node a = %+v ok=%v", node, ok)
	}
}
