package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"officebot/core/logger"
	"officebot/user"

	"log/slog"
)

// ErrNotImplemented marks storage paths that are defined but not built yet.
var ErrNotImplemented = errors.New("store: not implemented")

// Options selects the data directory and per-collection file names.
// Empty file names fall back to the historical defaults.
type Options struct {
	Dir        string
	UsersFile  string
	GroupsFile string
	RolesFile  string
	LinksFile  string
}

// Store persists every collection as one JSON document on disk.
// Reads of a missing or corrupt file degrade to an empty collection
// (logged); there are no partial updates, every write re-serializes
// the whole collection. Concurrent load-modify-save cycles across
// collections remain last-write-wins; the mutex only keeps a single
// file from being rewritten by two goroutines at once.
type Store struct {
	users  string
	groups string
	roles  string
	links  string

	mu sync.Mutex
}

// New builds a Store rooted at opts.Dir.
func New(opts Options) *Store {
	pick := func(name, def string) string {
		if name == "" {
			name = def
		}
		return filepath.Join(opts.Dir, name)
	}
	return &Store{
		users:  pick(opts.UsersFile, "users.json"),
		groups: pick(opts.GroupsFile, "subscription.json"),
		roles:  pick(opts.RolesFile, "roles.json"),
		links:  pick(opts.LinksFile, "links.json"),
	}
}

// GetUser returns the user by id, or ok=false when unknown.
func (s *Store) GetUser(id string) (user.User, bool) {
	users := s.loadUsers()
	u, ok := users[id]
	return u, ok
}

// PutUser inserts or replaces one user and rewrites the users file.
func (s *Store) PutUser(u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.loadUsers()
	users[u.ID] = u
	return s.save(s.users, users)
}

// ListUsers returns all users ordered by numeric id, so "the first
// moderator" is a deterministic notion.
func (s *Store) ListUsers() []user.User {
	users := s.loadUsers()
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})
	out := make([]user.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, users[id])
	}
	return out
}

// GetGroups returns the subscription groups keyed by group id.
func (s *Store) GetGroups() map[string]Group {
	groups := make(map[string]Group)
	s.load(s.groups, &groups)
	for id, g := range groups {
		if g.Members == nil {
			g.Members = make(map[string]user.User)
			groups[id] = g
		}
	}
	return groups
}

// PutGroups rewrites the groups file with the full collection.
func (s *Store) PutGroups(groups map[string]Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(s.groups, groups)
}

// RegisterGroup records a chat the bot was added to as an auto group
// keyed by the chat id. Re-adding only refreshes the title.
func (s *Store) RegisterGroup(chatID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := s.GetGroups()
	g, ok := groups[chatID]
	if !ok {
		g = Group{ID: chatID, Members: make(map[string]user.User)}
	}
	g.Title = title
	groups[chatID] = g
	return s.save(s.groups, groups)
}

// RemoveGroup would deregister a chat the bot left. The removal path is
// defined by the platform events but not built; callers must surface this.
func (s *Store) RemoveGroup(chatID string) error {
	return fmt.Errorf("remove group %s: %w", chatID, ErrNotImplemented)
}

// GetRoles returns the role catalog keyed by role id.
func (s *Store) GetRoles() map[string]RoleEntry {
	roles := make(map[string]RoleEntry)
	s.load(s.roles, &roles)
	return roles
}

// GetLinks returns the root of the link tree, empty when unreadable.
func (s *Store) GetLinks() LinkNode {
	var root LinkNode
	s.load(s.links, &root)
	return root
}

func (s *Store) loadUsers() map[string]user.User {
	users := make(map[string]user.User)
	s.load(s.users, &users)
	return users
}

// load fills v from path; on any failure it leaves v as-is and logs,
// favouring availability over consistency.
func (s *Store) load(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Store.Warn("collection unreadable, using empty",
			slog.String("event", "load.fallback"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Store.Warn("collection corrupt, using empty",
			slog.String("event", "load.fallback"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
	}
}

// save rewrites path with the pretty-printed collection. Failures
// propagate to the invoking handler so the interaction aborts and the
// conversation state stays on the same logical step.
func (s *Store) save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}
