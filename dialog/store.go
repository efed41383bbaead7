package dialog

import "sync"

// States maps chat id to the conversation's current State. Unknown
// chats resolve to Start{Restarted: true} so a process restart lands
// every conversation back at the entry prompt.
type States struct {
	mu     sync.Mutex
	byChat map[int64]State
}

// NewStates returns an empty state store.
func NewStates() *States {
	return &States{byChat: make(map[int64]State)}
}

// Get returns the current state for the chat.
func (s *States) Get(chatID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.byChat[chatID]; ok {
		return st
	}
	return Start{Restarted: true}
}

// Set stores the state for the chat.
func (s *States) Set(chatID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byChat[chatID] = st
}

// Reset drops the chat back to the default Start state.
func (s *States) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byChat, chatID)
}
