package state

import "sync"

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryManager constructs an in-memory Manager implementation.
// The mutex serializes access so concurrent transport callbacks for the same
// user cannot corrupt a session mid-transition.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
	}
}

// Get returns a copy of the session for a user, or a default idle session.
func (m *memoryManager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, ok := m.sessions[userID]; ok {
		return *session
	}
	return Session{State: StateIdle}
}

func (m *memoryManager) session(userID int64) *Session {
	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{State: StateIdle}
		m.sessions[userID] = session
	}
	return session
}

// SetState sets the FSM state for the given user, creating a session if needed.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).State = st
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if session, ok := m.sessions[userID]; ok {
		return session.State
	}
	return StateIdle
}

// SetAction tags the pending catalog operation for the user.
func (m *memoryManager) SetAction(userID int64, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).Action = action
}

// GetAction returns the pending catalog operation, or ActionNone.
func (m *memoryManager) GetAction(userID int64) Action {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if session, ok := m.sessions[userID]; ok {
		return session.Action
	}
	return ActionNone
}

// UpdateDraft applies fn to the user's draft under the lock.
func (m *memoryManager) UpdateDraft(userID int64, fn func(*Draft)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.session(userID).Draft)
}

// GetDraft returns a copy of the user's collected draft fields.
func (m *memoryManager) GetDraft(userID int64) Draft {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if session, ok := m.sessions[userID]; ok {
		return session.Draft
	}
	return Draft{}
}

// SetAdmin toggles the admin-mode flag for the user.
func (m *memoryManager) SetAdmin(userID int64, admin bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).AdminMode = admin
}

// IsAdmin reports whether the user currently has admin mode enabled.
func (m *memoryManager) IsAdmin(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if session, ok := m.sessions[userID]; ok {
		return session.AdminMode
	}
	return false
}

// Clear removes the entire session for a user.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	return ok && session.State != StateIdle
}
