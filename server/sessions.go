package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/docsage/docsage/pkg/chat"
)

// session pairs one conversation state with the lock that serializes
// pipeline runs against it. Different sessions are fully independent and
// may run concurrently.
type session struct {
	id    string
	mu    sync.Mutex
	state *chat.State
}

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

// getOrCreate returns the session with the given id, creating it if
// needed. An empty id allocates a fresh session.
func (r *sessionRegistry) getOrCreate(id string) *session {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		return sess
	}
	sess := &session{id: id, state: chat.NewState()}
	r.sessions[id] = sess
	return sess
}

func (r *sessionRegistry) get(id string) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}
