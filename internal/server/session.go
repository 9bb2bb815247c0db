package server

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/livetemplate/htmlelements"
)

const writeWait = 10 * time.Second

// session is one connected display: its own store, limiter and the
// section markup its page currently shows.
type session struct {
	id      string
	store   *htmlelements.Store
	limiter *rate.Limiter
	started time.Time

	conn    *websocket.Conn
	writeMu sync.Mutex

	// rendered is only touched by the connection's read loop.
	rendered htmlelements.Sections
}

// newSession starts a session from state. An empty id gets a fresh one.
func newSession(id string, conn *websocket.Conn, state htmlelements.State, limiter *rate.Limiter) *session {
	if id == "" {
		id = uuid.NewString()
	}
	return &session{
		id:      id,
		store:   htmlelements.NewStore(state),
		limiter: limiter,
		started: time.Now(),
		conn:    conn,
	}
}

// send writes msg as one JSON text frame. Safe for concurrent use.
func (s *session) send(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Action, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// sessionRegistry tracks live sessions by id.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) add(s *session) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
	return len(r.sessions)
}

func (r *sessionRegistry) remove(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return len(r.sessions)
}

func (r *sessionRegistry) get(id string) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *sessionRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// list returns the live sessions, oldest first.
func (r *sessionRegistry) list() []*session {
	r.mu.RLock()
	out := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].started.Before(out[j].started) })
	return out
}
