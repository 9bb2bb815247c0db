package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/livetemplate/htmlelements"
)

// SessionInfo is the JSON view of a live session.
type SessionInfo struct {
	ID      string             `json:"id"`
	Started time.Time          `json:"started"`
	State   htmlelements.State `json:"state"`
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

// serveSessions lists live sessions, oldest first.
func (s *Server) serveSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.list()
	out := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionInfo{ID: sess.id, Started: sess.started, State: sess.store.Snapshot()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": out})
}

// serveState returns one session's current state.
func (s *Server) serveState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.get(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, SessionInfo{ID: sess.id, Started: sess.started, State: sess.store.Snapshot()})
}
