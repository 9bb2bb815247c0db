package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/livetemplate/htmlelements"
)

// Outbound message actions.
const (
	MsgHello  = "hello"
	MsgPatch  = "patch"
	MsgError  = "error"
	MsgReload = "reload"
)

// MessageEnvelope is an inbound browser event.
type MessageEnvelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// ServerMessage is everything the server sends down the socket.
type ServerMessage struct {
	Action  string               `json:"action"`
	Session string               `json:"session,omitempty"`
	Resumed bool                 `json:"resumed,omitempty"`
	Patches []htmlelements.Patch `json:"patches,omitempty"`
	Error   string               `json:"error,omitempty"`
	File    string               `json:"file,omitempty"`
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests whose Origin host matches the Host header.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// serveWebSocket runs one display session for the lifetime of the connection.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Failed to upgrade connection: %v", err)
		return
	}
	conn.SetReadLimit(s.cfg.Limits.GetMaxMessageBytes())

	limits := s.cfg.Limits
	initial := s.InitialState()

	// A reconnecting client names its previous session to get its state back.
	id, state, resumed := "", initial, false
	if prev := r.URL.Query().Get("resume"); prev != "" {
		if parked, ok := s.parked.Take(prev); ok {
			id, state, resumed = prev, parked, true
		} else if s.cfg.Server.Debug {
			log.Printf("[WS] Session %s cannot be resumed", prev)
		}
	}

	sess := newSession(id, conn, state, rate.NewLimiter(rate.Limit(limits.GetEventsPerSecond()), limits.GetEventBurst()))

	// Pages are always rendered from the initial state.
	rendered, err := htmlelements.RenderSections(initial, s.Content())
	if err != nil {
		log.Printf("[WS] Failed to render initial sections: %v", err)
		conn.Close()
		return
	}
	sess.rendered = rendered

	s.registerSession(sess)
	defer func() {
		s.unregisterSession(sess)
		conn.Close()
	}()

	if err := sess.send(ServerMessage{Action: MsgHello, Session: sess.id, Resumed: resumed}); err != nil {
		log.Printf("[WS] Failed to greet %s: %v", sess.id, err)
		return
	}

	if resumed {
		if err := s.sendChanges(sess, state); err != nil {
			log.Printf("[WS] Failed to restore %s: %v", sess.id, err)
			return
		}
	}

	if s.cfg.Server.Debug {
		log.Printf("[WS] Client connected: %s (session %s)", conn.RemoteAddr(), sess.id)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close: %v", err)
			}
			break
		}

		if s.cfg.Server.Debug {
			log.Printf("[WS] Received: %s", message)
		}

		if err := s.handleMessage(sess, message); err != nil {
			log.Printf("[WS] Failed to send to %s: %v", sess.id, err)
			break
		}
	}

	if s.cfg.Server.Debug {
		log.Printf("[WS] Client disconnected: %s (session %s)", conn.RemoteAddr(), sess.id)
	}
}

// handleMessage applies one inbound frame to the session and sends the
// resulting patches or error. Only write failures are returned.
func (s *Server) handleMessage(sess *session, message []byte) error {
	if !sess.limiter.Allow() {
		return sess.send(ServerMessage{Action: MsgError, Error: "rate limit exceeded, event dropped"})
	}

	var envelope MessageEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		log.Printf("[WS] Failed to parse message: %v", err)
		return sess.send(ServerMessage{Action: MsgError, Error: "malformed message: " + err.Error()})
	}

	var data map[string]interface{}
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return sess.send(ServerMessage{Action: MsgError, Error: "data must be an object"})
		}
	}

	next, err := sess.store.HandleAction(envelope.Action, data)
	if err != nil {
		var evErr *htmlelements.EventError
		if errors.As(err, &evErr) && s.cfg.Server.Debug {
			log.Printf("[WS] %s", evErr.Format())
		}
		return sess.send(ServerMessage{Action: MsgError, Error: err.Error()})
	}

	return s.sendChanges(sess, next)
}

// sendChanges renders next and sends patches for the sections that differ
// from what the client holds. Nothing is sent when the markup is unchanged.
func (s *Server) sendChanges(sess *session, next htmlelements.State) error {
	sections, err := htmlelements.RenderSections(next, s.Content())
	if err != nil {
		log.Printf("[WS] Failed to render session %s: %v", sess.id, err)
		return sess.send(ServerMessage{Action: MsgError, Error: "render failed"})
	}

	patches := htmlelements.Diff(sess.rendered, sections)
	sess.rendered = sections
	if len(patches) == 0 {
		return nil
	}
	return sess.send(ServerMessage{Action: MsgPatch, Patches: patches})
}
