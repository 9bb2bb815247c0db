package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/livetemplate/htmlelements"
	"github.com/livetemplate/htmlelements/internal/assets"
	"github.com/livetemplate/htmlelements/internal/cache"
	"github.com/livetemplate/htmlelements/internal/config"
)

// Server serves the elements page and one live session per websocket.
type Server struct {
	cfg      *config.Config
	mu       sync.RWMutex // guards content and initial
	content  *htmlelements.Content
	initial  htmlelements.State
	sessions *sessionRegistry
	parked   *cache.StateCache // states of dropped sessions, by id
	upgrader websocket.Upgrader
	watcher  *Watcher // File watcher for live reload

	router      chi.Router
	httpServer  *http.Server
	cancel      context.CancelFunc
	limiterDone <-chan struct{}
}

// New creates a server for cfg. Call Close when done.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	initial, err := cfg.InitialState()
	if err != nil {
		return nil, err
	}
	content, err := cfg.BuildContent()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		content:  content,
		initial:  initial,
		sessions: newSessionRegistry(),
		parked:   cache.NewStateCache(cfg.Limits.GetMaxParkedSessions()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16384,
			CheckOrigin:     sameOrigin,
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.router = s.buildRouter(ctx)
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter(ctx context.Context) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.cfg.Server.Debug {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware(s.cfg.Features.TailwindCDN))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Get("/", s.servePage)
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets.ClientFS()))))
	})

	limit, done := RateLimitMiddleware(ctx, s.cfg.Limits)
	s.limiterDone = done
	r.With(limit).Get("/ws", s.serveWebSocket)

	r.Group(func(r chi.Router) {
		// An empty origin list would make cors allow everything.
		if len(s.cfg.Server.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.cfg.Server.CORSOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				MaxAge:         300,
			}))
		}
		r.Get("/healthz", s.serveHealth)
		r.Get("/api/sessions", s.serveSessions)
		r.Get("/api/state/{id}", s.serveState)
	})

	return r
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

// Content returns the current static content.
func (s *Server) Content() *htmlelements.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// InitialState returns the state new sessions start with.
func (s *Server) InitialState() htmlelements.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initial
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int { return s.sessions.len() }

// servePage serves the full page for the initial state.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	initial, content := s.initial, s.content
	s.mu.RUnlock()

	var buf bytes.Buffer
	opts := PageOptions{TailwindCDN: s.cfg.Features.TailwindCDN, Live: true}
	if err := WritePage(&buf, initial, content, opts); err != nil {
		log.Printf("[Server] Failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// registerSession adds a connected session.
func (s *Server) registerSession(sess *session) {
	n := s.sessions.add(sess)
	log.Printf("[Server] WebSocket session %s registered: %d active sessions", sess.id, n)
}

// unregisterSession removes a session and parks its state for resuming.
func (s *Server) unregisterSession(sess *session) {
	n := s.sessions.remove(sess.id)
	s.parked.Put(sess.id, sess.store.Snapshot(), s.cfg.Server.GetResumeTTL())
	log.Printf("[Server] WebSocket session %s unregistered: %d active sessions", sess.id, n)
}

// BroadcastReload tells every connected client to reload the page.
func (s *Server) BroadcastReload(filePath string) {
	sessions := s.sessions.list()
	if len(sessions) == 0 {
		return
	}

	log.Printf("[Server] Broadcasting reload for %s to %d sessions", filePath, len(sessions))

	msg := ServerMessage{Action: MsgReload, File: filePath}
	for _, sess := range sessions {
		if err := sess.send(msg); err != nil {
			log.Printf("[Server] Failed to send reload to session %s: %v", sess.id, err)
		}
	}
}

// Reload re-reads the config file and swaps in its content and initial
// state. Listen address, features and limits keep their startup values.
func (s *Server) Reload() error {
	path := s.cfg.Path()
	if path == "" {
		return errors.New("no config file to reload")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	initial, err := cfg.InitialState()
	if err != nil {
		return err
	}
	content, err := cfg.BuildContent()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.content = content
	s.initial = initial
	s.mu.Unlock()

	// Clients reload the page after this, so parked states no longer match.
	s.parked.InvalidateAll()

	log.Printf("[Config] Reloaded %s", path)
	return nil
}

// EnableWatch enables config file watching for live reload.
func (s *Server) EnableWatch(debug bool) error {
	path := s.cfg.Path()
	if path == "" {
		return errors.New("hot reload needs a config file")
	}

	watcher, err := NewWatcher(path, func(filePath string) error {
		if err := s.Reload(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
		s.BroadcastReload(filePath)
		return nil
	}, debug)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	s.watcher = watcher
	s.watcher.Start()

	log.Printf("[Watch] File watcher started for %s", path)
	return nil
}

// StopWatch stops the file watcher if it's running.
func (s *Server) StopWatch() error {
	if s.watcher != nil {
		w := s.watcher
		s.watcher = nil
		return w.Stop()
	}
	return nil
}

// Start listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on http://%s", s.cfg.Addr())
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully shuts down the HTTP server and closes all sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.Close()
	return err
}

// Close stops background work and disconnects every session.
func (s *Server) Close() {
	if err := s.StopWatch(); err != nil {
		log.Printf("[Watch] Failed to stop watcher: %v", err)
	}
	s.cancel()
	<-s.limiterDone
	s.parked.Stop()

	closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, sess := range s.sessions.list() {
		sess.writeMu.Lock()
		_ = sess.conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(time.Second))
		sess.writeMu.Unlock()
		sess.conn.Close()
	}
}
