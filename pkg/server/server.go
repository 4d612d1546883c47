// Package server exposes diagram engines over HTTP.
//
// Each diagram lives in a session holding one [engine.Engine]. Commands on
// a session are serialised by a mutex, so every engine still sees one
// command at a time. Sessions are created from uploaded data, restored from
// the configured [store.Store] on first access, and written back on save.
// Saved sessions idle for longer than [Options.IdleTimeout] are evicted and
// restored again on next access; unsaved ones stay live until saved or
// deleted.
//
// # Routes
//
//	GET    /api/v1/health
//	GET    /api/v1/diagrams                    stored document summaries
//	POST   /api/v1/diagrams                    upload data, returns {id, snapshot}
//	GET    /api/v1/diagrams/{id}               current snapshot
//	POST   /api/v1/diagrams/{id}/commands      apply an engine.Command
//	GET    /api/v1/diagrams/{id}/dot           Graphviz DOT of the visible tree
//	GET    /api/v1/diagrams/{id}/svg           SVG rendering
//	POST   /api/v1/diagrams/{id}/save          persist nodes and positions
//	DELETE /api/v1/diagrams/{id}
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/mindtower/pkg/engine"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/pipeline"
	"github.com/matzehuels/mindtower/pkg/store"
)

// MaxBodySize limits request bodies.
const MaxBodySize = 8 << 20

// DefaultIdleTimeout is used when [Options.IdleTimeout] is zero.
const DefaultIdleTimeout = 30 * time.Minute

// Options configures a [Server]. Nil fields get working defaults.
type Options struct {
	// Store persists saved diagrams. Nil means a [store.MemoryStore].
	Store store.Store

	// Runner renders snapshots. Nil means an uncached runner.
	Runner *pipeline.Runner

	// Presets and NodeSize configure every engine the server creates.
	Presets  []layout.Preset
	NodeSize float64

	// IdleTimeout bounds how long a saved, untouched session stays in
	// memory. Zero means [DefaultIdleTimeout]; negative disables eviction.
	IdleTimeout time.Duration

	Logger *log.Logger

	// Hooks receives request events. Nil means [observability.Server].
	Hooks observability.ServerHooks

	// NewID generates diagram IDs. Nil means uuid.NewString.
	NewID func() string
}

// Server is the diagram API.
type Server struct {
	store    store.Store
	runner   *pipeline.Runner
	presets  []layout.Preset
	nodeSize float64
	idle     time.Duration
	logger   *log.Logger
	hooks    observability.ServerHooks
	newID    func() string

	mu       sync.Mutex
	sessions map[string]*session

	router chi.Router
}

// session is one live diagram. used is guarded by Server.mu, the rest by mu.
type session struct {
	mu     sync.Mutex
	title  string
	engine *engine.Engine
	dirty  bool // changed since last save
	used   time.Time
}

// New returns a server with its routes mounted.
func New(opts Options) (*Server, error) {
	s := &Server{
		store:    opts.Store,
		runner:   opts.Runner,
		presets:  opts.Presets,
		nodeSize: opts.NodeSize,
		idle:     opts.IdleTimeout,
		logger:   opts.Logger,
		hooks:    opts.Hooks,
		newID:    opts.NewID,
		sessions: make(map[string]*session),
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.hooks == nil {
		s.hooks = observability.Server()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.idle == 0 {
		s.idle = DefaultIdleTimeout
	}
	// Fail on bad presets here rather than on the first upload.
	if _, err := s.newEngine(); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Post("/commands", s.handleCommand)
				r.Post("/save", s.handleSave)
				r.Get("/dot", s.handleRender(pipeline.FormatDOT, "text/vnd.graphviz"))
				r.Get("/svg", s.handleRender(pipeline.FormatSVG, "image/svg+xml"))
			})
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	if s.idle > 0 {
		go s.sweep(ctx)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the store and the runner's cache.
func (s *Server) Close() error {
	return errors.Join(s.store.Close(), s.runner.Close())
}

func (s *Server) newEngine() (*engine.Engine, error) {
	return engine.New(engine.Options{
		Presets:  s.presets,
		NodeSize: s.nodeSize,
		Logger:   s.logger,
	})
}

// session returns the live session for id, restoring it from the store
// when needed.
func (s *Server) session(ctx context.Context, id string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		sess.used = time.Now()
	}
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e, err := s.newEngine()
	if err != nil {
		return nil, err
	}
	doc.Restore(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		existing.used = time.Now()
		return existing, nil
	}
	sess = &session{title: doc.Title, engine: e, used: time.Now()}
	s.sessions[id] = sess
	s.logger.Debug("restored diagram", "id", id, "nodes", len(doc.Nodes))
	return sess, nil
}

func (s *Server) addSession(id string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.used = time.Now()
	s.sessions[id] = sess
}

// sweep evicts idle sessions until ctx is done.
func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(max(s.idle/2, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.evictIdle(now); n > 0 {
				s.logger.Debug("evicted idle diagrams", "count", n)
			}
		}
	}
}

// evictIdle drops saved sessions not used since now minus the idle timeout.
// Sessions that are busy or have unsaved changes are kept.
func (s *Server) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.used) < s.idle || !sess.mu.TryLock() {
			continue
		}
		if !sess.dirty {
			delete(s.sessions, id)
			n++
		}
		sess.mu.Unlock()
	}
	return n
}

// dropSession removes id and reports whether it was live.
func (s *Server) dropSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}
