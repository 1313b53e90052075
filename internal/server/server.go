// Package server exposes workspace layouts over HTTP.
//
// The layout endpoint speaks the same envelope the layout store persists:
//
//	GET    /api/workspaces/{id}/layout
//	POST   /api/workspaces/{id}/layout
//
// and widget operations run through the same placement and push resolution
// as interactive gestures:
//
//	GET    /api/widgets
//	POST   /api/workspaces/{id}/widgets
//	DELETE /api/workspaces/{id}/widgets/{instance}
//	PATCH  /api/workspaces/{id}/widgets/{instance}/settings
//	POST   /api/workspaces/{id}/widgets/{instance}/move
//	POST   /api/workspaces/{id}/widgets/{instance}/resize
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/interact"
	"github.com/matzehuels/freeboard/pkg/layout"
	"github.com/matzehuels/freeboard/pkg/push"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Options configures a Server.
type Options struct {
	Port     layout.Port
	Registry *widget.Registry
	Resolver *push.Resolver
	Logger   *log.Logger
}

// Server serves every workspace stored behind one persistence port.
type Server struct {
	port     layout.Port
	registry *widget.Registry
	resolver *push.Resolver
	logger   *log.Logger

	mu         sync.Mutex
	workspaces map[string]*workspace
}

// workspace serializes all requests touching one layout. ready is closed
// once the layout has been loaded.
type workspace struct {
	ready chan struct{}
	mu    sync.Mutex
	store *layout.Store
	coord *interact.Coordinator
}

// New returns a server. Registry and Port are required.
func New(opts Options) *Server {
	if opts.Resolver == nil {
		opts.Resolver = push.New(geom.DefaultCanvas())
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Server{
		port:       opts.Port,
		registry:   opts.Registry,
		resolver:   opts.Resolver,
		logger:     opts.Logger,
		workspaces: make(map[string]*workspace),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/widgets", s.handleWidgets)
		r.Route("/workspaces/{workspace}", func(r chi.Router) {
			r.Get("/layout", s.handleGetLayout)
			r.Post("/layout", s.handlePutLayout)
			r.Post("/widgets", s.handleAddWidget)
			r.Delete("/widgets/{instance}", s.handleRemoveWidget)
			r.Patch("/widgets/{instance}/settings", s.handleSettings)
			r.Post("/widgets/{instance}/move", s.handleMove)
			r.Post("/widgets/{instance}/resize", s.handleResize)
		})
	})
	return r
}

// Flush waits for pending layout writes of every workspace.
func (s *Server) Flush() {
	s.mu.Lock()
	all := make([]*workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		all = append(all, ws)
	}
	s.mu.Unlock()

	for _, ws := range all {
		<-ws.ready
		ws.store.Flush()
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within timeout and flushes pending writes.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		s.Flush()
		s.logger.Info("server stopped")
		return err
	})
	return g.Wait()
}

// workspace returns the loaded workspace id, loading it on first use. The
// load runs outside s.mu so a slow backend only holds up requests for the
// workspace being loaded.
func (s *Server) workspace(ctx context.Context, id string) (*workspace, error) {
	if err := errors.ValidateWorkspaceID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	ws, ok := s.workspaces[id]
	if !ok {
		store := layout.NewStore(s.port, layout.Options{Canvas: s.resolver.Canvas, Logger: s.logger})
		ws = &workspace{
			ready: make(chan struct{}),
			store: store,
			coord: interact.NewCoordinator(store, s.resolver, nil, s.logger),
		}
		s.workspaces[id] = ws
	}
	s.mu.Unlock()

	if !ok {
		ws.store.Load(context.WithoutCancel(ctx), id)
		close(ws.ready)
		return ws, nil
	}
	select {
	case <-ws.ready:
		return ws, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// withWorkspace runs fn holding the lock of the workspace named in the URL.
func (s *Server) withWorkspace(w http.ResponseWriter, r *http.Request, fn func(ws *workspace) error) {
	ws, err := s.workspace(r.Context(), chi.URLParam(r, "workspace"))
	if err != nil {
		writeError(w, err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if err := fn(ws); err != nil {
		writeError(w, err)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
