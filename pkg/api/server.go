// Package api serves scenes and tokens over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /scenes/{scene}
//	GET  /scenes/{scene}/tokens
//	PUT  /scenes/{scene}/tokens/{key}/position     {"x":..,"y":..}
//	PUT  /scenes/{scene}/tokens/{key}/visibility   {"visible":..}
//	POST /scenes/{scene}/select                    {"start":{..},"end":{..}}
//	POST /scenes/{scene}/areas                     {"start":{..},"end":{..},"name":..}
//	POST /camera/zoom                              {"offset":{..},"zoomTick":..,"delta":..,"pivot":{..}}
//
// Positions are snapped to the scene grid before they are stored. Errors are
// rendered by httputil.WriteError.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/battlemap/pkg/camera"
	"github.com/matzehuels/battlemap/pkg/token"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Camera camera.Options
	Logger *log.Logger

	// NewKey generates keys for drawn area tokens. Defaults to uuid.NewString.
	NewKey func() string
}

// Server is the HTTP front end for a token.Store.
type Server struct {
	store  token.Store
	opts   Options
	logger *log.Logger
	router chi.Router
}

// NewServer builds the router for store.
func NewServer(store token.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NewKey == nil {
		opts.NewKey = uuid.NewString
	}
	s := &Server{store: store, opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Post("/camera/zoom", s.zoom)

	r.Route("/scenes/{scene}", func(r chi.Router) {
		r.Get("/", s.getScene)
		r.Get("/tokens", s.listTokens)
		r.Put("/tokens/{key}/position", s.putPosition)
		r.Put("/tokens/{key}/visibility", s.putVisibility)
		r.Post("/select", s.selectArea)
		r.Post("/areas", s.createArea)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
