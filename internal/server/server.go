// Package server exposes a catalog and a definition store over HTTP.
//
// # Endpoints
//
//	GET    /healthz                   liveness and build info
//	GET    /catalog                   categories and their templates
//	GET    /blocks/{id}               one template as JSON
//	GET    /blocks/{id}/outline.svg   the block's outline (?lang, ?width, ?height)
//	GET    /blocks/{id}/definition    the template in the binary definition format
//	POST   /definitions/decode        decode a posted definition without storing it
//	GET    /definitions               list published definitions
//	GET    /definitions/{id}          a published definition, binary
//	PUT    /definitions/{id}          publish a definition
//	DELETE /definitions/{id}          unpublish a definition
//
// Errors are JSON objects {"error": CODE, "message": "..."}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blockdock/pkg/cache"
	"github.com/matzehuels/blockdock/pkg/catalog"
	"github.com/matzehuels/blockdock/pkg/store"
)

// MaxDefinitionSize bounds request bodies carrying a definition.
const MaxDefinitionSize = 1 << 20

// MaxOutlineSize bounds the width and height accepted by the outline
// endpoint.
const MaxOutlineSize = 4096

// Options configures a [Server]. Catalog is required; a nil Store disables
// the publishing endpoints, a nil Cache disables outline caching.
type Options struct {
	Catalog *catalog.Catalog
	Store   store.Store
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	catalog *catalog.Catalog
	store   store.Store
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	router  chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		catalog: opts.Catalog,
		store:   opts.Store,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		logger:  opts.Logger,
	}
	if s.catalog == nil {
		s.catalog = catalog.New()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	s.cache = cache.Instrument(s.cache)
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.router = s.routes()
	return s
}

// LoadPublished adds every definition in the store to the catalog's
// published category and returns how many were added. Definitions that
// fail to decode or clash with a catalog template are skipped with a
// warning.
func (s *Server) LoadPublished(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}
	entries, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, e := range entries {
		t, err := s.store.Get(ctx, e.ID)
		if err == nil {
			err = s.catalog.Add(PublishedCategory, t)
		}
		if err != nil {
			s.logger.Warn("skipped published definition", "id", e.ID, "err", err)
			continue
		}
		added++
	}
	return added, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/catalog", s.handleCatalog)
	r.Route("/blocks/{id}", func(r chi.Router) {
		r.Get("/", s.handleBlock)
		r.Get("/outline.svg", s.handleOutline)
		r.Get("/definition", s.handleBlockDefinition)
	})
	r.Route("/definitions", func(r chi.Router) {
		r.Post("/decode", s.handleDecode)
		r.Group(func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.handleListDefinitions)
			r.Get("/{id}", s.handleGetDefinition)
			r.Put("/{id}", s.handlePutDefinition)
			r.Delete("/{id}", s.handleDeleteDefinition)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
