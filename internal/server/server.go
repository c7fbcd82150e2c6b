// Package server exposes a studio over HTTP: the composer UI, the widget
// manifest, the image and HTML assets, and a JSON API that drives the
// studio's actions.
package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wireframe/pkg/catalog"
	"github.com/matzehuels/wireframe/pkg/export"
	"github.com/matzehuels/wireframe/pkg/studio"
)

//go:embed static
var staticFiles embed.FS

// ReloadFunc loads a fresh catalog. The returned catalog is used even when
// err is set (LoadOrEmpty semantics).
type ReloadFunc func(ctx context.Context) (*catalog.Catalog, error)

// Options configures a Server.
type Options struct {
	// ImageDir and HTMLDir are served under /img_wireframes/ and /wireframes/.
	ImageDir string
	HTMLDir  string
	// StaticMaxAge is the Cache-Control max-age of assets; zero disables the header.
	StaticMaxAge time.Duration
	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string
	// Reload backs POST /api/catalog/reload; nil disables the endpoint.
	Reload ReloadFunc
	Logger *log.Logger
}

// Server serves one studio.
type Server struct {
	studio *studio.Studio
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a server for st.
func New(st *studio.Studio, opts Options) *Server {
	s := &Server{studio: st, opts: opts, logger: opts.Logger}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(allowOrigins(s.opts.CORSOrigins))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	static, _ := fs.Sub(staticFiles, "static")
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "index.html")
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	r.Get("/manifest.json", s.handleManifest)
	r.Group(func(r chi.Router) {
		r.Use(cacheControl(s.opts.StaticMaxAge))
		r.Handle(export.ImagePrefix+"*", assetServer(export.ImagePrefix, s.opts.ImageDir))
		r.Handle(export.HTMLPrefix+"*", assetServer(export.HTMLPrefix, s.opts.HTMLDir))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/catalog/reload", s.handleReload)
		r.Get("/state", s.handleState)

		r.Route("/layout", func(r chi.Router) {
			r.Delete("/", s.handleClear)
			r.Post("/entries", s.handleDrop)
			r.Post("/entries/{id}/move", s.handleMove)
			r.Delete("/entries/{id}", s.handleRemove)
		})

		r.Route("/preview", func(r chi.Router) {
			r.Post("/update", s.handleUpdate)
			r.Post("/{id}/next", s.handleNext)
			r.Post("/{id}/previous", s.handlePrevious)
			r.Post("/{id}/select", s.handleSelect)
		})

		r.Post("/export", s.handleExport)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
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
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
