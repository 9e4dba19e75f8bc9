// Package server exposes the signature editor over HTTP: the page, live
// preview updates, export markup and optional host clipboard copies.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-siggen/internal/logging"
	"github.com/goliatone/go-siggen/internal/session"
	"github.com/goliatone/go-siggen/pkg/export"
	"github.com/goliatone/go-siggen/pkg/render"
	"github.com/goliatone/go-siggen/pkg/renderers/email"
	"github.com/goliatone/go-siggen/pkg/renderers/preview"
	"github.com/goliatone/go-siggen/pkg/schema"
)

// Options wires the server's collaborators.
type Options struct {
	Store   session.Store
	Logger  *zap.Logger
	Email   *email.Renderer
	Preview *preview.Renderer
	// Fields drive the page form. Loaded from the schema when empty.
	Fields []render.FieldSpec
	// Render carries the logo and markup mode applied to every render.
	Render render.RenderOptions
	// Clipboard enables POST /api/copy when set.
	Clipboard export.Clipboard
	// LogoFile replaces the embedded on-screen logo when set.
	LogoFile     string
	CookieName   string
	CookieSecure bool
	CookieMaxAge time.Duration
	// ResetDelay overrides export.ResetDelay for server-side copies.
	ResetDelay time.Duration
}

// Server holds the router and the per-session copy state.
type Server struct {
	opts   Options
	logger *zap.Logger
	router chi.Router
	copies *copyTracker
}

// New validates options, fills defaults and builds the router.
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: session store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Email == nil {
		r, err := email.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		opts.Email = r
	}
	if opts.Preview == nil {
		r, err := preview.New(preview.WithExportRenderer(opts.Email))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		opts.Preview = r
	}
	if len(opts.Fields) == 0 {
		specs, err := schema.FieldSpecs(ctx)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		opts.Fields = specs
	}
	if opts.CookieName == "" {
		opts.CookieName = "siggen_session"
	}

	opts.Render.Fields = opts.Fields
	if opts.Clipboard != nil {
		opts.Render.CopyMode = render.CopyServer
	} else {
		opts.Render.CopyMode = render.CopyBrowser
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger,
	}
	s.copies = newCopyTracker(s.newExporter)
	s.router = s.routes()
	return s, nil
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close clears every pending copied state.
func (s *Server) Close() {
	s.copies.closeAll()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/openapi.yaml", s.handleSchema)
	r.Handle("/assets/*", s.assetsHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handlePage)
		r.Post("/", s.handleFormPost)
		r.Get("/preview", s.handlePreview)

		r.Route("/api", func(r chi.Router) {
			r.Get("/signature", s.handleSignature)
			r.Get("/signature.html", s.handleSignatureHTML)
			r.Patch("/fields/{field}", s.handleFieldUpdate)
			r.Post("/reset", s.handleReset)
			r.Get("/copy", s.handleCopyState)
			r.Post("/copy", s.handleCopy)
		})
	})
	return r
}

func (s *Server) assetsHandler() http.Handler {
	files := http.StripPrefix("/assets/", http.FileServer(http.FS(preview.AssetsFS())))
	if s.opts.LogoFile == "" {
		return files
	}
	logoPath := "/assets/" + preview.LogoName
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == logoPath {
			http.ServeFile(w, r, s.opts.LogoFile)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (s *Server) newExporter(listener func(bool)) (*export.Exporter, error) {
	options := []export.Option{
		export.WithNotifier(export.LogNotifier{Logger: s.logger}),
		export.WithRenderOptions(s.opts.Render),
		export.WithStateListener(listener),
	}
	if s.opts.ResetDelay > 0 {
		options = append(options, export.WithResetDelay(s.opts.ResetDelay))
	}
	return export.New(s.opts.Email, s.opts.Clipboard, options...)
}
