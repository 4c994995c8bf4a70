package main

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/themartincox/peartree-sub006/internal/config"
	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/handlers"
	mw "github.com/themartincox/peartree-sub006/internal/middleware"
	"github.com/themartincox/peartree-sub006/internal/observability"
	"github.com/themartincox/peartree-sub006/internal/render"
	"github.com/themartincox/peartree-sub006/internal/sitemap"
)

type server struct {
	store     *content.Store
	renderer  *render.Renderer
	cfg       config.Config
	analytics handlers.Analytics
	logger    *zap.Logger
}

func newRouter(s *server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(observability.TraceMiddleware(s.cfg.GCPProject))
	r.Use(mw.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RedirectSlashes)
	r.Use(chimw.GetHead)
	r.Use(chimw.Compress(5))
	if t := s.cfg.Server.RequestTimeout; t > 0 {
		r.Use(chimw.Timeout(t))
	}

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/assets/*", mw.AssetsWithCache("/assets", filepath.Join(s.cfg.PublicDir, "assets")))
	r.Get("/sitemap.xml", s.sitemapHandler)
	r.Get("/robots.txt", s.robotsHandler)

	// Content routes come from the current snapshot so dev reloads add pages
	// without re-registering routes.
	r.Get("/", s.pageHandler)
	r.Get("/*", s.pageHandler)
	r.NotFound(s.notFoundHandler)
	return r
}

func (s *server) pageHandler(w http.ResponseWriter, r *http.Request) {
	site := s.store.Site()
	page, err := site.Page(r.URL.Path)
	if errors.Is(err, content.ErrNotFound) {
		s.notFoundHandler(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	// Paths match case-insensitively; send other spellings to the canonical one.
	if page.Path != r.URL.Path {
		target := page.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}
	data, err := handlers.BuildPageData(site, page, s.cfg.BaseURL, s.analytics)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.html(w, r, http.StatusOK, data)
}

func (s *server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.html(w, r, http.StatusNotFound, handlers.NotFoundData(s.store.Site(), r.URL.Path, s.analytics))
}

func (s *server) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	site := s.store.Site()
	b, err := sitemap.Build(s.baseURL(site), site.Routes(), site.LoadedAt)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *server) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(sitemap.Robots(s.baseURL(s.store.Site()), s.cfg.Production()))
}

// html renders the base layout. Output is buffered so a template error
// becomes a clean 500 instead of a truncated page.
func (s *server) html(w http.ResponseWriter, r *http.Request, status int, data handlers.PageData) {
	b, err := s.renderer.Bytes(render.Layout, data)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	echoRequestID(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.cfg.Dev {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (s *server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("request failed", zap.Error(err))
	echoRequestID(w, r)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// echoRequestID lets a visitor quote the id that appears in the request log.
func echoRequestID(w http.ResponseWriter, r *http.Request) {
	if id, ok := mw.RequestID(r.Context()); ok {
		w.Header().Set("X-Request-ID", id)
	}
}

func (s *server) baseURL(site *content.Site) string {
	if s.cfg.BaseURL != "" {
		return s.cfg.BaseURL
	}
	return site.Practice.URL
}
