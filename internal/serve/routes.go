package serve

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dualpace/internal/domain/content"
	domainerr "dualpace/internal/domain/errors"
	"dualpace/internal/domain/site"
)

// Handler builds the router: HTML pages under /{locale}/..., the JSON API
// under /api/{locale}/... and the reload event stream.
func (s *Server) Handler() http.Handler {
	h := &handlers{
		s:       s,
		locales: newLocaleMatcher(s.cfg.SiteLocales(), s.cfg.DefaultLocale()),
		resp:    responder{logger: s.log},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(addTrailingSlash)

	r.Get("/", h.root)
	r.Get("/_dev/events", s.handleSSE)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Serve.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/warnings", h.apiWarnings)
		r.Route("/{locale}", func(r chi.Router) {
			r.Get("/posts", h.apiPosts)
			r.Get("/posts/{slug}", h.apiPost)
			r.Get("/posts/{slug}/related", h.apiRelated)
			r.Get("/categories", h.apiCategories)
		})
	})

	r.Get("/{locale}/blog/", h.blogIndex)
	r.Get("/{locale}/blog/{slug}/", h.post)
	r.Get("/{locale}/{category}/", h.category)

	r.NotFound(h.notFound)
	return r
}

type handlers struct {
	s       *Server
	locales localeMatcher
	resp    responder
}

func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	loc := h.locales.Match(r.Header.Get("Accept-Language"))
	w.Header().Add("Vary", "Accept-Language")
	http.Redirect(w, r, site.BlogURL(loc), http.StatusFound)
}

func (h *handlers) blogIndex(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.locales.Supports(chi.URLParam(r, "locale"))
	if !ok {
		h.notFound(w, r)
		return
	}
	h.page(w, r, site.NewRoute(site.RouteIndex, loc, "", ""))
}

func (h *handlers) category(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.locales.Supports(chi.URLParam(r, "locale"))
	c, valid := content.ParseCategory(chi.URLParam(r, "category"))
	if !ok || !valid {
		h.notFound(w, r)
		return
	}
	h.page(w, r, site.NewRoute(site.RouteCategory, loc, "", string(c)))
}

func (h *handlers) post(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.locales.Supports(chi.URLParam(r, "locale"))
	if !ok {
		h.notFound(w, r)
		return
	}
	h.page(w, r, site.NewRoute(site.RoutePost, loc, chi.URLParam(r, "slug"), ""))
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request, route site.Route) {
	out, err := h.s.pages.Render(r.Context(), route)
	if errors.Is(err, domainerr.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.s.log.Error().Err(err).Str("route", route.String()).Msg("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, out)
}

// notFound serves theme static files first, then the 404 page in the locale
// of the first path segment.
func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	if f, ok := h.staticFile(r.URL.Path); ok {
		http.ServeFile(w, r, f)
		return
	}

	first, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	loc, ok := h.locales.Supports(first)
	if !ok {
		loc = h.locales.Match(r.Header.Get("Accept-Language"))
	}
	out, err := h.s.pages.Render(r.Context(), site.Route{Kind: site.RouteNotFound, Locale: loc, Slug: r.URL.Path})
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, out)
}

func (h *handlers) staticFile(urlPath string) (string, bool) {
	if h.s.cfg.Build.ThemeDir == "" {
		return "", false
	}
	clean := path.Clean("/" + urlPath)
	f := filepath.Join(h.s.cfg.Build.ThemeDir, "static", filepath.FromSlash(clean))
	st, err := os.Stat(f)
	if err != nil || st.IsDir() {
		return "", false
	}
	return f, true
}

// addTrailingSlash redirects page paths to their canonical form ending in
// "/". API, event and asset paths are left alone.
func addTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if r.Method == http.MethodGet && p != "/" && !strings.HasSuffix(p, "/") &&
			!strings.HasPrefix(p, "/api/") && !strings.HasPrefix(p, "/_dev/") &&
			!strings.Contains(path.Base(p), ".") {
			target := p + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		ev := s.log.Debug()
		if ww.Status() >= http.StatusInternalServerError {
			ev = s.log.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
