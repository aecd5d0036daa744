// Package httpapi serves the read side of the canvas over HTTP: the layout,
// the catalog, deep-link decoding and prompt export. The Wails shell mounts
// it as its asset handler and the serve command runs it standalone.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"design2prompt/internal/catalog"
	"design2prompt/internal/domain"
	"design2prompt/internal/service"
)

type Server struct {
	canvas      *service.CanvasService
	export      *service.ExportService
	catalog     *catalog.Registry
	collections *service.CollectionService
	logger      *log.Logger
}

type Deps struct {
	Canvas      *service.CanvasService
	Export      *service.ExportService
	Catalog     *catalog.Registry
	Collections *service.CollectionService // optional
	Logger      *log.Logger
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return &Server{
		canvas:      deps.Canvas,
		export:      deps.Export,
		catalog:     deps.Catalog,
		collections: deps.Collections,
		logger:      deps.Logger,
	}
}

// Handler returns the API router. Unknown paths fall through to fallback
// when it is non-nil (the embedded frontend in the desktop shell).
func (s *Server) Handler(fallback http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withSecurityHeaders)

	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/viewports", s.handleViewports)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/{id}", s.handleCatalogEntry)
		r.Get("/deeplink", s.handleDeepLink)
		r.Get("/export/prompt", s.handleExportPrompt)
		r.Get("/export/json", s.handleExportJSON)
		r.Post("/instances", s.handlePlace)
		if s.collections != nil {
			r.Get("/collections", s.handleCollections)
		}
	})
	if fallback != nil {
		r.NotFound(fallback.ServeHTTP)
	}
	return r
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// ── Responses ──────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		s.logger.Error("[http] request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.canvas.Layout())
}

func (s *Server) handleViewports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.canvas.Viewports())
}

// handleCatalog lists definitions, filtered by ?category= and ?q=.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, map[string]any{
		"components": s.catalog.Filter(q.Get("q"), q.Get("category")),
		"categories": s.catalog.Categories(),
	})
}

func (s *Server) handleCatalogEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, ok := s.catalog.Lookup(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("catalog entry %q: %w", id, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// handleDeepLink decodes ?component=&config= into a working configuration.
// It never fails; unknown components come back with FromLink false.
func (s *Server) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.export.DeepLink(q.Get("component"), q.Get("config")))
}

// handleExportPrompt renders ?instance=, ?component= (with optional
// ?config= blob) or, with neither, the whole layout.
func (s *Server) handleExportPrompt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		text string
		err  error
	)
	switch {
	case q.Get("instance") != "":
		text, err = s.export.InstancePrompt(q.Get("instance"))
	case q.Get("component") != "":
		wc := s.export.DeepLink(q.Get("component"), q.Get("config"))
		text, err = s.export.ComponentPrompt(q.Get("component"), wc.StyleParams)
	default:
		text, err = s.export.LayoutPrompt()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.export.LayoutJSON()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="layout.json"`)
	}
	_, _ = w.Write(data)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var in service.PlaceInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		s.writeError(w, r, fmt.Errorf("decode body: %v: %w", err, domain.ErrInvalidInput))
		return
	}
	inst, err := s.canvas.Place(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	list, err := s.collections.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
