package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/reciperadar/reciperadar/internal/store"
	"github.com/reciperadar/reciperadar/pkg/similarity"
)

// Server provides the read-only HTTP API over the enriched recipe
// table and the similarity index.
type Server struct {
	store store.Store
	port  int
	topK  int

	mu    sync.RWMutex
	index *similarity.Index
}

// New creates a new HTTP server. The index may be nil until the first
// pipeline run completes; similarity queries return 503 until then.
func New(s store.Store, index *similarity.Index, port, topK int) *Server {
	if port == 0 {
		port = 8080
	}
	if topK <= 0 {
		topK = 10
	}
	return &Server{
		store: s,
		index: index,
		port:  port,
		topK:  topK,
	}
}

// SetIndex swaps in a freshly rebuilt similarity index. In-flight
// queries finish against the old one.
func (s *Server) SetIndex(idx *similarity.Index) {
	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()
}

func (s *Server) currentIndex() *similarity.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Handler returns the API routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/recipes", s.handleRecipes)
	mux.HandleFunc("/api/v1/recipes/", s.handleRecipe)
	mux.HandleFunc("/api/v1/summary", s.handleSummary)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("reciperadar server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	opts := store.ListOpts{Limit: 100}
	q := r.URL.Query()
	if grade := q.Get("grade"); grade != "" {
		opts.Grade = strings.ToUpper(grade)
	}
	if v := q.Get("max_minutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.MaxMinutes = n
		}
	}
	if v := q.Get("min_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MinScore = f
		}
	}
	if q.Get("vegetarian") == "true" {
		opts.VegetarianOnly = true
	}
	if order := q.Get("order"); order != "" {
		opts.OrderBy = order
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}

	recipes, err := s.store.ListRecipes(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  recipes,
		"count": len(recipes),
	})
}

// handleRecipe serves /api/v1/recipes/{id} and /api/v1/recipes/{id}/similar.
func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/recipes/")
	idPart, tail, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("bad recipe id %q", idPart)})
		return
	}

	switch tail {
	case "":
		s.serveRecipe(w, r, id)
	case "similar":
		s.serveSimilar(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (s *Server) serveRecipe(w http.ResponseWriter, r *http.Request, id int64) {
	rec, err := s.store.GetRecipe(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("recipe %d not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) serveSimilar(w http.ResponseWriter, r *http.Request, id int64) {
	idx := s.currentIndex()
	if idx == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "similarity index not built yet"})
		return
	}

	k := s.topK
	if v := r.URL.Query().Get("k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			k = n
		}
	}

	matches, err := idx.TopK(id, k)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recipe_id": id,
		"data":      matches,
		"count":     len(matches),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	ctx := r.Context()
	total, err := s.store.CountRecipes(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	grades, err := s.store.CountByGrade(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := map[string]any{
		"recipes": total,
		"grades":  grades,
	}
	if run, err := s.store.LatestRun(ctx); err == nil {
		resp["last_run"] = run
	}
	if idx := s.currentIndex(); idx != nil {
		resp["indexed"] = idx.Len()
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
