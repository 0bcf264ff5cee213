// Package server exposes the fused feature table over HTTP. The served
// result is swapped atomically, so queries during a reload observe either
// the old cycle or the new one, never a mix.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dazca/municat/internal/fusion"
	"github.com/dazca/municat/internal/ine"
	"github.com/dazca/municat/internal/metrics"
)

// ReloadFunc runs a fresh load cycle and returns the fused result.
type ReloadFunc func(ctx context.Context) (*fusion.Result, error)

// Server holds the current result and the handler tree.
type Server struct {
	current atomic.Pointer[fusion.Result]
	reload  ReloadFunc
	log     *zap.Logger
}

// New builds a server. The initial result may be nil; queries then answer
// 503 until the first cycle lands.
func New(reload ReloadFunc, initial *fusion.Result) *Server {
	s := &Server{
		reload: reload,
		log:    zap.L().With(zap.String("component", "server")),
	}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// SetResult publishes a new cycle.
func (s *Server) SetResult(r *fusion.Result) {
	s.current.Store(r)
}

// Handler builds the chi route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/features", s.handleFeatures)
		r.Get("/features/{code}", s.handleFeatureByCode)
		r.Get("/municipalities/{name}", s.handleMunicipalityByName)
		r.Get("/centroids", s.handleCentroids)
		r.Post("/reload", s.handleReload)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.current.Load() == nil {
		status = "warming"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	result, ok := s.result(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cycle_id":  result.CycleID,
		"loaded_at": result.LoadedAt,
		"features":  result.Table,
	})
}

func (s *Server) handleFeatureByCode(w http.ResponseWriter, r *http.Request) {
	result, ok := s.result(w)
	if !ok {
		return
	}
	code := ine.NormalizeCode(chi.URLParam(r, "code"))
	rec, ok := result.Table[code]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown municipality code", "code": code})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleMunicipalityByName(w http.ResponseWriter, r *http.Request) {
	result, ok := s.result(w)
	if !ok {
		return
	}
	want := ine.FoldName(chi.URLParam(r, "name"))
	for _, rec := range result.Table {
		if rec.Name != "" && ine.FoldName(rec.Name) == want {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown municipality name"})
}

func (s *Server) handleCentroids(w http.ResponseWriter, r *http.Request) {
	result, ok := s.result(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result.Centroids)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "reload not configured"})
		return
	}

	start := time.Now()
	result, err := s.reload(r.Context())
	if err != nil {
		s.log.Error("reload failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "load cycle failed"})
		return
	}
	s.SetResult(result)

	s.log.Info("reload complete",
		zap.String("cycle_id", result.CycleID.String()),
		zap.Duration("elapsed", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"cycle_id":       result.CycleID,
		"municipalities": len(result.Table),
	})
}

// result answers 503 and returns false when no cycle has been published.
func (s *Server) result(w http.ResponseWriter) (*fusion.Result, bool) {
	r := s.current.Load()
	if r == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no data loaded yet"})
		return nil, false
	}
	return r, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
