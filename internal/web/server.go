// Package web exposes the upload, activity, analysis and dashboard
// operations over HTTP.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"carbonwise/internal"
	"carbonwise/internal/activity"
	"carbonwise/internal/analysis"
	"carbonwise/internal/clock"
	"carbonwise/internal/dashboard"
	"carbonwise/internal/logging"
	"carbonwise/internal/upload"
)

type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (*internal.AnalysisSnapshot, error)
	DeleteSnapshot(ctx context.Context) error
}

type Deps struct {
	Simulator  *upload.Simulator
	Collector  *activity.Collector
	Aggregator *analysis.Aggregator
	Presenter  *dashboard.Presenter
	Store      SnapshotStore
	Clock      clock.Clock
	Logger     *zap.Logger

	MaxUploadBytes int64
}

type Server struct {
	deps Deps
	log  *zap.Logger
}

func NewServer(deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 32 << 20
	}
	return &Server{deps: deps, log: logging.OrNop(deps.Logger)}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/dashboard", s.dashboardPage())

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.ping())

		r.Post("/upload", s.uploadFiles())
		r.Get("/uploads", s.listUploads())
		r.Get("/uploads/ws", s.watchUploads())

		r.Get("/activities", s.listActivities())
		r.Post("/activities", s.addActivity())
		r.Put("/activities", s.replaceActivities())
		r.Patch("/activities/{index}", s.updateActivity())
		r.Delete("/activities/{index}", s.removeActivity())

		r.Get("/estimate", s.estimateTrip())
		r.Get("/estimate/modes", s.listModes())

		r.Post("/analyze", s.analyze())
		r.Post("/reset", s.reset())
		r.Get("/dashboard", s.dashboardJSON())
		r.Get("/report.xlsx", s.reportXLSX())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message":   "Carbonwise API is running!",
			"timestamp": s.deps.Clock.Now().UTC().Format(time.RFC3339),
		})
	}
}

// reset clears the session and the stored analysis.
func (s *Server) reset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Store.DeleteSnapshot(r.Context()); err != nil {
			s.log.Error("delete snapshot", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not clear analysis")
			return
		}
		s.deps.Simulator.Tracker().Reset()
		s.deps.Collector.Replace(nil)
		w.WriteHeader(http.StatusNoContent)
	}
}
