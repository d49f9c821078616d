package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"carbonwise/internal"
	"carbonwise/internal/analysis"
	"carbonwise/internal/dashboard"
	"carbonwise/internal/report"
)

const (
	DashboardPath = "/dashboard"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type analyzeResponse struct {
	Success  bool                      `json:"success"`
	Snapshot internal.AnalysisSnapshot `json:"snapshot"`
	Analysis analysis.Summary          `json:"analysis"`
	Redirect string                    `json:"redirect"`
}

// analyze snapshots the session's uploads and activities. The request
// blocks for the configured analysis delay.
func (s *Server) analyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files := s.deps.Simulator.Tracker().List()
		activities := s.deps.Collector.List()

		// A client that disconnects during the delay does not abort the analysis.
		snap, err := s.deps.Aggregator.Analyze(context.WithoutCancel(r.Context()), files, activities)
		switch {
		case errors.Is(err, analysis.ErrNothingToAnalyze):
			writeError(w, http.StatusConflict, err.Error())
			return
		case errors.Is(err, internal.ErrInvalidSnapshot):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			s.log.Error("analysis failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "analysis failed")
			return
		}

		writeJSON(w, http.StatusOK, analyzeResponse{
			Success:  true,
			Snapshot: snap,
			Analysis: analysis.Summarize(snap),
			Redirect: DashboardPath,
		})
	}
}

func (s *Server) loadView(w http.ResponseWriter, r *http.Request) (dashboard.View, bool) {
	period, ok := dashboard.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, "period must be monthly or weekly")
		return dashboard.View{}, false
	}
	view, err := s.deps.Presenter.Load(r.Context(), period)
	if err != nil {
		s.log.Error("load dashboard", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load dashboard")
		return dashboard.View{}, false
	}
	return view, true
}

func (s *Server) dashboardJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if view, ok := s.loadView(w, r); ok {
			writeJSON(w, http.StatusOK, view)
		}
	}
}

func (s *Server) dashboardPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := s.loadView(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := dashboard.RenderHTML(&buf, view); err != nil {
			s.log.Error("render dashboard", zap.Error(err))
			http.Error(w, "Template Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

func (s *Server) reportXLSX() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.deps.Store.LoadSnapshot(r.Context())
		if err != nil {
			s.log.Error("load snapshot", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not load analysis")
			return
		}
		if snap == nil {
			writeError(w, http.StatusNotFound, "no analysis stored")
			return
		}

		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, *snap, analysis.Summarize(*snap)); err != nil {
			s.log.Error("build report", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not build report")
			return
		}
		w.Header().Set("Content-Type", xlsxMIME)
		w.Header().Set("Content-Disposition", `attachment; filename="carbonwise-report.xlsx"`)
		_, _ = buf.WriteTo(w)
	}
}
