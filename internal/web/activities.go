package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"carbonwise/internal"
	"carbonwise/internal/activity"
	"carbonwise/internal/estimate"
)

type activitiesBody struct {
	Activities []internal.ManualActivity `json:"activities"`
}

type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) listActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, activitiesBody{Activities: s.deps.Collector.List()})
	}
}

func (s *Server) addActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx := s.deps.Collector.Add()
		writeJSON(w, http.StatusCreated, map[string]any{
			"index":      idx,
			"activities": s.deps.Collector.List(),
		})
	}
}

func (s *Server) replaceActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body activitiesBody
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		s.deps.Collector.Replace(body.Activities)
		writeJSON(w, http.StatusOK, activitiesBody{Activities: s.deps.Collector.List()})
	}
}

func (s *Server) updateActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid activity index")
			return
		}
		var body fieldUpdate
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.deps.Collector.Update(idx, activity.Field(body.Field), body.Value)
		if err != nil {
			writeActivityError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) removeActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid activity index")
			return
		}
		if err := s.deps.Collector.Remove(idx); err != nil {
			writeActivityError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, activitiesBody{Activities: s.deps.Collector.List()})
	}
}

func writeActivityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, activity.ErrLastActivity):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, activity.ErrIndexOutOfRange), errors.Is(err, activity.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "activity update failed")
	}
}

func (s *Server) estimateTrip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		distance, mode := q.Get("distance"), q.Get("mode")
		writeJSON(w, http.StatusOK, map[string]any{
			"distance":  distance,
			"mode":      mode,
			"emissions": estimate.EstimateText(distance, mode),
		})
	}
}

func (s *Server) listModes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"modes": estimate.Modes()})
	}
}
