package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// formValue is a form field as typed by the user. JSON numbers and strings
// are both accepted and kept as text so validation sees the raw input.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	*v = formValue(b)
	return nil
}

// createRequest is a form submission for a map click at lat/lng.
type createRequest struct {
	Type      string    `json:"type"`
	Lat       *float64  `json:"lat"`
	Lng       *float64  `json:"lng"`
	Distance  formValue `json:"distance"`
	Duration  formValue `json:"duration"`
	Cadence   formValue `json:"cadence"`
	Elevation formValue `json:"elevation"`
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Workouts())
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}

	form := models.Form{
		Type:      req.Type,
		Distance:  string(req.Distance),
		Duration:  string(req.Duration),
		Cadence:   string(req.Cadence),
		Elevation: string(req.Elevation),
	}
	workout, err := s.app.Create(r.Context(), models.Coords{Lat: *req.Lat, Lng: *req.Lng}, form)
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  err.Error(),
			"notice": tracker.MsgInvalidInput,
		})
		return
	case errors.Is(err, models.ErrUnknownKind):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.log.Error("create workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, workout.Record())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.app.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.app.Workout(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDeleteWorkout answers 204 for an unknown id too: deleting something
// that is not there is a no-op.
func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	s.app.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.app.Workout(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if !s.app.Select(id) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "map not ready"})
		return
	}
	writeJSON(w, http.StatusOK, s.app.Map().Map)
}

func (s *Server) handleClickWorkout(w http.ResponseWriter, r *http.Request) {
	clicks, ok := s.app.Click(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"clicks": clicks})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.List())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Map())
}

func (s *Server) handleNotice(w http.ResponseWriter, r *http.Request) {
	n, ok := s.app.Notice()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	s.app.DismissNotice()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
