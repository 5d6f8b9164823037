package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/TxnLab/stakeview/internal/lib/dashboard"
	"github.com/TxnLab/stakeview/internal/lib/staking"
)

// Envelope wraps every /api/v1 response.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Degraded  bool      `json:"degraded,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	env.Timestamp = s.now().UTC()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Warn("error writing response", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request, data any, degraded bool) {
	s.writeJSON(w, r, http.StatusOK, Envelope{Success: true, Data: data, Degraded: degraded})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, Envelope{Error: msg})
}

// failErr maps domain errors to status codes. Unexpected errors are logged and reported
// without detail.
func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, staking.ErrInvalidAddress), errors.Is(err, dashboard.ErrInvalidAmount):
		s.fail(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, staking.ErrValidatorNotFound):
		s.fail(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, staking.ErrNoSnapshot):
		s.fail(w, r, http.StatusServiceUnavailable, "staking data not loaded yet")
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		s.fail(w, r, http.StatusInternalServerError, "internal error")
	}
}
