package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/compmap/eventmap/internal/app"
	"github.com/compmap/eventmap/internal/dispatcher"
	"github.com/compmap/eventmap/internal/export"
)

// maxEventBody bounds POST /api/events bodies.
const maxEventBody = 64 * 1024

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps an event error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, app.ErrInvalidArgs), errors.Is(err, dispatcher.ErrUnknownCommand):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requireReady answers 503 while the map has no data.
func (s *Server) requireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.app.Ready() {
			err := s.app.Err()
			if err == nil {
				err = app.ErrUnavailable
			}
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSVG serves the current surface. In the error state the SVG
// carries the error text.
func (s *Server) handleSVG(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := s.app.WriteSVG(w); err != nil {
		s.logger.Error("Failed to write SVG", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	st := s.app.Snapshot()
	status := http.StatusOK
	if !st.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, st)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var e dispatcher.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody)).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if e.Command == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing command"))
		return
	}

	result, err := s.dispatcher.Dispatch(e)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	if err := export.Write(w, s.app.Active()); err != nil {
		s.logger.Error("Failed to write GeoJSON", "error", err)
	}
}
