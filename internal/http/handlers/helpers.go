package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "status", status, "error", err)
	} else {
		log.Warn("Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var vErr *rating.ValidationError
	switch {
	case errors.Is(err, scoring.ErrSessionNotFound), errors.Is(err, club.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scoring.ErrSessionExists),
		errors.Is(err, scoring.ErrMatchComplete),
		errors.Is(err, scoring.ErrMatchNotFinished),
		errors.Is(err, scoring.ErrNotServing):
		return http.StatusConflict
	case errors.Is(err, scoring.ErrUnknownSide),
		errors.Is(err, scoring.ErrUnknownPointKind),
		errors.Is(err, processor.ErrInvalidRequest),
		errors.Is(err, rating.ErrDegenerateScore),
		errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrImportNotConfigured):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &rating.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
