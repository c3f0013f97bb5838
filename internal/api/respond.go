package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "adria/internal/errors"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, err error) {
	var httpErr *apperrors.HTTPError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, apperrors.ErrSlotUnavailable):
		// The client clears its slot selection on this error.
		respondJSON(w, http.StatusConflict, map[string]string{"error": "slot is no longer available"})
	case errors.Is(err, apperrors.ErrSlotHasReservation):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "slot has an active reservation"})
	case errors.Is(err, apperrors.ErrRateLimited):
		respondJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many booking attempts, try again later"})
	case errors.Is(err, apperrors.ErrChallengeFailed):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "verification challenge failed"})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case errors.Is(err, apperrors.ErrInvalidSlotWindow):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &httpErr):
		respondJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
	default:
		log.Printf("Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
