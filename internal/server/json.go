package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playperu/picmatch/internal/picmatch"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps game errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, picmatch.ErrInvalidConfig):
		status = http.StatusBadRequest
	case errors.Is(err, picmatch.ErrUnknownPair):
		status = http.StatusNotFound
	case errors.Is(err, picmatch.ErrInsufficientPool),
		errors.Is(err, picmatch.ErrDuplicatePair),
		errors.Is(err, picmatch.ErrAlreadyMatched),
		errors.Is(err, picmatch.ErrRoundSealed),
		errors.Is(err, picmatch.ErrNoActiveRound),
		errors.Is(err, picmatch.ErrAlreadyStarted):
		status = http.StatusConflict
	case errors.Is(err, ErrSessionsClosed):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
