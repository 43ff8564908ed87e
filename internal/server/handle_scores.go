package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultScoreLimit = 50
	maxScoreLimit     = 500
)

func handleListScores(scores ScoreStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultScoreLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxScoreLimit)
		}

		records, err := scores.ListScores(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func handleGetScore(scores ScoreStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := scores.GetScore(r.Context(), chi.URLParam(r, "scoreID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "score not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
