package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/playperu/picmatch/internal/engine"
)

func handleCreateSession(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		c, err := sessions.Create(req)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse(c.Snapshot()))
	}
}

func handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionResponse(sessionFrom(r).Snapshot()))
	}
}

func handleDeleteSession(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Abandon(sessionFrom(r).ID()); err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSelect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		c := sessionFrom(r)
		resp, status, err := applySelect(c, req)
		if err != nil {
			if status != 0 {
				writeError(w, status, err.Error())
				return
			}
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

var errBadSelection = errors.New(`kind must be "image" or "word" and id is required`)

// applySelect forwards one tap to the controller. A non-zero status marks a
// malformed request rather than a game error.
func applySelect(c *engine.Controller, req SelectRequest) (SelectResponse, int, error) {
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return SelectResponse{}, http.StatusBadRequest, errBadSelection
	}

	var resp SelectResponse
	switch req.Kind {
	case "image":
		if err := c.SelectImage(req.ID); err != nil {
			return resp, 0, err
		}
	case "word":
		out, err := c.SelectWord(req.ID)
		if err != nil {
			return resp, 0, err
		}
		resp.Outcome = outcomeResponse(out)
	default:
		return resp, http.StatusBadRequest, errBadSelection
	}

	resp.Session = sessionResponse(c.Snapshot())
	return resp, 0, nil
}
