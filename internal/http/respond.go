package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/guild"
	"github.com/nocturne-gg/riftkeeper/internal/lolrank"
	"github.com/nocturne-gg/riftkeeper/internal/match"
	"github.com/nocturne-gg/riftkeeper/internal/queue"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// writeMessage emits the domain error/info envelope: {"message": "..."}.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeAuthError emits the auth/config envelope: {"error": "..."}.
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store sentinel errors onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, guild.ErrNotFound),
		errors.Is(err, lolrank.ErrNotFound),
		errors.Is(err, queue.ErrNotFound),
		errors.Is(err, queue.ErrMemberNotFound),
		errors.Is(err, match.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, guild.ErrGuildExists),
		errors.Is(err, guild.ErrRatingExists),
		errors.Is(err, queue.ErrAlreadyJoined),
		errors.Is(err, queue.ErrExists),
		errors.Is(err, match.ErrExists):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, match.ErrNotParticipant):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, match.ErrNotVoting),
		errors.Is(err, match.ErrInvalidState),
		errors.Is(err, match.ErrNoAssignments):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("unexpected store error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody decodes a JSON request body into v, responding with a 400 on
// malformed input. Returns false when the request has already been answered.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
