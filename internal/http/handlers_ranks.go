package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nocturne-gg/riftkeeper/internal/lolrank"
)

// discordIDsParam collects the batch-lookup ids from the query string.
// Accepts both repeated `discordIds[]` params and a comma-separated
// `discordIds` value.
func discordIDsParam(r *http.Request) []string {
	var ids []string
	q := r.URL.Query()
	for _, raw := range append(q["discordIds[]"], q["discordIds"]...) {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (s *Server) ListRanksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := discordIDsParam(r)
		if len(ids) == 0 {
			writeMessage(w, http.StatusBadRequest, "discordIds is required")
			return
		}
		ranks, err := s.Ranks.GetMany(ids)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ranks": ranks})
	}
}

func (s *Server) RegisterRankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rank lolrank.Rank
		if !decodeBody(w, r, &rank) {
			return
		}
		if rank.DiscordID == "" {
			writeMessage(w, http.StatusBadRequest, "discordId is required")
			return
		}
		s.upsertRank(w, rank)
	}
}

func (s *Server) GetRankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discordID := r.PathValue("discordId")
		rank, err := s.Ranks.Get(discordID)
		if err != nil {
			// Unregistered users render as UNRANKED, not as a 404.
			if errors.Is(err, lolrank.ErrNotFound) {
				writeJSON(w, http.StatusOK, lolrank.Unranked(discordID))
				return
			}
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rank)
	}
}

func (s *Server) PutRankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rank lolrank.Rank
		if !decodeBody(w, r, &rank) {
			return
		}
		rank.DiscordID = r.PathValue("discordId")
		s.upsertRank(w, rank)
	}
}

// upsertRank validates and stores a rank, answering 201 for a fresh
// registration and 200 for an overwrite.
func (s *Server) upsertRank(w http.ResponseWriter, rank lolrank.Rank) {
	if !lolrank.ValidTier(rank.Tier) {
		writeMessage(w, http.StatusBadRequest, "Invalid tier")
		return
	}
	if !lolrank.ValidDivision(rank.Tier, rank.Division) {
		writeMessage(w, http.StatusBadRequest, "Invalid division")
		return
	}
	created, err := s.Ranks.Upsert(rank)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, rank)
}
