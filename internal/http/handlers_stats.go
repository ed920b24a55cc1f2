package http

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/statscard"
)

func (s *Server) UserHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.PathValue("guildId")
		discordID := r.PathValue("discordId")
		limit := 10
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 {
				writeMessage(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = parsed
		}
		history, err := s.Guilds.GetUserHistory(guildID, discordID, limit)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		stats, err := s.Guilds.GetUserStats(guildID, discordID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"history": history,
			"stats":   stats,
		})
	}
}

func (s *Server) StatsImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.PathValue("guildId")
		discordID := r.PathValue("discordId")
		stats, err := s.Guilds.GetUserStats(guildID, discordID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		if err := statscard.Render(w, discordID, stats); err != nil {
			log.Error("failed to render stats card", "guildID", guildID, "discordID", discordID, "error", err)
		}
	}
}
