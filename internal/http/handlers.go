package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/guild"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ClearGuildStatsHandler wipes a guild's rating data. Operational
// escape hatch for the bot's test guilds, gated like every other
// mutating route.
func (s *Server) ClearGuildStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.URL.Query().Get("guildId")
		if guildID == "" {
			writeMessage(w, http.StatusBadRequest, "guildId is required")
			return
		}
		log.Info("Received request to clear guild stats", "guildID", guildID)
		if err := s.Guilds.DeleteStats(guildID); err != nil {
			if errors.Is(err, guild.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Guild not found")
				return
			}
			writeStoreError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "Guild stats cleared")
		log.Info("Guild stats cleared successfully", "guildID", guildID)
	}
}
