package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/guild"
)

func (s *Server) CreateGuildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GuildID string `json:"guildId"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.GuildID == "" {
			writeMessage(w, http.StatusBadRequest, "guildId is required")
			return
		}
		g, err := s.Guilds.CreateGuild(req.GuildID)
		if err != nil {
			if errors.Is(err, guild.ErrGuildExists) {
				writeMessage(w, http.StatusConflict, "Guild already exists")
				return
			}
			writeStoreError(w, err)
			return
		}
		log.Info("guild created", "guildID", g.GuildID)
		writeJSON(w, http.StatusCreated, g)
	}
}

func (s *Server) GetGuildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.Guilds.GetGuild(r.PathValue("guildId"))
		if err != nil {
			if errors.Is(err, guild.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Guild not found")
				return
			}
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func (s *Server) UpdateGuildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch guild.GuildPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		if patch.Plan != nil && !patch.Plan.Valid() {
			writeMessage(w, http.StatusBadRequest, "Invalid plan")
			return
		}
		g, err := s.Guilds.UpdateGuild(r.PathValue("guildId"), patch)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func (s *Server) GetRatingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.URL.Query().Get("guildId")
		ids := discordIDsParam(r)
		if guildID == "" || len(ids) == 0 {
			writeMessage(w, http.StatusBadRequest, "guildId and discordIds are required")
			return
		}
		ratings, err := s.Guilds.GetRatings(guildID, ids)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ratings": ratings})
	}
}

func (s *Server) CreateRatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GuildID   string `json:"guildId"`
			DiscordID string `json:"discordId"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.GuildID == "" || req.DiscordID == "" {
			writeMessage(w, http.StatusBadRequest, "guildId and discordId are required")
			return
		}
		rating, err := s.Guilds.CreateRating(req.GuildID, req.DiscordID)
		if err != nil {
			if errors.Is(err, guild.ErrRatingExists) {
				writeMessage(w, http.StatusConflict, "Guild rating already exists")
				return
			}
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rating)
	}
}

func (s *Server) DeleteStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.URL.Query().Get("guildId")
		if guildID == "" {
			writeMessage(w, http.StatusBadRequest, "guildId is required")
			return
		}
		if err := s.Guilds.DeleteStats(guildID); err != nil {
			if errors.Is(err, guild.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Guild not found")
				return
			}
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GetRankingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.URL.Query().Get("guildId")
		if guildID == "" {
			writeMessage(w, http.StatusBadRequest, "guildId is required")
			return
		}
		limit := 10
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed <= 0 {
				writeMessage(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = parsed
		}
		ranking, err := s.Guilds.GetRanking(guildID, limit)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ranking": ranking})
	}
}
