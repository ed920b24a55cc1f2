package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nocturne-gg/riftkeeper/internal/match"
	"github.com/nocturne-gg/riftkeeper/internal/pubsub"
	"github.com/nocturne-gg/riftkeeper/internal/rating"
)

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID              string                      `json:"id"`
			ChannelID       string                      `json:"channelId"`
			MessageID       string                      `json:"messageId"`
			TeamAssignments map[string]match.Assignment `json:"teamAssignments"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		for discordID, a := range req.TeamAssignments {
			if !a.Team.Valid() {
				writeMessage(w, http.StatusBadRequest, "Invalid team for participant "+discordID)
				return
			}
		}
		m, err := s.Matches.Create(match.PendingMatch{
			ID:              req.ID,
			GuildID:         r.PathValue("guildId"),
			ChannelID:       req.ChannelID,
			MessageID:       req.MessageID,
			TeamAssignments: req.TeamAssignments,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		log.Info("pending match created", "matchID", m.ID, "guildID", m.GuildID, "participants", m.TotalParticipants())
		writeJSON(w, http.StatusCreated, map[string]any{
			"match":             m,
			"totalParticipants": m.TotalParticipants(),
			"votesRequired":     m.VotesRequired(),
		})
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, votes, err := s.Matches.Get(r.PathValue("matchId"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"match":             m,
			"votes":             votes,
			"totalParticipants": m.TotalParticipants(),
			"votesRequired":     m.VotesRequired(),
		})
	}
}

func (s *Server) CancelMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Matches.Cancel(r.PathValue("matchId"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		s.Metrics.IncMatchesCancelled()
		s.publishEvent(pubsub.EventMatchCancelled, pubsub.MatchResolvedEvent{
			MatchID:   m.ID,
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			MessageID: m.MessageID,
			Status:    string(m.Status),
		})
		log.Info("pending match cancelled", "matchID", m.ID, "guildID", m.GuildID)
		writeJSON(w, http.StatusOK, map[string]any{"match": m})
	}
}

func (s *Server) VoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DiscordID string      `json:"discordId"`
			Side      rating.Side `json:"side"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.DiscordID == "" {
			writeMessage(w, http.StatusBadRequest, "discordId is required")
			return
		}
		if !req.Side.Valid() {
			writeMessage(w, http.StatusBadRequest, "Invalid side")
			return
		}
		result, err := s.Matches.Vote(r.PathValue("matchId"), req.DiscordID, req.Side)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		s.Metrics.IncVotesCast()
		if result.Confirmed {
			s.onMatchConfirmed(result)
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// onMatchConfirmed records metrics and fans the resolution out to the
// bot via pubsub: one match-confirmed event plus one ratings-updated
// event per participant.
func (s *Server) onMatchConfirmed(result *match.VoteResult) {
	m := result.Match
	s.Metrics.IncMatchesConfirmed()
	s.Metrics.ObserveVoteResolution(time.Since(m.CreatedAt).Seconds())
	log.Info("match confirmed by vote",
		"matchID", m.ID,
		"guildID", m.GuildID,
		"winningSide", result.WinningSide,
	)

	s.publishEvent(pubsub.EventMatchConfirmed, pubsub.MatchResolvedEvent{
		MatchID:     m.ID,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		MessageID:   m.MessageID,
		Status:      string(m.Status),
		WinningSide: string(result.WinningSide),
	})
	for _, change := range result.RatingChanges {
		s.publishEvent(pubsub.EventRatingsUpdated, pubsub.RatingChangeEvent{
			MatchID:      m.ID,
			GuildID:      m.GuildID,
			DiscordID:    change.DiscordID,
			RatingBefore: change.RatingBefore,
			RatingAfter:  change.RatingAfter,
			RatingChange: change.RatingChange,
			Win:          change.Win,
		})
	}
}

func (s *Server) publishEvent(topic pubsub.EventType, data any) {
	if s.PubSub == nil {
		return
	}
	if err := s.PubSub.SendMessage(topic, data); err != nil {
		log.Error("failed to publish event", "topic", topic, "error", err)
		s.Metrics.IncEventsFailed()
		return
	}
	s.Metrics.IncEventsPublished()
}
