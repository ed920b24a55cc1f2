package http

import (
	"net/http"

	"github.com/nocturne-gg/riftkeeper/internal/config"
	"github.com/nocturne-gg/riftkeeper/internal/guild"
	"github.com/nocturne-gg/riftkeeper/internal/lolrank"
	"github.com/nocturne-gg/riftkeeper/internal/match"
	"github.com/nocturne-gg/riftkeeper/internal/metrics"
	"github.com/nocturne-gg/riftkeeper/internal/pubsub"
	"github.com/nocturne-gg/riftkeeper/internal/queue"
)

func NewServer(
	guilds guild.GuildStore,
	ranks lolrank.RankStore,
	queues queue.PoolStore,
	recruitments queue.PoolStore,
	matches match.MatchStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	pubsubClient pubsub.PubSubClient,
) *Server {
	server := &Server{
		Guilds:         guilds,
		Ranks:          ranks,
		Queues:         queues,
		Recruitments:   recruitments,
		Matches:        matches,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		PubSub:         pubsubClient,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All API handlers are wrapped with middleware using the Chain helper.
	// Ordering matters: CORS first so browsers get headers even on a 401.
	mw := []Middleware{paramsMiddleware, s.corsMiddleware, s.apiKeyMiddleware}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	// The API routes below are method-specific, so browser preflights
	// need their own route to reach the CORS middleware, which answers
	// every OPTIONS request itself.
	s.Router.Handle("OPTIONS /", Chain(http.NotFoundHandler(), paramsMiddleware, s.corsMiddleware))
	s.Router.Handle("POST /clear", Chain(s.ClearGuildStatsHandler(), mw...))

	s.Router.Handle("POST /v1/guilds", Chain(s.CreateGuildHandler(), mw...))
	s.Router.Handle("GET /v1/guilds/{guildId}", Chain(s.GetGuildHandler(), mw...))
	s.Router.Handle("PATCH /v1/guilds/{guildId}", Chain(s.UpdateGuildHandler(), mw...))

	s.Router.Handle("GET /lol/rank", Chain(s.ListRanksHandler(), mw...))
	s.Router.Handle("POST /lol/rank", Chain(s.RegisterRankHandler(), mw...))
	s.Router.Handle("GET /v1/ranks/{discordId}", Chain(s.GetRankHandler(), mw...))
	s.Router.Handle("PUT /v1/ranks/{discordId}", Chain(s.PutRankHandler(), mw...))

	s.Router.Handle("GET /guild/rating", Chain(s.GetRatingsHandler(), mw...))
	s.Router.Handle("POST /guild/rating", Chain(s.CreateRatingHandler(), mw...))
	s.Router.Handle("DELETE /guild/rating", Chain(s.DeleteStatsHandler(), mw...))
	s.Router.Handle("GET /guild/ranking", Chain(s.GetRankingHandler(), mw...))

	queues := poolRoutes{store: s.Queues, kind: "queue", label: "players", validateRole: validLolRole}
	s.Router.Handle("POST /v1/queues", Chain(s.CreatePoolHandler(queues), mw...))
	s.Router.Handle("GET /v1/queues/{id}", Chain(s.GetPoolHandler(queues), mw...))
	s.Router.Handle("DELETE /v1/queues/{id}", Chain(s.DeletePoolHandler(queues), mw...))
	s.Router.Handle("POST /v1/queues/{id}/players", Chain(s.JoinPoolHandler(queues), mw...))
	s.Router.Handle("DELETE /v1/queues/{id}/players/{discordId}", Chain(s.LeavePoolHandler(queues), mw...))
	s.Router.Handle("PATCH /v1/queues/{id}/players/{discordId}", Chain(s.UpdatePoolRolesHandler(queues), mw...))
	s.Router.Handle("GET /v1/guilds/{guildId}/queues", Chain(s.ListPoolsHandler(queues), mw...))

	recruitments := poolRoutes{store: s.Recruitments, kind: "recruitment", label: "participants"}
	s.Router.Handle("POST /v1/recruitments", Chain(s.CreatePoolHandler(recruitments), mw...))
	s.Router.Handle("GET /v1/recruitments/{id}", Chain(s.GetPoolHandler(recruitments), mw...))
	s.Router.Handle("DELETE /v1/recruitments/{id}", Chain(s.DeletePoolHandler(recruitments), mw...))
	s.Router.Handle("POST /v1/recruitments/{id}/participants", Chain(s.JoinPoolHandler(recruitments), mw...))
	s.Router.Handle("DELETE /v1/recruitments/{id}/participants/{discordId}", Chain(s.LeavePoolHandler(recruitments), mw...))
	s.Router.Handle("PATCH /v1/recruitments/{id}/participants/{discordId}", Chain(s.UpdatePoolRolesHandler(recruitments), mw...))
	s.Router.Handle("GET /v1/guilds/{guildId}/recruitments", Chain(s.ListPoolsHandler(recruitments), mw...))

	s.Router.Handle("POST /v1/guilds/{guildId}/matches", Chain(s.CreateMatchHandler(), mw...))
	s.Router.Handle("GET /v1/guilds/{guildId}/matches/{matchId}", Chain(s.GetMatchHandler(), mw...))
	s.Router.Handle("DELETE /v1/guilds/{guildId}/matches/{matchId}", Chain(s.CancelMatchHandler(), mw...))
	s.Router.Handle("POST /v1/guilds/{guildId}/matches/{matchId}/votes", Chain(s.VoteHandler(), mw...))

	s.Router.Handle("GET /v1/guilds/{guildId}/users/{discordId}/history", Chain(s.UserHistoryHandler(), mw...))
	s.Router.Handle("GET /v1/guilds/{guildId}/users/{discordId}/stats-image", Chain(s.StatsImageHandler(), mw...))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
