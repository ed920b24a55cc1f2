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

type Server struct {
	Guilds         guild.GuildStore
	Ranks          lolrank.RankStore
	Queues         queue.PoolStore
	Recruitments   queue.PoolStore
	Matches        match.MatchStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	PubSub         pubsub.PubSubClient
	Router         *http.ServeMux
}
