package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	VotesCast          prometheus.Counter
	MatchesConfirmed   prometheus.Counter
	MatchesCancelled   prometheus.Counter
	QueueJoins         prometheus.Counter
	VoteResolution     prometheus.Histogram
	EventsPublished    prometheus.Counter
	EventsFailed       prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riftkeeper_votes_cast_total",
			Help: "The total number of votes recorded on pending matches.",
		}),
		MatchesConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riftkeeper_matches_confirmed_total",
			Help: "The total number of pending matches confirmed by vote.",
		}),
		MatchesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riftkeeper_matches_cancelled_total",
			Help: "The total number of pending matches cancelled.",
		}),
		QueueJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riftkeeper_queue_joins_total",
			Help: "The total number of successful queue and recruitment joins.",
		}),
		VoteResolution: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "riftkeeper_vote_resolution_duration_seconds",
			Help:    "The duration of vote handling including rating application.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riftkeeper_events_published_total",
			Help: "The total number of pubsub events successfully published.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riftkeeper_events_failed_total",
			Help: "The total number of pubsub events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "riftkeeper_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.VotesCast,
		s.MatchesConfirmed,
		s.MatchesCancelled,
		s.QueueJoins,
		s.VoteResolution,
		s.EventsPublished,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncVotesCast() {
	s.VotesCast.Inc()
}

func (s *Service) IncMatchesConfirmed() {
	s.MatchesConfirmed.Inc()
}

func (s *Service) IncMatchesCancelled() {
	s.MatchesCancelled.Inc()
}

func (s *Service) IncQueueJoins() {
	s.QueueJoins.Inc()
}

func (s *Service) ObserveVoteResolution(duration float64) {
	s.VoteResolution.Observe(duration)
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
