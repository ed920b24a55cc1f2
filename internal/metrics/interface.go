package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncVotesCast()
	IncMatchesConfirmed()
	IncMatchesCancelled()
	IncQueueJoins()
	ObserveVoteResolution(duration float64)
	IncEventsPublished()
	IncEventsFailed()
	SetStartupTime(duration float64)
}
