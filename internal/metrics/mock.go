package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a Metrics implementation for testing. It is safe for
// concurrent use and simply counts calls.
type Mock struct {
	mu sync.Mutex

	VotesCastCalls        int
	MatchesConfirmedCalls int
	MatchesCancelledCalls int
	QueueJoinsCalls       int
	VoteResolutionObs     []float64
	EventsPublishedCalls  int
	EventsFailedCalls     int
	StartupTimes          []float64
}

// NewMock creates a new mock Metrics implementation.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncVotesCast() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VotesCastCalls++
}

func (m *Mock) IncMatchesConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesConfirmedCalls++
}

func (m *Mock) IncMatchesCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesCancelledCalls++
}

func (m *Mock) IncQueueJoins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueJoinsCalls++
}

func (m *Mock) ObserveVoteResolution(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VoteResolutionObs = append(m.VoteResolutionObs, duration)
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventsPublishedCalls++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventsFailedCalls++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, duration)
}
