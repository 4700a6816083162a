package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu                sync.Mutex
	requestCount      map[string]int64
	errorCount        map[string]int64
	notificationCount map[string]int64
	ratingCount       map[string]int64
	replyOutcomeCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:      make(map[string]int64),
		errorCount:        make(map[string]int64),
		notificationCount: make(map[string]int64),
		ratingCount:       make(map[string]int64),
		replyOutcomeCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordNotification counts an outbound notification attempt per lifecycle stage.
func (m *Metrics) RecordNotification(stage string, sent bool) {
	if m == nil {
		return
	}
	key := stage + "|" + strconv.FormatBool(sent)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationCount[key]++
}

// RecordRating counts a persisted rating per source.
func (m *Metrics) RecordRating(source string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingCount[source]++
}

// RecordReplyOutcome counts inbound reply resolutions per terminal state.
func (m *Metrics) RecordReplyOutcome(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replyOutcomeCount[outcome]++
}
