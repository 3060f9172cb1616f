package memory

import (
	"sync"
	"time"

	"github.com/Veraticus/momo-ledger/internal/metrics"
)

// Collector implements metrics.Collector for in-memory testing.
type Collector struct {
	Messages   map[string]map[metrics.Outcome]int
	CastErrors map[string]int
	Runs       map[string]int
	Requests   map[string]int
	SinkOK     int
	SinkFailed int
	mu         sync.Mutex
}

// NewCollector creates a new in-memory metrics collector.
func NewCollector() *Collector {
	return &Collector{
		Messages:   make(map[string]map[metrics.Outcome]int),
		CastErrors: make(map[string]int),
		Runs:       make(map[string]int),
		Requests:   make(map[string]int),
	}
}

// RecordMessage records the outcome of one message.
func (c *Collector) RecordMessage(category string, outcome metrics.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Messages[category] == nil {
		c.Messages[category] = make(map[metrics.Outcome]int)
	}
	c.Messages[category][outcome]++
}

// RecordCastError records a failed conversion.
func (c *Collector) RecordCastError(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CastErrors[target]++
}

// RecordSinkWrite records a store insert.
func (c *Collector) RecordSinkWrite(success bool, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if success {
		c.SinkOK++
	} else {
		c.SinkFailed++
	}
}

// RecordRun records a finished run.
func (c *Collector) RecordRun(status string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Runs[status]++
}

// RecordRequest records one API request.
func (c *Collector) RecordRequest(route string, _ int, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Requests[route]++
}

// Count returns how many messages of category ended with outcome.
func (c *Collector) Count(category string, outcome metrics.Outcome) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Messages[category][outcome]
}

var _ metrics.Collector = (*Collector)(nil)
