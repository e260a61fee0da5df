// Package monitor collects ingestion batch metrics and chunk-level progress.
package monitor

import (
	"sync"
	"time"
)

// Collector receives per-document outcomes and per-chunk progress from the
// ingestion pipeline.
type Collector interface {
	Record(m DocumentMetrics)
	Progress(doc string, chunk, total int)
	Flush() BatchMetrics
}

// InMemoryCollector accumulates metrics for one batch run.
type InMemoryCollector struct {
	mu        sync.RWMutex
	stage     string
	metrics   map[string]DocumentMetrics
	startTime time.Time
}

func NewInMemoryCollector(stage string) *InMemoryCollector {
	return &InMemoryCollector{
		stage:     stage,
		metrics:   make(map[string]DocumentMetrics),
		startTime: time.Now(),
	}
}

func (c *InMemoryCollector) Record(m DocumentMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics[m.Doc] = m
}

func (c *InMemoryCollector) Progress(doc string, chunk, total int) {}

func (c *InMemoryCollector) Flush() BatchMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := BatchMetrics{
		Stage:     c.stage,
		Documents: make(map[string]DocumentMetrics, len(c.metrics)),
		StartTime: c.startTime,
		EndTime:   time.Now(),
	}
	for k, v := range c.metrics {
		out.Documents[k] = v
		switch {
		case v.Skipped:
			out.Skipped++
		case v.Success:
			out.Processed++
		default:
			out.Failed++
		}
		out.TotalChunks += v.Chunks
		out.TotalTokens += v.Tokens
	}
	return out
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = make(map[string]DocumentMetrics)
	c.startTime = time.Now()
}

// NoOpCollector discards everything.
type NoOpCollector struct{}

func NewNoOpCollector() *NoOpCollector {
	return &NoOpCollector{}
}

func (c *NoOpCollector) Record(m DocumentMetrics)                {}
func (c *NoOpCollector) Progress(doc string, chunk, total int)   {}
func (c *NoOpCollector) Flush() BatchMetrics                     { return BatchMetrics{} }
