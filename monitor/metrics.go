package monitor

import "time"

// DocumentMetrics records the outcome of processing one document through a
// pipeline stage.
type DocumentMetrics struct {
	Doc      string        `json:"doc"`
	Stage    string        `json:"stage"`
	Chunks   int           `json:"chunks,omitempty"`
	Tokens   int           `json:"tokens,omitempty"`
	Duration time.Duration `json:"duration"`
	Skipped  bool          `json:"skipped"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// BatchMetrics aggregates one batch run.
type BatchMetrics struct {
	Stage       string                     `json:"stage"`
	Processed   int                        `json:"processed"`
	Skipped     int                        `json:"skipped"`
	Failed      int                        `json:"failed"`
	TotalChunks int                        `json:"total_chunks"`
	TotalTokens int                        `json:"total_tokens"`
	Documents   map[string]DocumentMetrics `json:"documents"`
	StartTime   time.Time                  `json:"start_time"`
	EndTime     time.Time                  `json:"end_time"`
}
