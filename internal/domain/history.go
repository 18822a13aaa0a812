package domain

import "time"

// Operation names recorded in the run history.
const (
	OpFetch    = "fetch"
	OpAnalyze  = "analyze"
	OpAsk      = "ask"
	OpCompare  = "compare"
	OpOrganize = "organize"
)

// HistoryRecord captures one completed analyzer operation.
type HistoryRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	Target     string    `json:"target"`
	Kind       string    `json:"kind,omitempty"`
	Model      string    `json:"model,omitempty"`
	FromCache  bool      `json:"from_cache"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}
