// CLAUDE:SUMMARY TraceRecord type and the Recorder interface every pipeline run appends to.
// Package trace persists the audit record correlating an input with its
// classification, extraction, decision, and dispatch outcome.
//
// Appends are synchronous and atomic: the pipeline treats a failed append
// as its only fatal error, because silently dropping an audit record
// would break the one-record-per-input guarantee. Backends must not
// reorder or drop records.
//
//	db, _ := dbopen.Open("db/traces.db", dbopen.WithMkdirAll())
//	store := trace.NewStore(db)
//	store.Init()
//	err := store.Append(ctx, rec)
package trace

import (
	"context"
	"sync"
	"time"
)

// Record is one append-only audit entry, written exactly once per
// processed input after its decision is finalized.
type Record struct {
	RecordID   string    `json:"record_id"`
	InputID    string    `json:"input_id"`
	ReceivedAt time.Time `json:"received_at"`

	Format string `json:"format"`
	Intent string `json:"intent"`

	// Extraction is a JSON summary of fields, risk flags, and anomalies.
	Extraction string `json:"extraction"`

	Action string `json:"action"`
	Reason string `json:"reason"`
	Target string `json:"target,omitempty"`

	DispatchStatus string `json:"dispatch_status"`
	DispatchDetail string `json:"dispatch_detail,omitempty"`

	RecordedAt time.Time `json:"recorded_at"`
}

// Recorder is the append-only sink for trace records.
type Recorder interface {
	// Append persists one record. Implementations must serialize
	// concurrent appends and must not drop records silently.
	Append(ctx context.Context, rec *Record) error
	Close() error
}

// Memory is an in-memory Recorder for tests and ephemeral runs.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// NewMemory creates an empty in-memory recorder.
func NewMemory() *Memory {
	return &Memory{}
}

// Append stores a copy of the record.
func (m *Memory) Append(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

// Records returns a snapshot of everything appended so far, in order.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
