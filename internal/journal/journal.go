package journal

import (
	"context"
	"time"
)

// Entry records one mutating backend call for operational telemetry. The
// journal is write-mostly and never consulted to answer entity reads; the
// backend stays the single source of truth.
type Entry struct {
	ID        int64         `json:"id,omitempty"`
	Entity    string        `json:"entity"`
	Action    string        `json:"action"`
	Target    string        `json:"target"`
	Outcome   string        `json:"outcome"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
}

const (
	OutcomeOK     = "OK"
	OutcomeFailed = "FAILED"
)

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Noop is used when the journal is disabled in config.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error          { return nil }
func (Noop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
