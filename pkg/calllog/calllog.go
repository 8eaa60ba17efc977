// Package calllog records completed assistant calls for the admin dashboard.
//
// The log is a presentation aid, not an audit trail: records live for the
// process lifetime (memory store) or a capped Redis list, and are never
// mutated after insertion.
package calllog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AnonymousUser is the placeholder identity for unauthenticated callers.
const AnonymousUser = "Anonymous"

// Record summarizes one completed request cycle.
type Record struct {
	// ID is a unique identifier for the call.
	ID string `json:"id"`

	// User is the caller's display name.
	User string `json:"user"`

	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`

	// Duration is the elapsed pipeline time in seconds.
	Duration float64 `json:"duration"`

	// Question is the resolved transcript for the call.
	Question string `json:"question"`
}

// NewRecord creates a Record for the given transcript and elapsed time.
func NewRecord(question string, elapsed time.Duration) Record {
	return Record{
		ID:        uuid.NewString(),
		User:      AnonymousUser,
		Timestamp: time.Now().UTC(),
		Duration:  elapsed.Seconds(),
		Question:  question,
	}
}

// Store is the call log storage interface.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append adds a record to the log.
	Append(ctx context.Context, rec Record) error

	// List returns all retained records, newest first. Records with
	// equal timestamps keep reverse insertion order (later append first).
	List(ctx context.Context) ([]Record, error)
}
