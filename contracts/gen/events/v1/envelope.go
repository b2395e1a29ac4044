package v1

import (
	"encoding/json"
	"errors"
	"time"
)

// SchemaVersion is the current envelope schema revision.
const SchemaVersion = 1

var ErrIncompleteEnvelope = errors.New("event envelope is missing required fields")

// Envelope is the canonical, versioned event envelope for cross-runtime use.
// This package is contract-only and must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id,omitempty"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// Validate checks the fields every consumer relies on for routing and dedupe.
func (e Envelope) Validate() error {
	if e.EventID == "" || e.EventType == "" || e.PartitionKey == "" || e.SchemaVersion <= 0 {
		return ErrIncompleteEnvelope
	}
	return nil
}
