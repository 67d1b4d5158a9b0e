// Package kafka publishes domain events to Kafka with a shared envelope
// so downstream consumers can route and deduplicate messages without
// knowing each payload shape.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Topic names are namespaced under this prefix to keep Bestopia events
// separable from other tenants on a shared cluster.
const TopicPrefix = "bestopia"

// Topic builds a fully-qualified topic name, e.g. Topic("review", "created")
// yields "bestopia.review.created".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}

// Event is the envelope wrapped around every published payload. The JSON
// field names are part of the wire contract with consumers.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent wraps data in an envelope, assigning a fresh event ID and a UTC
// timestamp. The payload is serialized eagerly so a bad payload fails here
// rather than at publish time.
func NewEvent(eventType, aggregateID, aggregateType, source string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       1,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          payload,
		Metadata:      map[string]string{},
	}, nil
}
