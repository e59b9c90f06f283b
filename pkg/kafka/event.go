package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopicPrefix namespaces every topic the widget publishes to.
const TopicPrefix = "widget"

// Topic builds a topic name of the form "widget.<domain>.<action>".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}

// Event is the envelope of every published message. Subject doubles as the
// message key, so events about one subject keep their order on a partition.
type Event struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Subject       string            `json:"subject"`
	Version       int               `json:"version"`
	OccurredAt    time.Time         `json:"occurred_at"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Data          json.RawMessage   `json:"data"`
}

// EventOption customizes an event built by NewEvent.
type EventOption func(*Event)

// WithCorrelationID tags the event with a request correlation id. Empty ids
// are ignored.
func WithCorrelationID(id string) EventOption {
	return func(e *Event) {
		if id != "" {
			e.CorrelationID = id
		}
	}
}

// WithAttribute sets a string attribute on the event.
func WithAttribute(key, value string) EventOption {
	return func(e *Event) {
		if e.Attributes == nil {
			e.Attributes = make(map[string]string)
		}
		e.Attributes[key] = value
	}
}

// NewEvent marshals data into a version 1 event with a fresh id.
func NewEvent(eventType, subject, source string, data any, opts ...EventOption) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	e := &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Subject:    subject,
		Version:    1,
		OccurredAt: time.Now().UTC(),
		Source:     source,
		Data:       raw,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// DecodeEvent parses an event envelope from a message value.
func DecodeEvent(b []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &e, nil
}

// Decode unmarshals the event payload into target.
func (e *Event) Decode(target any) error {
	return json.Unmarshal(e.Data, target)
}
