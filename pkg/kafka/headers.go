package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Header keys set on every published message.
const (
	HeaderEventType     = "event_type"
	HeaderSource        = "source"
	HeaderCorrelationID = "correlation_id"
)

// headerCarrier lets the OpenTelemetry propagator read and write message headers.
type headerCarrier []kafka.Header

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

func (c *headerCarrier) Get(key string) string {
	return headerValue(*c, key)
}

func (c *headerCarrier) Set(key, value string) {
	for i := range *c {
		if (*c)[i].Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, len(*c))
	for i, h := range *c {
		keys[i] = h.Key
	}
	return keys
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// newMessage encodes e for topic, copying routing fields into headers and
// injecting the span context of ctx.
func newMessage(ctx context.Context, topic string, e *Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}

	carrier := headerCarrier{
		{Key: HeaderEventType, Value: []byte(e.Type)},
		{Key: HeaderSource, Value: []byte(e.Source)},
	}
	if e.CorrelationID != "" {
		carrier.Set(HeaderCorrelationID, e.CorrelationID)
	}
	otel.GetTextMapPropagator().Inject(ctx, &carrier)

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(e.Subject),
		Value:   value,
		Headers: carrier,
	}, nil
}
