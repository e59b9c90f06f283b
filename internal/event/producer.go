package event

import (
	"context"
	"log/slog"

	"github.com/utafrali/catalog-widget/internal/domain"
	pkgkafka "github.com/utafrali/catalog-widget/pkg/kafka"
	"github.com/utafrali/catalog-widget/pkg/logger"
)

// Event type and source of widget notices.
const (
	EventTypeNoticeRaised = "notice.raised"
	SourceWidget          = "catalog-widget"
)

// DefaultNoticeTopic is the topic notices are published to when none is configured.
var DefaultNoticeTopic = pkgkafka.Topic("notice", "raised")

// NoticeRaisedData is the payload of a notice.raised event.
type NoticeRaisedData struct {
	Namespace string `json:"namespace"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
}

// Publisher is satisfied by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// NoticeSink publishes every widget notice to Kafka. Publish failures are
// logged and dropped.
type NoticeSink struct {
	publisher Publisher
	topic     string
	namespace string
	logger    *slog.Logger
}

// NewNoticeSink creates a sink publishing to topic, or DefaultNoticeTopic
// when topic is empty.
func NewNoticeSink(publisher Publisher, topic, namespace string, logger *slog.Logger) *NoticeSink {
	if topic == "" {
		topic = DefaultNoticeTopic
	}
	return &NoticeSink{
		publisher: publisher,
		topic:     topic,
		namespace: namespace,
		logger:    logger,
	}
}

// Notify publishes n as a notice.raised event keyed by the widget namespace.
func (s *NoticeSink) Notify(ctx context.Context, n domain.Notice) {
	data := NoticeRaisedData{
		Namespace: s.namespace,
		Message:   n.Message,
		Severity:  string(n.Severity),
	}

	evt, err := pkgkafka.NewEvent(EventTypeNoticeRaised, s.namespace, SourceWidget, data,
		pkgkafka.WithCorrelationID(logger.CorrelationIDFromContext(ctx)),
		pkgkafka.WithAttribute("severity", string(n.Severity)),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build notice event", slog.String("error", err.Error()))
		return
	}

	if err := s.publisher.Publish(ctx, s.topic, evt); err != nil {
		s.logger.WarnContext(ctx, "failed to publish notice",
			slog.String("topic", s.topic),
			slog.String("error", err.Error()),
		)
	}
}
