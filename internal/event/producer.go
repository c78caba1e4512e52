package event

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/chrisdetmering/Product-Page/internal/domain"
	pkgkafka "github.com/chrisdetmering/Product-Page/pkg/kafka"
	"github.com/chrisdetmering/Product-Page/pkg/logger"
	"github.com/chrisdetmering/Product-Page/pkg/slug"
)

// Kafka topics for storefront domain events.
var (
	TopicReviewSubmitted = pkgkafka.Topic("review", "submitted")
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
)

// AggregateTypeSession is the aggregate every storefront event belongs to.
const AggregateTypeSession = "session"

// SourceStorefront identifies events emitted by this service.
const SourceStorefront = "storefront"

// Metadata keys set on mirrored events.
const (
	MetadataTraceID = "trace_id"
	MetadataSpanID  = "span_id"
)

// Publisher writes an event to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Discard is a Publisher that drops every event. It is used when no Kafka
// brokers are configured.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// ReviewSubmittedData is the payload for a review.submitted event.
type ReviewSubmittedData struct {
	SessionID string        `json:"session_id"`
	Product   string        `json:"product"`
	Review    domain.Review `json:"review"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	VariantID int    `json:"variant_id"`
	Cart      []int  `json:"cart"`
	ItemCount int    `json:"item_count"`
}

// Producer mirrors storefront activity as domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	if publisher == nil {
		publisher = Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishReviewSubmitted publishes a review.submitted event. The product is
// identified by the slug of its title.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, sessionID, productTitle string, review domain.Review) error {
	data := ReviewSubmittedData{
		SessionID: sessionID,
		Product:   slug.Generate(productTitle),
		Review:    review,
	}

	if err := p.publish(ctx, TopicReviewSubmitted, sessionID, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published review.submitted event",
		slog.String("session_id", sessionID),
		slog.Int("rating", review.Rating),
	)
	return nil
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID, action string, variantID int, cart []int) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		Action:    action,
		VariantID: variantID,
		Cart:      cart,
		ItemCount: len(cart),
	}

	if err := p.publish(ctx, TopicCartUpdated, sessionID, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.String("action", action),
		slog.Int("item_count", len(cart)),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, sessionID string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		evt.WithMetadata(MetadataTraceID, sc.TraceID().String()).
			WithMetadata(MetadataSpanID, sc.SpanID().String())
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
