package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/haimng/Bestopia/internal/domain"
	pkgkafka "github.com/haimng/Bestopia/pkg/kafka"
)

// Kafka topics for review domain events.
var (
	TopicReviewCreated  = pkgkafka.Topic("review", "created")
	TopicReviewDeleted  = pkgkafka.Topic("review", "deleted")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
)

// Aggregate type constants.
const (
	AggregateTypeReview  = "review"
	AggregateTypeProduct = "product"
)

// Source identifier for events originating from this server.
const SourceServer = "bestopia-server"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	ProductCount int    `json:"product_count"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// ProductUpdatedData is the payload for a product.updated event.
type ProductUpdatedData struct {
	ID       int64  `json:"id"`
	ReviewID int64  `json:"review_id"`
	Name     string `json:"name"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review, productCount int) error {
	data := ReviewCreatedData{
		ID:           review.ID,
		Slug:         review.Slug,
		Title:        review.Title,
		ProductCount: productCount,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, strconv.FormatInt(review.ID, 10), AggregateTypeReview, SourceServer, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.Int64("review_id", review.ID),
		slog.String("slug", review.Slug),
	)

	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, review *domain.Review) error {
	data := ReviewDeletedData{ID: review.ID, Slug: review.Slug}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, strconv.FormatInt(review.ID, 10), AggregateTypeReview, SourceServer, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.Int64("review_id", review.ID),
		slog.String("slug", review.Slug),
	)

	return nil
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	data := ProductUpdatedData{
		ID:       product.ID,
		ReviewID: product.ReviewID,
		Name:     product.Name,
	}

	event, err := pkgkafka.NewEvent(TopicProductUpdated, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, SourceServer, data)
	if err != nil {
		return fmt.Errorf("create product.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductUpdated, event); err != nil {
		return fmt.Errorf("publish product.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.updated event",
		slog.Int64("product_id", product.ID),
		slog.Int64("review_id", product.ReviewID),
	)

	return nil
}
