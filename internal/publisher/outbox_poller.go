package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/metrics"
	r "github.com/fjod/go_cart/purchases-service/internal/repository"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultTopic = "purchases-outbox"
	batchSize    = 100
)

// MessageWriter is the part of *kafka.Writer the poller needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OutboxPoller struct {
	eventTick time.Duration
	repo      r.OutboxRepository
	writer    MessageWriter
	metrics   *metrics.ServerMetrics
	log       *slog.Logger
}

func NewOutboxPoller(repo r.OutboxRepository, m *metrics.ServerMetrics, log *slog.Logger, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  DefaultTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return newOutboxPoller(repo, w, m, log)
}

func newOutboxPoller(repo r.OutboxRepository, w MessageWriter, m *metrics.ServerMetrics, log *slog.Logger) *OutboxPoller {
	return &OutboxPoller{eventTick: time.Second, repo: repo, writer: w, metrics: m, log: log}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) Close() error {
	return p.writer.Close()
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, batchSize)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to fetch outbox events", "error", err)
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			p.metrics.OutboxPublished.WithLabelValues(event.EventType, "error").Inc()
			p.log.ErrorContext(ctx, "failed to publish outbox event",
				"event_id", event.ID, "event_type", event.EventType, "error", err)
			continue
		}

		// A failed mark republishes the event next tick; consumers dedupe by key.
		if err := p.repo.MarkEventAsProcessed(ctx, event.ID); err != nil {
			p.log.ErrorContext(ctx, "failed to mark outbox event as processed", "event_id", event.ID, "error", err)
			continue
		}
		p.metrics.OutboxPublished.WithLabelValues(event.EventType, "published").Inc()
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *domain.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
