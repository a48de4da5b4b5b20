package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces one message per month aggregate of a snapshot.
// It implements pipeline.Publisher.
type Publisher struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured aggregate topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAggregateTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newPublisher(w, logger, metrics)
}

func newPublisher(w messageWriter, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// PublishSnapshot publishes the level 1 aggregates of snap in a single
// WriteMessages call. Messages are keyed by month so a compacted topic keeps
// the latest value per month.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap *pipeline.Snapshot) error {
	if snap == nil || snap.Level1 == nil || len(snap.Level1.Aggregates) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Level1.Aggregates))
	for i, agg := range snap.Level1.Aggregates {
		msg, err := serializeToMessage(snap, agg)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d aggregates: %w", len(msgs), err)
	}
	p.metrics.AggregatesPublished.Add(float64(len(msgs)))
	p.logger.Info("aggregates published", "snapshot_id", snap.ID, "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// AggregateMessage is the JSON value of a published month aggregate.
// Missing temperatures are null.
type AggregateMessage struct {
	SnapshotID     string    `json:"snapshot_id"`
	Source         string    `json:"source"`
	Month          string    `json:"month"`
	MaxTemperature *float64  `json:"max_temperature"`
	MinTemperature *float64  `json:"min_temperature"`
	MeanMax        *float64  `json:"mean_max"`
	MeanMin        *float64  `json:"mean_min"`
	Count          int       `json:"count"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// serializeToMessage marshals a MonthAggregate into a Kafka message.
func serializeToMessage(snap *pipeline.Snapshot, agg domain.MonthAggregate) (kafkago.Message, error) {
	data, err := json.Marshal(AggregateMessage{
		SnapshotID:     snap.ID.String(),
		Source:         snap.Source,
		Month:          agg.Key.String(),
		MaxTemperature: domain.Nullable(agg.MaxTemperature),
		MinTemperature: domain.Nullable(agg.MinTemperature),
		MeanMax:        domain.Nullable(agg.MeanMax),
		MeanMin:        domain.Nullable(agg.MeanMin),
		Count:          agg.Count,
		LoadedAt:       snap.LoadedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize aggregate %s: %w", agg.Key, err)
	}
	return kafkago.Message{
		Key:   []byte(agg.Key.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "snapshot_id", Value: []byte(snap.ID.String())},
			{Key: "loaded_at", Value: []byte(snap.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
