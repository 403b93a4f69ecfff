package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TriggerOutcome is emitted after a trigger log has been stored.
type TriggerOutcome struct {
	LogID       int64     `json:"log_id"`
	EventID     int64     `json:"event_id"`
	CreatorID   int64     `json:"creator_id"`
	Method      string    `json:"method_type"`
	Destination string    `json:"destination"`
	StatusCode  int       `json:"response_status_code"`
	IsTest      bool      `json:"is_test"`
	LatencyMS   int64     `json:"latency_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher emits trigger outcomes to Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher configures a synchronous writer keyed by event ID so outcomes of
// one event stay ordered within a partition.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			MaxAttempts:            3,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		},
		logger: logger.With(zap.String("component", "outcome_publisher")),
	}
}

// Publish writes one outcome message.
func (p *Publisher) Publish(ctx context.Context, outcome TriggerOutcome) error {
	msg, err := newMessage(outcome)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("failed to publish trigger outcome",
			zap.Int64("event_id", outcome.EventID),
			zap.Int64("log_id", outcome.LogID),
			zap.Error(err))
		return fmt.Errorf("publish trigger outcome: %w", err)
	}

	p.logger.Debug("trigger outcome published",
		zap.Int64("event_id", outcome.EventID),
		zap.Int64("log_id", outcome.LogID))
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newMessage(outcome TriggerOutcome) (kafka.Message, error) {
	value, err := json.Marshal(outcome)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal trigger outcome: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(outcome.EventID, 10)),
		Value: value,
		Time:  outcome.Timestamp,
	}, nil
}
