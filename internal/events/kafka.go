package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/Rrens/room-designer/internal/config"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes workflow events to a Kafka topic keyed by session
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

// NewPublisher returns a Kafka publisher when brokers are configured, otherwise a no-op
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg)
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			RequiredAcks: kafka.RequireOne,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
		topic: cfg.Topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt WorkflowEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.SessionID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", evt.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Consume reads workflow events from the topic until ctx is cancelled.
// Malformed messages are logged and committed so they are not redelivered.
func Consume(ctx context.Context, cfg config.KafkaConfig, groupID string, fn func(WorkflowEvent) error) error {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return errors.New("kafka brokers and topic are required")
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     groupID,
		Topic:       cfg.Topic,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		StartOffset: kafka.LastOffset,
	})
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		var evt WorkflowEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			log.Warn().Err(err).Int64("offset", m.Offset).Msg("skipping malformed workflow event")
		} else if err := fn(evt); err != nil {
			return err
		}

		if err := r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			return fmt.Errorf("failed to commit offset: %w", err)
		}
	}
}
