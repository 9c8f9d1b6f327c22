package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/room-designer/internal/config"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewPublisher_NoBrokers(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{Topic: "workflow"})
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), New(SessionCreated, "s1", nil)))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_Kafka(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "workflow"})
	assert.IsType(t, &KafkaPublisher{}, p)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{w: w, topic: "workflow"}

	evt := New(FurnitureAdded, "session-1", map[string]any{"area_sqft": 21.0})
	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "session-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, FurnitureAdded, string(msg.Headers[0].Value))

	var decoded WorkflowEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, FurnitureAdded, decoded.Type)
	assert.Equal(t, "session-1", decoded.SessionID)
	assert.Equal(t, 21.0, decoded.Attrs["area_sqft"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	broker := errors.New("broker unavailable")
	p := &KafkaPublisher{w: &recordingWriter{err: broker}, topic: "workflow"}

	err := p.Publish(context.Background(), New(SearchCompleted, "s1", nil))
	assert.ErrorIs(t, err, broker)
	assert.Contains(t, err.Error(), SearchCompleted)
}

func TestConsume_RequiresConfig(t *testing.T) {
	err := Consume(context.Background(), config.KafkaConfig{}, "g", func(WorkflowEvent) error { return nil })
	assert.Error(t, err)
}
