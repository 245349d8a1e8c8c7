package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-workflow-api/pkg/config"
)

type writerStub struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *writerStub) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherKeysByEntity(t *testing.T) {
	writer := &writerStub{}
	pub := newKafkaPublisher(writer, 0)

	err := pub.Publish(context.Background(), Event{
		Type:        TypeStatusTransitioned,
		EntityType:  "book",
		EntityID:    "book-1",
		RecordID:    "rec-2",
		NotifyRoles: []string{"ADMIN"},
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("book-1"), writer.messages[0].Key)

	var decoded Event
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, TypeStatusTransitioned, decoded.Type)
	assert.False(t, decoded.OccurredAt.IsZero())
	assert.Equal(t, "event-type", writer.messages[0].Headers[0].Key)

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	pub := newKafkaPublisher(&writerStub{err: errors.New("broker down")}, 0)
	err := pub.Publish(context.Background(), Event{Type: TypeVivaScheduled, EntityID: "book-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viva.scheduled")
}

func TestNewWithoutBrokersIsNop(t *testing.T) {
	pub := New(config.EventsConfig{Topic: "workflow"})
	_, ok := pub.(NopPublisher)
	assert.True(t, ok)
	assert.NoError(t, pub.Publish(context.Background(), Event{}))
}
