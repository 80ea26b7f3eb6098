package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	listErr error
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, f.listErr
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	failTopic string
	messages  []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if m.Topic == w.failTopic {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ok := kafka.NewOutboxEvent("leave.email.requested.v1", "email_requested", "user", "u-1", "rid-1", []byte(`{"to":["a@b.c"]}`))
	bad := kafka.NewOutboxEvent("broken.topic", "email_requested", "user", "u-2", "", []byte(`{}`))

	repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{ok, bad}}
	writer := &fakeWriter{failTopic: "broken.topic"}

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{ok.ID}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed[bad.ID])

	assert.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, []byte("u-1"), msg.Key)
	assert.Contains(t, msg.Headers, kafkago.Header{Key: "request_id", Value: []byte("rid-1")})
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	repo := &fakeOutboxRepository{listErr: errors.New("db down")}

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())

	assert.EqualError(t, err, "db down")
	assert.Zero(t, sent)
}
