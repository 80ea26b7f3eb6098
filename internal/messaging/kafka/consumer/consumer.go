package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type TemplateSender interface {
	SendTemplate(ctx context.Context, template string, to []string, subject string, data map[string]any) error
}

var errEmptyRecipients = errors.New("email_requested event has no recipients")

// ConsumeEmailRequested delivers email_requested events until ctx is cancelled.
// Undecodable messages are committed and skipped. Delivery failures are left
// uncommitted so the group redelivers them.
func ConsumeEmailRequested(
	ctx context.Context,
	reader MessageReader,
	sender TemplateSender,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.email_requested")
	log.Info("email consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("email consumer stopped")
				return
			}
			log.Error("fetch email message failed", zap.Error(err))
			continue
		}

		handleEmailMessage(ctx, reader, sender, log, msg)
	}
}

func handleEmailMessage(
	ctx context.Context,
	reader MessageReader,
	sender TemplateSender,
	log *zap.Logger,
	msg kafkago.Message,
) {
	event, err := decodeEmailRequested(msg.Value)
	if err != nil {
		log.Error("decode email_requested event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := sender.SendTemplate(ctx, event.Template, event.To, event.Subject, event.Data); err != nil {
		log.Error("deliver email failed",
			zap.String("template", event.Template),
			zap.Strings("to", event.To),
			zap.Error(err),
		)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit email message failed", zap.Error(err))
		return
	}

	log.Info("email delivered from email_requested event",
		zap.String("template", event.Template),
		zap.Strings("to", event.To),
	)
}

func decodeEmailRequested(value []byte) (events.EmailRequestedEvent, error) {
	var event events.EmailRequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return event, err
	}
	if len(event.To) == 0 {
		return event, errEmptyRecipients
	}
	return event, nil
}
