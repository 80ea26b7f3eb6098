package notification

import (
	"context"
	"encoding/json"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailRequest describes an email to render and deliver out of band.
// An empty To falls back to the dispatcher's default address.
type EmailRequest struct {
	Template string
	Subject  string
	To       []string
	Data     map[string]any
}

// Notice is one side effect of a workflow step: in-app rows for Recipients
// and optionally an email.
type Notice struct {
	Type           Type
	Message        string
	LeaveRequestID *uuid.UUID
	Recipients     []uuid.UUID
	Email          *EmailRequest
}

// Dispatcher never reports failures to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notice)
}

type dispatcher struct {
	repo          Repository
	outbox        kafka.OutboxRepository
	fallbackEmail string
	logger        *zap.Logger
}

func NewDispatcher(repo Repository, outbox kafka.OutboxRepository, fallbackEmail string, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &dispatcher{repo: repo, outbox: outbox, fallbackEmail: fallbackEmail, logger: l}
}

func (d *dispatcher) Dispatch(ctx context.Context, n Notice) {
	// the caller's request may finish before we do
	ctx = context.WithoutCancel(ctx)
	log := contextutil.GetLogger(ctx, d.logger).With(
		zap.String("notification_type", string(n.Type)),
		zap.String("actor_id", contextutil.GetUserID(ctx)),
	)

	if len(n.Recipients) > 0 {
		rows := make([]Notification, 0, len(n.Recipients))
		for _, uid := range n.Recipients {
			rows = append(rows, Notification{
				UserID:         uid,
				Type:           n.Type,
				Message:        n.Message,
				LeaveRequestID: n.LeaveRequestID,
			})
		}
		if err := d.repo.CreateBatch(ctx, rows); err != nil {
			metrics.RecordNotificationFailure("in_app")
			log.Error("create in-app notifications failed", zap.Int("recipients", len(rows)), zap.Error(err))
		}
	}

	if n.Email != nil {
		d.enqueueEmail(ctx, log, n)
	}
}

func (d *dispatcher) enqueueEmail(ctx context.Context, log *zap.Logger, n Notice) {
	to := n.Email.To
	if len(to) == 0 && d.fallbackEmail != "" {
		to = []string{d.fallbackEmail}
	}
	if len(to) == 0 {
		metrics.RecordNotificationFailure("email")
		log.Warn("email skipped, no recipient", zap.String("template", n.Email.Template))
		return
	}

	payload, err := json.Marshal(events.EmailRequestedEvent{
		EventType:  events.EmailRequestedEventType,
		Template:   n.Email.Template,
		To:         to,
		Subject:    n.Email.Subject,
		Data:       n.Email.Data,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		metrics.RecordNotificationFailure("email")
		log.Error("encode email event failed", zap.Error(err))
		return
	}

	aggregateType, aggregateID := "user", to[0]
	if n.LeaveRequestID != nil {
		aggregateType, aggregateID = "leave_request", n.LeaveRequestID.String()
	}

	event := kafka.NewOutboxEvent(
		events.EmailRequestedTopic,
		events.EmailRequestedEventType,
		aggregateType,
		aggregateID,
		contextutil.GetRequestID(ctx),
		payload,
	)
	if err := d.outbox.Create(ctx, event); err != nil {
		metrics.RecordNotificationFailure("email")
		log.Error("enqueue email event failed",
			zap.String("template", n.Email.Template),
			zap.Strings("to", to),
			zap.Error(err),
		)
		return
	}

	log.Debug("email event enqueued", zap.String("outbox_id", event.ID), zap.String("template", n.Email.Template))
}
