package kafka_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	event := kafka.NewOutboxEvent("leave.email.requested.v1", "email_requested", "user", "u-1", "", []byte(`{}`))

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, nil, "user", "u-1", "email_requested", "leave.email.requested.v1", []byte(`{}`), kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), event)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	err = repo.Create(context.Background(), kafka.NewOutboxEvent("t", "e", "user", "u-1", "rid", []byte(`{}`)))
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalidEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	err = repo.Create(context.Background(), kafka.NewOutboxEvent("", "e", "user", "u-1", "", []byte(`{}`)))

	assert.EqualError(t, err, "outbox topic is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "created_at",
	}).
		AddRow("e-2", "", "user", "u-1", "email_requested", "leave.email.requested.v1", []byte(`{"b":2}`), "failed", 3, now).
		AddRow("e-1", "rid-1", "leave_request", "l-1", "email_requested", "leave.email.requested.v1", []byte(`{"a":1}`), "pending", 0, now.Add(-time.Minute))

	mock.ExpectQuery(`UPDATE outbox_events o(.+)FOR UPDATE SKIP LOCKED(.+)RETURNING`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.MaxOutboxAttempts, 30, 50).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "e-1", events[0].ID)
	assert.Equal(t, 3, events[1].RetryCount)
	assert.Equal(t, "rid-1", events[0].RequestID)
	assert.Equal(t, []byte(`{"a":1}`), events[0].Payload)
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("e-1", kafka.OutboxStatusFailed, "broker down").
		WillReturnError(errors.New("db down"))

	err = kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "e-1", "broker down")

	assert.EqualError(t, err, "db down")
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("e-1", kafka.OutboxStatusSent).
		WillReturnResult(driver.RowsAffected(1))

	assert.NoError(t, kafka.NewOutboxRepository(db).MarkSent(context.Background(), "e-1"))
}
