package notification

import (
	"context"
	"errors"
	"time"

	notificationerrors "go-leave/internal/notification/errors"
	"go-leave/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, userID string, unreadOnly bool, page, limit int) (ListResult, error)
	MarkAsRead(ctx context.Context, userID, id string) (NotificationResponse, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, userID string, unreadOnly bool, page, limit int) (ListResult, error) {
	items, err := s.repo.FindByUser(ctx, userID, unreadOnly, limit, response.Offset(page, limit))
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return ListResult{}, err
	}
	total, err := s.repo.CountByUser(ctx, userID, unreadOnly)
	if err != nil {
		return ListResult{}, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Notifications: mapToListResponse(items),
		UnreadCount:   unread,
		Total:         total,
	}, nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id string) (NotificationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidNotificationID
	}

	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, err
	}
	if n.UserID.String() != userID {
		s.logger.Warn("mark notification read by non-owner",
			zap.String("notification_id", id),
			zap.String("user_id", userID),
		)
		return NotificationResponse{}, notificationerrors.ErrNotNotificationOwner
	}

	if !n.IsRead {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			s.logger.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
			return NotificationResponse{}, err
		}
		n.IsRead = true
	}
	return mapToResponse(*n), nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("mark all notifications read failed", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	s.logger.Info("notifications marked read", zap.String("user_id", userID), zap.Int64("count", updated))
	return updated, nil
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.LeaveRequestID != nil {
		v := n.LeaveRequestID.String()
		resp.LeaveRequestID = &v
	}
	return resp
}

func mapToListResponse(items []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp
}
