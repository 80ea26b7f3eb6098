package notification

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	CreateBatch(ctx context.Context, items []Notification) error
	FindByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	FindByID(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, items []Notification) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) byUser(ctx context.Context, userID string, unreadOnly bool) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}
	return db
}

func (r *repository) FindByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	var items []Notification
	err := r.byUser(ctx, userID, unreadOnly).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *repository) CountByUser(ctx context.Context, userID string, unreadOnly bool) (int64, error) {
	var count int64
	err := r.byUser(ctx, userID, unreadOnly).Count(&count).Error
	return count, err
}

func (r *repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.CountByUser(ctx, userID, true)
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *repository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
