package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeLeaveApplied   Type = "leave_applied"
	TypeLeaveApproved  Type = "leave_approved"
	TypeLeaveRejected  Type = "leave_rejected"
	TypeLeaveCancelled Type = "leave_cancelled"
)

type Notification struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user_read_created,priority:1"`
	Type           Type       `gorm:"type:varchar(30);not null"`
	Message        string     `gorm:"type:text;not null"`
	LeaveRequestID *uuid.UUID `gorm:"type:uuid"`
	IsRead         bool       `gorm:"not null;default:false;index:idx_notifications_user_read_created,priority:2"`
	CreatedAt      time.Time  `gorm:"index:idx_notifications_user_read_created,priority:3"`
	UpdatedAt      time.Time
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
