package leave

import (
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LeaveRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user_status"`

	LeaveType domain.LeaveType `gorm:"type:varchar(20);not null"`
	StartDate time.Time        `gorm:"type:date;not null"`
	EndDate   time.Time        `gorm:"type:date;not null"`
	TotalDays decimal.Decimal  `gorm:"type:numeric(5,1);not null"`
	Reason    string           `gorm:"type:varchar(500);not null"`

	Status         domain.LeaveStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_user_status;index:idx_leave_requests_status_created"`
	ManagerComment *string            `gorm:"type:varchar(500)"`
	ApprovedBy     *uuid.UUID         `gorm:"type:uuid"`
	ApprovedAt     *time.Time

	CreatedAt time.Time `gorm:"index:idx_leave_requests_status_created"`
	UpdatedAt time.Time

	Account  *Account `gorm:"foreignKey:UserID"`
	Approver *Account `gorm:"foreignKey:ApprovedBy"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Account is the slice of a users row the workflow reads and mutates.
type Account struct {
	ID    uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name  string      `gorm:"type:varchar(50)"`
	Email string      `gorm:"type:varchar(255)"`
	Role  domain.Role `gorm:"type:varchar(20)"`

	SickLeaveBalance     decimal.Decimal `gorm:"type:numeric(5,1)"`
	CasualLeaveBalance   decimal.Decimal `gorm:"type:numeric(5,1)"`
	VacationLeaveBalance decimal.Decimal `gorm:"type:numeric(5,1)"`
}

func (Account) TableName() string {
	return "users"
}

func (a Account) Balance() domain.Balance {
	return domain.Balance{
		Sick:     a.SickLeaveBalance,
		Casual:   a.CasualLeaveBalance,
		Vacation: a.VacationLeaveBalance,
	}
}
