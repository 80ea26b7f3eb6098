package auth

import (
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name            string      `gorm:"type:varchar(50);not null"`
	Email           string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password        string      `gorm:"type:varchar(255);not null"`
	Role            domain.Role `gorm:"type:varchar(20);not null;default:'employee'"`
	IsEmailVerified bool        `gorm:"not null;default:false"`

	EmailVerificationToken   *string `gorm:"type:varchar(64);index"`
	EmailVerificationExpires *time.Time

	SickLeaveBalance     decimal.Decimal `gorm:"type:numeric(5,1);not null;default:10"`
	CasualLeaveBalance   decimal.Decimal `gorm:"type:numeric(5,1);not null;default:5"`
	VacationLeaveBalance decimal.Decimal `gorm:"type:numeric(5,1);not null;default:5"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u User) Balance() domain.Balance {
	return domain.Balance{
		Sick:     u.SickLeaveBalance,
		Casual:   u.CasualLeaveBalance,
		Vacation: u.VacationLeaveBalance,
	}
}
