// Package seed loads demo accounts and sample leave requests.
package seed

import (
	"context"
	"fmt"
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/domain"
	"go-leave/internal/leave"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DemoPassword = "password123"

type account struct {
	name, email string
	role        domain.Role
	sick        int64
	casual      int64
	vacation    int64
}

var accounts = []account{
	{"John Doe", "john@test.com", domain.RoleEmployee, 8, 3, 5},
	{"Jane Smith", "jane@test.com", domain.RoleEmployee, 10, 5, 3},
	{"Bob Johnson", "bob@test.com", domain.RoleEmployee, 7, 4, 4},
	{"Manager Admin", "manager@test.com", domain.RoleManager, 10, 5, 5},
}

// Result reports what Run created.
type Result struct {
	Users         int
	LeaveRequests int
}

// Run wipes users, leave requests and notifications, then inserts the demo
// data set in a single transaction.
func Run(ctx context.Context, db *gorm.DB, logger *zap.Logger) (Result, error) {
	log := logger.Named("seed")
	now := time.Now().UTC()

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, fmt.Errorf("hash demo password: %w", err)
	}

	var res Result
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"notifications", "leave_requests", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		users := make(map[string]uuid.UUID, len(accounts))
		for _, a := range accounts {
			u := auth.User{
				Name:                 a.name,
				Email:                a.email,
				Password:             string(hash),
				Role:                 a.role,
				IsEmailVerified:      true,
				SickLeaveBalance:     decimal.NewFromInt(a.sick),
				CasualLeaveBalance:   decimal.NewFromInt(a.casual),
				VacationLeaveBalance: decimal.NewFromInt(a.vacation),
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", a.email, err)
			}
			users[a.email] = u.ID
			log.Info("seeded user", zap.String("email", a.email), zap.String("role", string(a.role)))
		}

		requests := sampleRequests(users, now)
		if err := tx.Omit("Account", "Approver").Create(&requests).Error; err != nil {
			return fmt.Errorf("create leave requests: %w", err)
		}

		res = Result{Users: len(users), LeaveRequests: len(requests)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info("database seeded",
		zap.Int("users", res.Users),
		zap.Int("leave_requests", res.LeaveRequests),
	)
	return res, nil
}

func sampleRequests(users map[string]uuid.UUID, now time.Time) []leave.LeaveRequest {
	day := func(offset int) time.Time {
		d := now.AddDate(0, 0, offset)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	at := func(offset int) *time.Time {
		t := now.AddDate(0, 0, offset)
		return &t
	}
	comment := func(s string) *string { return &s }
	manager := users["manager@test.com"]

	return []leave.LeaveRequest{
		{
			UserID: users["john@test.com"], LeaveType: domain.LeaveTypeSick,
			StartDate: day(1), EndDate: day(3), TotalDays: decimal.NewFromInt(3),
			Reason: "Medical appointment and recovery", Status: domain.LeaveStatusPending,
		},
		{
			UserID: users["jane@test.com"], LeaveType: domain.LeaveTypeVacation,
			StartDate: day(7), EndDate: day(11), TotalDays: decimal.NewFromInt(5),
			Reason: "Family vacation trip", Status: domain.LeaveStatusPending,
		},
		{
			UserID: users["john@test.com"], LeaveType: domain.LeaveTypeCasual,
			StartDate: day(-7), EndDate: day(-6), TotalDays: decimal.NewFromInt(2),
			Reason: "Personal work at the bank", Status: domain.LeaveStatusApproved,
			ManagerComment: comment("Approved. Have a good time."), ApprovedBy: &manager, ApprovedAt: at(-8),
		},
		{
			UserID: users["bob@test.com"], LeaveType: domain.LeaveTypeSick,
			StartDate: day(-10), EndDate: day(-9), TotalDays: decimal.NewFromInt(1),
			Reason: "Fever and cold", Status: domain.LeaveStatusApproved,
			ManagerComment: comment("Approved. Get well soon!"), ApprovedBy: &manager, ApprovedAt: at(-11),
		},
		{
			UserID: users["jane@test.com"], LeaveType: domain.LeaveTypeCasual,
			StartDate: day(-7), EndDate: day(-7), TotalDays: decimal.RequireFromString("0.5"),
			Reason: "Half day for personal work", Status: domain.LeaveStatusRejected,
			ManagerComment: comment("Cannot approve due to staffing constraints. Please reschedule."),
			ApprovedBy:     &manager, ApprovedAt: at(-8),
		},
	}
}
