package dashboard

import (
	"context"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/leave"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusCount is one row of a GROUP BY status.
type StatusCount struct {
	Status domain.LeaveStatus
	Count  int64
}

// TypeSum is one row of approved days grouped by leave type.
type TypeSum struct {
	LeaveType domain.LeaveType
	TotalDays decimal.Decimal
	Count     int64
}

// EmployeeUsage is one row of approved days grouped by employee.
type EmployeeUsage struct {
	UserID    uuid.UUID
	Name      string
	Email     string
	TotalDays decimal.Decimal
	Count     int64
}

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*leave.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]leave.LeaveRequest, error)
	UpcomingApproved(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]leave.LeaveRequest, error)
	// ApprovedStartingSince returns approved requests starting on or after since.
	// A nil userID covers every employee.
	ApprovedStartingSince(ctx context.Context, userID *uuid.UUID, since time.Time) ([]leave.LeaveRequest, error)
	RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]leave.LeaveRequest, error)

	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountApprovedBetween(ctx context.Context, from, to time.Time) (int64, error)
	ApprovedDaysByType(ctx context.Context) ([]TypeSum, error)
	CountEmployees(ctx context.Context) (int64, error)
	RecentPending(ctx context.Context, limit int) ([]leave.LeaveRequest, error)
	TopEmployees(ctx context.Context, limit int) ([]EmployeeUsage, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) requests(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&leave.LeaveRequest{})
}

func (r *repository) GetAccount(ctx context.Context, userID uuid.UUID) (*leave.Account, error) {
	var a leave.Account
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	err := r.requests(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error
	return out, err
}

func (r *repository) UpcomingApproved(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	err := r.requests(ctx).
		Where("user_id = ? AND status = ? AND start_date >= ?", userID, domain.LeaveStatusApproved, from).
		Order("start_date ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) ApprovedStartingSince(ctx context.Context, userID *uuid.UUID, since time.Time) ([]leave.LeaveRequest, error) {
	q := r.requests(ctx).
		Select("id", "user_id", "leave_type", "start_date", "total_days", "status").
		Where("status = ? AND start_date >= ?", domain.LeaveStatusApproved, since)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var out []leave.LeaveRequest
	err := q.Order("start_date ASC").Find(&out).Error
	return out, err
}

func (r *repository) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	err := r.requests(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.requests(ctx).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountApprovedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.requests(ctx).
		Where("status = ? AND approved_at >= ? AND approved_at < ?", domain.LeaveStatusApproved, from, to).
		Count(&n).Error
	return n, err
}

func (r *repository) ApprovedDaysByType(ctx context.Context) ([]TypeSum, error) {
	var rows []TypeSum
	err := r.requests(ctx).
		Select("leave_type, SUM(total_days) AS total_days, COUNT(*) AS count").
		Where("status = ?", domain.LeaveStatusApproved).
		Group("leave_type").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&leave.Account{}).
		Where("role = ?", domain.RoleEmployee).
		Count(&n).Error
	return n, err
}

func (r *repository) RecentPending(ctx context.Context, limit int) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	err := r.requests(ctx).
		Preload("Account").
		Where("status = ?", domain.LeaveStatusPending).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) TopEmployees(ctx context.Context, limit int) ([]EmployeeUsage, error) {
	var rows []EmployeeUsage
	err := r.requests(ctx).
		Select("leave_requests.user_id, users.name, users.email, SUM(leave_requests.total_days) AS total_days, COUNT(*) AS count").
		Joins("JOIN users ON users.id = leave_requests.user_id").
		Where("leave_requests.status = ?", domain.LeaveStatusApproved).
		Group("leave_requests.user_id, users.name, users.email").
		Order("total_days DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
