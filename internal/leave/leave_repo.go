package leave

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-leave/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindFilter is the parsed form of ListFilter.
type FindFilter struct {
	UserID       *uuid.UUID
	Status       domain.LeaveStatus
	LeaveType    domain.LeaveType
	EmployeeName string
	StartFrom    *time.Time
	StartTo      *time.Time
	Limit        int
	Offset       int
}

// Decision is what MarkDecided writes onto a pending request.
type Decision struct {
	Status         domain.LeaveStatus
	ManagerComment string
	ApprovedBy     uuid.UUID
	ApprovedAt     time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter FindFilter) ([]LeaveRequest, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkDecided(ctx context.Context, id uuid.UUID, d Decision) (bool, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	DeductBalance(ctx context.Context, userID uuid.UUID, leaveType domain.LeaveType, days decimal.Decimal) (bool, error)
	ListManagers(ctx context.Context) ([]Account, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes statements through the bound *sql.Tx when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Preload("Account").
		Preload("Approver").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAll(ctx context.Context, filter FindFilter) ([]LeaveRequest, int64, error) {
	scoped := func() *gorm.DB {
		db := r.conn(ctx).Model(&LeaveRequest{})
		if filter.UserID != nil {
			db = db.Where("leave_requests.user_id = ?", *filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("leave_requests.status = ?", filter.Status)
		}
		if filter.LeaveType != "" {
			db = db.Where("leave_requests.leave_type = ?", filter.LeaveType)
		}
		if filter.StartFrom != nil {
			db = db.Where("leave_requests.start_date >= ?", *filter.StartFrom)
		}
		if filter.StartTo != nil {
			db = db.Where("leave_requests.start_date <= ?", *filter.StartTo)
		}
		if name := strings.TrimSpace(filter.EmployeeName); name != "" {
			db = db.Joins("JOIN users ON users.id = leave_requests.user_id").
				Where("LOWER(users.name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}
		return db
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := scoped().
		Preload("Account").
		Preload("Approver").
		Order("leave_requests.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

// MarkDecided only touches a request that is still pending.
func (r *repository) MarkDecided(ctx context.Context, id uuid.UUID, d Decision) (bool, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, domain.LeaveStatusPending).
		Updates(map[string]any{
			"status":          d.Status,
			"manager_comment": d.ManagerComment,
			"approved_by":     d.ApprovedBy,
			"approved_at":     d.ApprovedAt,
			"updated_at":      d.ApprovedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	var a Account
	if err := r.conn(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// DeductBalance decrements the balance only when it covers days, so it
// never goes negative even when two approvals race.
func (r *repository) DeductBalance(ctx context.Context, userID uuid.UUID, leaveType domain.LeaveType, days decimal.Decimal) (bool, error) {
	col := leaveType.BalanceColumn()
	res := r.conn(ctx).
		Model(&Account{}).
		Where("id = ?", userID).
		Where(col+" >= ?", days).
		UpdateColumn(col, gorm.Expr(col+" - ?", days))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListManagers(ctx context.Context) ([]Account, error) {
	var managers []Account
	err := r.conn(ctx).
		Where("role = ?", domain.RoleManager).
		Order("created_at ASC").
		Find(&managers).Error
	return managers, err
}
