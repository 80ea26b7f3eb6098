package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/notification"
	"go-leave/internal/shared/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error)
	GetMyRequests(ctx context.Context, userID string, filter ListFilter) (ListResult, error)
	Cancel(ctx context.Context, userID, id string) error
	GetBalance(ctx context.Context, userID string) (BalanceResponse, error)
	GetAll(ctx context.Context, filter ListFilter) (ListResult, error)
	GetPending(ctx context.Context, filter ListFilter) (ListResult, error)
	Approve(ctx context.Context, managerID, id string, req ManagerActionRequest) (LeaveResponse, error)
	Reject(ctx context.Context, managerID, id string, req ManagerActionRequest) (LeaveResponse, error)
}

type Config struct {
	FrontendURL string
}

type service struct {
	db         *sql.DB
	repo       Repository
	dispatcher notification.Dispatcher
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(db *sql.DB, repo Repository, dispatcher notification.Dispatcher, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, dispatcher: dispatcher, cfg: cfg, logger: l, now: time.Now}
}

func (s *service) Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (resp LeaveResponse, err error) {
	defer func() { metrics.RecordLeaveTransition("apply", err) }()

	uid, err := uuid.Parse(userID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}
	in, err := validateApply(req, s.now())
	if err != nil {
		s.logger.Warn("apply leave validation failed", zap.String("user_id", userID), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Debug("apply leave requested",
		zap.String("user_id", userID),
		zap.String("leave_type", string(in.leaveType)),
		zap.String("total_days", in.totalDays.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	account, err := qtx.GetAccount(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrAccountNotFound
		}
		return LeaveResponse{}, err
	}

	balance := account.Balance()
	if !balance.Covers(in.leaveType, in.totalDays) {
		available := balance.For(in.leaveType)
		s.logger.Warn("apply leave insufficient balance",
			zap.String("user_id", userID),
			zap.String("leave_type", string(in.leaveType)),
			zap.String("available", available.String()),
			zap.String("requested", in.totalDays.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance.Withf(
			"Insufficient %s leave balance. Available: %s days", in.leaveType, available.String())
	}

	l := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    uid,
		LeaveType: in.leaveType,
		StartDate: in.startDate,
		EndDate:   in.endDate,
		TotalDays: in.totalDays,
		Reason:    in.reason,
		Status:    domain.LeaveStatusPending,
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", userID),
	)

	l.Account = account
	s.notifyManagersApplied(ctx, *l, *account)

	return ToResponse(*l), nil
}

func (s *service) notifyManagersApplied(ctx context.Context, l LeaveRequest, employee Account) {
	managers, err := s.repo.ListManagers(ctx)
	if err != nil {
		s.logger.Error("list managers for notification failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
	}

	recipients := make([]uuid.UUID, 0, len(managers))
	for _, m := range managers {
		recipients = append(recipients, m.ID)
	}
	var to []string
	if len(managers) > 0 {
		to = []string{managers[0].Email}
	}

	s.dispatcher.Dispatch(ctx, notification.Notice{
		Type:           notification.TypeLeaveApplied,
		Message:        fmt.Sprintf("%s has applied for %s leave", employee.Name, l.LeaveType),
		LeaveRequestID: &l.ID,
		Recipients:     recipients,
		Email: &notification.EmailRequest{
			Template: events.TemplateLeaveApplied,
			Subject:  fmt.Sprintf("New leave request from %s", employee.Name),
			To:       to,
			Data: map[string]any{
				"EmployeeName": employee.Name,
				"LeaveType":    string(l.LeaveType),
				"StartDate":    l.StartDate.Format(dateLayout),
				"EndDate":      l.EndDate.Format(dateLayout),
				"TotalDays":    l.TotalDays.String(),
				"Reason":       l.Reason,
				"ReviewURL":    s.link("/manager/pending"),
			},
		},
	})
}

func (s *service) GetMyRequests(ctx context.Context, userID string, filter ListFilter) (ListResult, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ListResult{}, leaveerrors.ErrInvalidUserID
	}
	f, err := parseListFilter(filter)
	if err != nil {
		return ListResult{}, err
	}
	f.UserID = &uid
	f.EmployeeName = ""
	return s.list(ctx, f)
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) (ListResult, error) {
	f, err := parseListFilter(filter)
	if err != nil {
		return ListResult{}, err
	}
	return s.list(ctx, f)
}

func (s *service) GetPending(ctx context.Context, filter ListFilter) (ListResult, error) {
	f, err := parseListFilter(filter)
	if err != nil {
		return ListResult{}, err
	}
	f.Status = domain.LeaveStatusPending
	f.StartFrom, f.StartTo = nil, nil
	return s.list(ctx, f)
}

func (s *service) list(ctx context.Context, f FindFilter) (ListResult, error) {
	requests, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("list leave requests failed", zap.Error(err))
		return ListResult{}, err
	}
	return ListResult{LeaveRequests: ToListResponse(requests), Total: total}, nil
}

func (s *service) GetBalance(ctx context.Context, userID string) (BalanceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidUserID
	}
	account, err := s.repo.GetAccount(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrAccountNotFound
		}
		return BalanceResponse{}, err
	}
	return BalanceResponse{LeaveBalance: account.Balance()}, nil
}

func (s *service) Cancel(ctx context.Context, userID, id string) (err error) {
	defer func() { metrics.RecordLeaveTransition("cancel", err) }()

	uid, err := uuid.Parse(userID)
	if err != nil {
		return leaveerrors.ErrInvalidUserID
	}
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if l.UserID != uid {
		s.logger.Warn("cancel leave by non-owner",
			zap.String("leave_id", id),
			zap.String("user_id", userID),
		)
		return leaveerrors.ErrNotLeaveOwner
	}
	if l.Status != domain.LeaveStatusPending {
		return leaveerrors.ErrInvalidStatusTransition.Withf("Cannot cancel %s leave request", l.Status)
	}

	if err := qtx.Delete(ctx, leaveID); err != nil {
		s.logger.Error("cancel leave delete failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("cancel leave success", zap.String("leave_id", id), zap.String("user_id", userID))

	s.notifyManagersCancelled(ctx, *l)
	return nil
}

func (s *service) notifyManagersCancelled(ctx context.Context, l LeaveRequest) {
	name := "An employee"
	if account, err := s.repo.GetAccount(ctx, l.UserID); err == nil {
		name = account.Name
	}

	managers, err := s.repo.ListManagers(ctx)
	if err != nil {
		s.logger.Error("list managers for notification failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return
	}
	recipients := make([]uuid.UUID, 0, len(managers))
	for _, m := range managers {
		recipients = append(recipients, m.ID)
	}

	// the request row is gone, so no leave reference is attached
	s.dispatcher.Dispatch(ctx, notification.Notice{
		Type:       notification.TypeLeaveCancelled,
		Message:    fmt.Sprintf("%s cancelled their %s leave request", name, l.LeaveType),
		Recipients: recipients,
	})
}

func (s *service) Approve(ctx context.Context, managerID, id string, req ManagerActionRequest) (resp LeaveResponse, err error) {
	defer func() { metrics.RecordLeaveTransition("approve", err) }()

	comment, err := approveComment(req.ManagerComment)
	if err != nil {
		return LeaveResponse{}, err
	}
	return s.decide(ctx, managerID, id, domain.LeaveStatusApproved, comment)
}

func (s *service) Reject(ctx context.Context, managerID, id string, req ManagerActionRequest) (resp LeaveResponse, err error) {
	defer func() { metrics.RecordLeaveTransition("reject", err) }()

	comment, err := rejectComment(req.ManagerComment)
	if err != nil {
		return LeaveResponse{}, err
	}
	return s.decide(ctx, managerID, id, domain.LeaveStatusRejected, comment)
}

// decide moves a pending request to a terminal status. Approval deducts the
// balance in the same transaction and fails without side effects when the
// balance no longer covers the request.
func (s *service) decide(ctx context.Context, managerID, id string, target domain.LeaveStatus, comment string) (LeaveResponse, error) {
	approverID, err := uuid.Parse(managerID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("manager_id", managerID),
		zap.String("target_status", string(target)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status.Terminal() {
		s.logger.Warn("decide leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", string(l.Status)),
			zap.String("to_status", string(target)),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition.Withf("Leave request is already %s", l.Status)
	}

	decidedAt := s.now().UTC()
	changed, err := qtx.MarkDecided(ctx, leaveID, Decision{
		Status:         target,
		ManagerComment: comment,
		ApprovedBy:     approverID,
		ApprovedAt:     decidedAt,
	})
	if err != nil {
		s.logger.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !changed {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	account, err := qtx.GetAccount(ctx, l.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrAccountNotFound
		}
		return LeaveResponse{}, err
	}

	if target == domain.LeaveStatusApproved {
		deducted, err := qtx.DeductBalance(ctx, l.UserID, l.LeaveType, l.TotalDays)
		if err != nil {
			s.logger.Error("decide leave deduct failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
		if !deducted {
			available := account.Balance().For(l.LeaveType)
			s.logger.Warn("approve leave insufficient balance",
				zap.String("leave_id", id),
				zap.String("available", available.String()),
				zap.String("requested", l.TotalDays.String()),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance.Withf(
				"Insufficient %s leave balance. Available: %s days", l.LeaveType, available.String())
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", string(target)),
	)

	l.Status = target
	l.ManagerComment = &comment
	l.ApprovedBy = &approverID
	l.ApprovedAt = &decidedAt
	l.Account = account
	// reload so the response names the approver; the in-memory copy is enough otherwise
	if decided, err := s.repo.FindByID(ctx, leaveID); err == nil {
		l = decided
	} else {
		s.logger.Warn("decide leave reload failed", zap.String("leave_id", id), zap.Error(err))
	}

	s.notifyEmployeeDecided(ctx, *l, *account)

	return ToResponse(*l), nil
}

func (s *service) notifyEmployeeDecided(ctx context.Context, l LeaveRequest, employee Account) {
	notifType := notification.TypeLeaveApproved
	if l.Status == domain.LeaveStatusRejected {
		notifType = notification.TypeLeaveRejected
	}
	comment := ""
	if l.ManagerComment != nil {
		comment = *l.ManagerComment
	}

	s.dispatcher.Dispatch(ctx, notification.Notice{
		Type:           notifType,
		Message:        fmt.Sprintf("Your %s leave request has been %s", l.LeaveType, l.Status),
		LeaveRequestID: &l.ID,
		Recipients:     []uuid.UUID{employee.ID},
		Email: &notification.EmailRequest{
			Template: events.TemplateLeaveStatus,
			Subject:  fmt.Sprintf("Your leave request has been %s", l.Status),
			To:       []string{employee.Email},
			Data: map[string]any{
				"Name":           employee.Name,
				"Status":         string(l.Status),
				"LeaveType":      string(l.LeaveType),
				"StartDate":      l.StartDate.Format(dateLayout),
				"EndDate":        l.EndDate.Format(dateLayout),
				"TotalDays":      l.TotalDays.String(),
				"ManagerComment": comment,
				"URL":            s.link("/my-requests"),
			},
		},
	})
}

func (s *service) link(path string) string {
	return strings.TrimRight(s.cfg.FrontendURL, "/") + path
}

// ToResponse renders a request with whatever relations were loaded.
func ToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:             l.ID.String(),
		UserID:         l.UserID.String(),
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format(dateLayout),
		EndDate:        l.EndDate.Format(dateLayout),
		TotalDays:      l.TotalDays,
		Reason:         l.Reason,
		Status:         l.Status,
		ManagerComment: l.ManagerComment,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
	}
	if l.Account != nil {
		resp.Employee = summarize(*l.Account)
	}
	if l.Approver != nil {
		resp.ApprovedBy = summarize(*l.Approver)
	} else if l.ApprovedBy != nil {
		resp.ApprovedBy = &AccountSummary{ID: l.ApprovedBy.String()}
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func summarize(a Account) *AccountSummary {
	return &AccountSummary{ID: a.ID.String(), Name: a.Name, Email: a.Email}
}

func ToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = ToResponse(l)
	}
	return resp
}
