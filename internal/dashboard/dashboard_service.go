package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	dashboarderrors "go-leave/internal/dashboard/errors"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	upcomingLimit      = 5
	recentLimit        = 5
	recentPendingLimit = 10
	topEmployeesLimit  = 5
	trendMonths        = 6

	managerCacheKey = "dashboard:manager"
	managerCacheTTL = 30 * time.Second
	managerBuildTTL = 10 * time.Second
)

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Employee(ctx context.Context, userID string) (EmployeeDashboard, error)
	Manager(ctx context.Context) (ManagerDashboard, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds the dashboard service. rdb may be nil, in which case the
// manager view is always computed from the database.
func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
		now:    time.Now,
	}
}

func (s *service) Employee(ctx context.Context, userID string) (EmployeeDashboard, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return EmployeeDashboard{}, dashboarderrors.ErrInvalidUserID
	}

	account, err := s.repo.GetAccount(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDashboard{}, dashboarderrors.ErrAccountNotFound
		}
		return EmployeeDashboard{}, s.fail("employee dashboard account", err)
	}

	all, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return EmployeeDashboard{}, s.fail("employee dashboard requests", err)
	}

	today := startOfDay(s.now())
	upcoming, err := s.repo.UpcomingApproved(ctx, uid, today, upcomingLimit)
	if err != nil {
		return EmployeeDashboard{}, s.fail("employee dashboard upcoming", err)
	}
	approved, err := s.repo.ApprovedStartingSince(ctx, &uid, today.AddDate(0, -trendMonths, 0))
	if err != nil {
		return EmployeeDashboard{}, s.fail("employee dashboard trend", err)
	}
	recent, err := s.repo.RecentByUser(ctx, uid, recentLimit)
	if err != nil {
		return EmployeeDashboard{}, s.fail("employee dashboard recent", err)
	}

	return EmployeeDashboard{
		LeaveBalance:   account.Balance(),
		Stats:          employeeStats(all),
		UpcomingLeaves: leave.ToListResponse(upcoming),
		MonthlyTrend:   monthlyTrend(approved),
		RecentRequests: leave.ToListResponse(recent),
	}, nil
}

func (s *service) Manager(ctx context.Context) (ManagerDashboard, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, managerCacheKey).Bytes()
		if err == nil {
			var resp ManagerDashboard
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
		}
	}

	// The shared build outlives any single caller, so it runs detached from
	// the first request's cancellation with its own deadline.
	ch := s.sf.DoChan(managerCacheKey, func() (interface{}, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), managerBuildTTL)
		defer cancel()

		resp, err := s.buildManager(buildCtx)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(buildCtx, managerCacheKey, payload, managerCacheTTL).Err(); err != nil {
					s.logger.Warn("cache manager dashboard failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return ManagerDashboard{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return ManagerDashboard{}, res.Err
		}
		if res.Shared {
			s.logger.Debug("manager dashboard served from shared computation")
		}
		return res.Val.(ManagerDashboard), nil
	}
}

func (s *service) buildManager(ctx context.Context) (ManagerDashboard, error) {
	now := s.now()
	today := startOfDay(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		resp     ManagerDashboard
		statuses []StatusCount
		byType   []TypeSum
		approved []leave.LeaveRequest
		pending  []leave.LeaveRequest
		top      []EmployeeUsage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		statuses, err = s.repo.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Stats.ApprovedToday, err = s.repo.CountApprovedBetween(gctx, today, today.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() (err error) {
		resp.Stats.ApprovedThisMonth, err = s.repo.CountApprovedBetween(gctx, monthStart, monthStart.AddDate(0, 1, 0))
		return err
	})
	g.Go(func() (err error) {
		resp.Stats.TotalEmployees, err = s.repo.CountEmployees(gctx)
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.repo.ApprovedDaysByType(gctx)
		return err
	})
	g.Go(func() (err error) {
		approved, err = s.repo.ApprovedStartingSince(gctx, nil, today.AddDate(0, -trendMonths, 0))
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.repo.RecentPending(gctx, recentPendingLimit)
		return err
	})
	g.Go(func() (err error) {
		top, err = s.repo.TopEmployees(gctx, topEmployeesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return ManagerDashboard{}, s.fail("manager dashboard", err)
	}

	for _, row := range statuses {
		resp.LeavesByStatus.add(row.Status, row.Count)
	}
	resp.Stats.PendingCount = resp.LeavesByStatus.Pending
	resp.LeavesByType = zeroTotals()
	for _, row := range byType {
		resp.LeavesByType.add(row.LeaveType, row.TotalDays)
	}
	resp.MonthlyTrend = monthlyTrend(approved)
	resp.RecentPendingRequests = leave.ToListResponse(pending)
	resp.TopEmployees = make([]TopEmployee, len(top))
	for i, row := range top {
		resp.TopEmployees[i] = TopEmployee{
			Employee:  leave.AccountSummary{ID: row.UserID.String(), Name: row.Name, Email: row.Email},
			TotalDays: row.TotalDays,
			Count:     row.Count,
		}
	}
	return resp, nil
}

func (s *service) fail(what string, err error) error {
	s.logger.Error(what+" failed", zap.Error(err))
	e := dashboarderrors.ErrDashboardUnavailable
	return apperror.Wrap(err, e.Code, e.Message, e.HTTPStatus)
}

func employeeStats(requests []leave.LeaveRequest) EmployeeStats {
	stats := EmployeeStats{TotalLeavesTaken: decimal.Zero, LeavesByType: zeroTotals()}
	for _, l := range requests {
		if l.Status == domain.LeaveStatusApproved {
			stats.TotalLeavesTaken = stats.TotalLeavesTaken.Add(l.TotalDays)
			stats.LeavesByType.add(l.LeaveType, l.TotalDays)
		}
		stats.LeavesByStatus.add(l.Status, 1)
	}
	return stats
}

// monthlyTrend buckets requests by the calendar month of their start date,
// oldest month first.
func monthlyTrend(requests []leave.LeaveRequest) []MonthlyPoint {
	buckets := make(map[string]*MonthlyPoint)
	for _, l := range requests {
		key := l.StartDate.UTC().Format("2006-01")
		p, ok := buckets[key]
		if !ok {
			p = &MonthlyPoint{Month: key, TotalDays: decimal.Zero}
			buckets[key] = p
		}
		p.TotalDays = p.TotalDays.Add(l.TotalDays)
		p.Count++
	}

	out := make([]MonthlyPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func zeroTotals() TypeTotals {
	return TypeTotals{Sick: decimal.Zero, Casual: decimal.Zero, Vacation: decimal.Zero}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
