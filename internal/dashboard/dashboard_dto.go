package dashboard

import (
	"go-leave/internal/domain"
	"go-leave/internal/leave"

	"github.com/shopspring/decimal"
)

// TypeTotals holds approved days per leave type.
type TypeTotals struct {
	Sick     decimal.Decimal `json:"sick"`
	Casual   decimal.Decimal `json:"casual"`
	Vacation decimal.Decimal `json:"vacation"`
}

func (t *TypeTotals) add(lt domain.LeaveType, days decimal.Decimal) {
	switch lt {
	case domain.LeaveTypeSick:
		t.Sick = t.Sick.Add(days)
	case domain.LeaveTypeCasual:
		t.Casual = t.Casual.Add(days)
	case domain.LeaveTypeVacation:
		t.Vacation = t.Vacation.Add(days)
	}
}

type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func (s *StatusCounts) add(st domain.LeaveStatus, n int64) {
	switch st {
	case domain.LeaveStatusPending:
		s.Pending += n
	case domain.LeaveStatusApproved:
		s.Approved += n
	case domain.LeaveStatusRejected:
		s.Rejected += n
	}
}

type MonthlyPoint struct {
	Month     string          `json:"month"`
	TotalDays decimal.Decimal `json:"totalDays"`
	Count     int64           `json:"count"`
}

type EmployeeStats struct {
	TotalLeavesTaken decimal.Decimal `json:"totalLeavesTaken"`
	LeavesByType     TypeTotals      `json:"leavesByType"`
	LeavesByStatus   StatusCounts    `json:"leavesByStatus"`
}

type EmployeeDashboard struct {
	LeaveBalance   domain.Balance        `json:"leaveBalance"`
	Stats          EmployeeStats         `json:"stats"`
	UpcomingLeaves []leave.LeaveResponse `json:"upcomingLeaves"`
	MonthlyTrend   []MonthlyPoint        `json:"monthlyTrend"`
	RecentRequests []leave.LeaveResponse `json:"recentRequests"`
}

type ManagerStats struct {
	PendingCount      int64 `json:"pendingCount"`
	ApprovedToday     int64 `json:"approvedToday"`
	ApprovedThisMonth int64 `json:"approvedThisMonth"`
	TotalEmployees    int64 `json:"totalEmployees"`
}

type TopEmployee struct {
	Employee  leave.AccountSummary `json:"employee"`
	TotalDays decimal.Decimal      `json:"totalDays"`
	Count     int64                `json:"count"`
}

type ManagerDashboard struct {
	Stats                 ManagerStats          `json:"stats"`
	LeavesByType          TypeTotals            `json:"leavesByType"`
	LeavesByStatus        StatusCounts          `json:"leavesByStatus"`
	MonthlyTrend          []MonthlyPoint        `json:"monthlyTrend"`
	RecentPendingRequests []leave.LeaveResponse `json:"recentPendingRequests"`
	TopEmployees          []TopEmployee         `json:"topEmployees"`
}
