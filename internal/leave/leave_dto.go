package leave

import (
	"go-leave/internal/domain"

	"github.com/shopspring/decimal"
)

type ApplyLeaveRequest struct {
	LeaveType string           `json:"leaveType" binding:"required"`
	StartDate string           `json:"startDate" binding:"required"`
	EndDate   string           `json:"endDate" binding:"required"`
	TotalDays *decimal.Decimal `json:"totalDays" binding:"required"`
	Reason    string           `json:"reason" binding:"required"`
}

type ManagerActionRequest struct {
	ManagerComment string `json:"managerComment"`
}

// ListFilter narrows leave request listings. Empty fields do not filter.
type ListFilter struct {
	Status       string
	LeaveType    string
	EmployeeName string
	StartFrom    string
	StartTo      string
	Page         int
	Limit        int
}

type AccountSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LeaveResponse struct {
	ID             string             `json:"id"`
	UserID         string             `json:"userId"`
	Employee       *AccountSummary    `json:"employee,omitempty"`
	LeaveType      domain.LeaveType   `json:"leaveType"`
	StartDate      string             `json:"startDate"`
	EndDate        string             `json:"endDate"`
	TotalDays      decimal.Decimal    `json:"totalDays"`
	Reason         string             `json:"reason"`
	Status         domain.LeaveStatus `json:"status"`
	ManagerComment *string            `json:"managerComment,omitempty"`
	ApprovedBy     *AccountSummary    `json:"approvedBy,omitempty"`
	ApprovedAt     *string            `json:"approvedAt,omitempty"`
	CreatedAt      string             `json:"createdAt"`
}

type ListResult struct {
	LeaveRequests []LeaveResponse `json:"leaveRequests"`
	Total         int64           `json:"-"`
}

type BalanceResponse struct {
	LeaveBalance domain.Balance `json:"leaveBalance"`
}
