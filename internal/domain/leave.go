package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// day counts are rendered as JSON numbers (1.5, not "1.5")
	decimal.MarshalJSONWithoutQuotes = true
}

type LeaveType string

const (
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeCasual   LeaveType = "casual"
	LeaveTypeVacation LeaveType = "vacation"
)

// LeaveTypes lists every leave type in display order.
var LeaveTypes = []LeaveType{LeaveTypeSick, LeaveTypeCasual, LeaveTypeVacation}

func ParseLeaveType(v string) (LeaveType, error) {
	t := LeaveType(v)
	if !t.Valid() {
		return "", fmt.Errorf("unknown leave type %q", v)
	}
	return t, nil
}

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeSick, LeaveTypeCasual, LeaveTypeVacation:
		return true
	default:
		return false
	}
}

// BalanceColumn returns the users table column holding the balance for t.
// It panics on an unknown type; callers validate first.
func (t LeaveType) BalanceColumn() string {
	switch t {
	case LeaveTypeSick:
		return "sick_leave_balance"
	case LeaveTypeCasual:
		return "casual_leave_balance"
	case LeaveTypeVacation:
		return "vacation_leave_balance"
	default:
		panic(fmt.Sprintf("domain: no balance column for leave type %q", string(t)))
	}
}

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveStatuses lists every status in display order.
var LeaveStatuses = []LeaveStatus{LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected}

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed out of s.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

var (
	halfDay = decimal.NewFromFloat(0.5)
	two     = decimal.NewFromInt(2)
)

// ValidDays reports whether d is at least half a day and a multiple of half a day.
func ValidDays(d decimal.Decimal) bool {
	if d.LessThan(halfDay) {
		return false
	}
	return d.Mul(two).IsInteger()
}

// Balance is the remaining entitlement in days per leave type.
type Balance struct {
	Sick     decimal.Decimal `json:"sick"`
	Casual   decimal.Decimal `json:"casual"`
	Vacation decimal.Decimal `json:"vacation"`
}

func (b Balance) For(t LeaveType) decimal.Decimal {
	switch t {
	case LeaveTypeSick:
		return b.Sick
	case LeaveTypeCasual:
		return b.Casual
	case LeaveTypeVacation:
		return b.Vacation
	default:
		return decimal.Zero
	}
}

// Covers reports whether the balance for t is at least days.
func (b Balance) Covers(t LeaveType, days decimal.Decimal) bool {
	return b.For(t).GreaterThanOrEqual(days)
}
