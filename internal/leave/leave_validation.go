package leave

import (
	"strings"
	"time"
	"unicode/utf8"

	"go-leave/internal/domain"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/response"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"

	reasonMinLen  = 10
	reasonMaxLen  = 500
	commentMinLen = 5
	commentMaxLen = 500

	defaultApproveComment = "Approved"
)

type applyInput struct {
	leaveType domain.LeaveType
	startDate time.Time
	endDate   time.Time
	totalDays decimal.Decimal
	reason    string
}

func validateApply(req ApplyLeaveRequest, now time.Time) (applyInput, error) {
	leaveType, err := domain.ParseLeaveType(req.LeaveType)
	if err != nil {
		return applyInput{}, leaveerrors.ErrInvalidLeaveType
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return applyInput{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return applyInput{}, err
	}
	if start.Before(startOfDay(now)) {
		return applyInput{}, leaveerrors.ErrStartDateInPast
	}
	if end.Before(start) {
		return applyInput{}, leaveerrors.ErrInvalidDateRange
	}

	if req.TotalDays == nil || !domain.ValidDays(*req.TotalDays) {
		return applyInput{}, leaveerrors.ErrInvalidTotalDays
	}

	reason := strings.TrimSpace(req.Reason)
	switch n := utf8.RuneCountInString(reason); {
	case n < reasonMinLen:
		return applyInput{}, leaveerrors.ErrReasonTooShort
	case n > reasonMaxLen:
		return applyInput{}, leaveerrors.ErrReasonTooLong
	}

	return applyInput{
		leaveType: leaveType,
		startDate: start,
		endDate:   end,
		totalDays: *req.TotalDays,
		reason:    reason,
	}, nil
}

// approveComment falls back to a fixed comment; reject has no such default.
func approveComment(raw string) (string, error) {
	comment := strings.TrimSpace(raw)
	if comment == "" {
		return defaultApproveComment, nil
	}
	if utf8.RuneCountInString(comment) > commentMaxLen {
		return "", leaveerrors.ErrManagerCommentTooLong
	}
	return comment, nil
}

func rejectComment(raw string) (string, error) {
	comment := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(comment); {
	case n == 0:
		return "", leaveerrors.ErrManagerCommentRequired
	case n < commentMinLen:
		return "", leaveerrors.ErrManagerCommentTooShort
	case n > commentMaxLen:
		return "", leaveerrors.ErrManagerCommentTooLong
	}
	return comment, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp and keeps
// only the UTC calendar day.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return startOfDay(t), nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseListFilter(f ListFilter) (FindFilter, error) {
	out := FindFilter{
		EmployeeName: strings.TrimSpace(f.EmployeeName),
		Limit:        f.Limit,
		Offset:       response.Offset(f.Page, f.Limit),
	}
	if out.Offset < 0 {
		out.Offset = 0
	}

	if f.Status != "" {
		status := domain.LeaveStatus(f.Status)
		if !status.Valid() {
			return FindFilter{}, leaveerrors.ErrInvalidStatus
		}
		out.Status = status
	}
	if f.LeaveType != "" {
		t, err := domain.ParseLeaveType(f.LeaveType)
		if err != nil {
			return FindFilter{}, leaveerrors.ErrInvalidLeaveType
		}
		out.LeaveType = t
	}
	if f.StartFrom != "" {
		t, err := parseDate(f.StartFrom)
		if err != nil {
			return FindFilter{}, err
		}
		out.StartFrom = &t
	}
	if f.StartTo != "" {
		t, err := parseDate(f.StartTo)
		if err != nil {
			return FindFilter{}, err
		}
		out.StartTo = &t
	}
	return out, nil
}
