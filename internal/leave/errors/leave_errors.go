package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeValidation,
		"Leave type must be sick, casual, or vacation",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeValidation,
		"Status must be pending, approved, or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidation,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrStartDateInPast = apperror.New(
		apperror.CodeValidation,
		"Start date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidation,
		"End date must be after or equal to start date",
		http.StatusBadRequest,
	)
	ErrInvalidTotalDays = apperror.New(
		apperror.CodeValidation,
		"Total days must be at least 0.5 in half-day steps",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeValidation,
		"Reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrReasonTooLong = apperror.New(
		apperror.CodeValidation,
		"Reason must not exceed 500 characters",
		http.StatusBadRequest,
	)
	ErrManagerCommentRequired = apperror.New(
		apperror.CodeValidation,
		"Manager comment is required",
		http.StatusBadRequest,
	)
	ErrManagerCommentTooShort = apperror.New(
		apperror.CodeValidation,
		"Comment must be at least 5 characters",
		http.StatusBadRequest,
	)
	ErrManagerCommentTooLong = apperror.New(
		apperror.CodeValidation,
		"Comment must not exceed 500 characters",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"Insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrNotLeaveOwner = apperror.New(
		apperror.CodeForbidden,
		"Not authorized to cancel this leave request",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Leave request is no longer pending",
		http.StatusBadRequest,
	)
)
