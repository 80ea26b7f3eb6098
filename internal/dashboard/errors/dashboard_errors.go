package dashboarderrors

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
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrDashboardUnavailable = apperror.New(
		apperror.CodeInternalError,
		"Error fetching dashboard data",
		http.StatusInternalServerError,
	)
)
