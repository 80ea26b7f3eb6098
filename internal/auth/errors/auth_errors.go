package autherrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)
	ErrTokenNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"Not authorized, no token",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Not authorized, token failed",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)
	ErrEmailNotVerified = apperror.New(
		apperror.CodeForbidden,
		"Please verify your email address to access this resource",
		http.StatusForbidden,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"User already exists with this email",
		http.StatusConflict,
	)
	ErrVerificationTokenRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Verification token is required",
		http.StatusBadRequest,
	)
	ErrInvalidVerificationToken = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid or expired verification token",
		http.StatusBadRequest,
	)
	ErrCurrentPasswordRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Current password is required to set a new password",
		http.StatusBadRequest,
	)
	ErrCurrentPasswordIncorrect = apperror.New(
		apperror.CodeUnauthorized,
		"Current password is incorrect",
		http.StatusUnauthorized,
	)
	ErrNameTooShort  = apperror.FieldTooShort("Name", "2")
	ErrNameTooLong   = apperror.FieldTooLong("Name", "50")
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
