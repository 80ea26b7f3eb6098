package auth

import "go-leave/internal/domain"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=2,max=50"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" binding:"omitempty,min=6"`
}

type UserResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Role            string         `json:"role"`
	IsEmailVerified bool           `json:"isEmailVerified"`
	LeaveBalance    domain.Balance `json:"leaveBalance"`
	CreatedAt       string         `json:"createdAt"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
