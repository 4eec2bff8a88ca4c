package dto

import (
	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User user.User `json:"user"`
	jwt.Pair
}
