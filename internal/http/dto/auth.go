package dto

import (
	"time"

	"loopline.app/server/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// SessionResponse carries the opaque bearer token; clients without cookie
// support send it back in the X-Session-Token header.
type SessionResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

func ToSessionResponse(user *model.User, session *model.Session) *SessionResponse {
	return &SessionResponse{
		User:      ToUserResponse(user),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
