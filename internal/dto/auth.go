package dto

import "time"

// LoginRequest represents the credentials of a board member.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExchangeCodeRequest carries the authorization code returned by Google.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}
