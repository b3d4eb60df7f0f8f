package models

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	UserID      string    `json:"user_id"`
	TenantID    *string   `json:"tenant_id"`
	Role        string    `json:"role"`
	TokenID     string    `json:"token_id"`
	IssuedAt    time.Time `json:"issued_at"`
}

// StatusChangeRequest is the body of the dedicated status endpoints.
type StatusChangeRequest struct {
	Status string `json:"status" validate:"required"`
}

// LogoResponse is returned by a branding upload.
type LogoResponse struct {
	LogoKey string `json:"logo_key"`
	URL     string `json:"url"`
}
