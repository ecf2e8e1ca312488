package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HostLoginRequest carries the shared host code.
type HostLoginRequest struct {
	Code      string `json:"code" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// HostLoginResponse returns the issued host token.
type HostLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// HostClaims is the JWT payload for host access tokens.
type HostClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
