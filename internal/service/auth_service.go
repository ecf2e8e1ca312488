package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/theshortlist/shortlist-api/internal/models"
	"github.com/theshortlist/shortlist-api/pkg/config"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type authAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuthService authenticates the event host. There is a single shared host
// code, stored as a bcrypt hash; a successful login issues a short-lived JWT
// for the operator surface.
type AuthService struct {
	config    config.HostAuthConfig
	audit     authAuditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.HostAuthConfig, audit authAuditLogger, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: cfg, audit: audit, validator: validate, logger: logger}
}

// Login checks the host code and issues an access token.
func (s *AuthService) Login(ctx context.Context, req models.HostLoginRequest) (*models.HostLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if s.config.AdminCodeHash == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "host auth is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminCodeHash), []byte(req.Code)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid host code")
	}

	now := time.Now().UTC()
	claims := &models.HostClaims{
		Role: "host",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "host",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign host token")
	}

	if s.audit != nil {
		payload, _ := json.Marshal(map[string]string{"status": "success"})
		if err := s.audit.Create(ctx, &models.AuditLog{
			Actor:     "host",
			Action:    models.AuditActionHostLogin,
			Resource:  "auth",
			Payload:   payload,
			IPAddress: req.IP,
			UserAgent: req.UserAgent,
		}); err != nil {
			s.logger.Warn("failed to record login audit log", zap.Error(err))
		}
	}

	return &models.HostLoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    now,
	}, nil
}

// ValidateToken parses and verifies a host access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.HostClaims, error) {
	claims := &models.HostClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
