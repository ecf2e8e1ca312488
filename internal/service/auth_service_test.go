package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/theshortlist/shortlist-api/internal/models"
	"github.com/theshortlist/shortlist-api/pkg/config"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

func hostAuthConfig(t *testing.T, code string) config.HostAuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return config.HostAuthConfig{
		AdminCodeHash: string(hash),
		TokenSecret:   "test_secret",
		TokenExpiry:   time.Hour,
	}
}

func TestHostLoginIssuesValidToken(t *testing.T) {
	audit := &stubAuditLog{}
	svc := NewAuthService(hostAuthConfig(t, "open-sesame"), audit, validator.New(), zap.NewNop())

	resp, err := svc.Login(context.Background(), models.HostLoginRequest{Code: "open-sesame"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "host", claims.Role)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionHostLogin, audit.logs[0].Action)
}

func TestHostLoginWrongCode(t *testing.T) {
	svc := NewAuthService(hostAuthConfig(t, "open-sesame"), nil, validator.New(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.HostLoginRequest{Code: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestHostLoginMissingCode(t *testing.T) {
	svc := NewAuthService(hostAuthConfig(t, "open-sesame"), nil, validator.New(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.HostLoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHostLoginUnconfigured(t *testing.T) {
	svc := NewAuthService(config.HostAuthConfig{TokenSecret: "s", TokenExpiry: time.Hour}, nil, validator.New(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.HostLoginRequest{Code: "anything"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(hostAuthConfig(t, "open-sesame"), nil, validator.New(), zap.NewNop())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(hostAuthConfig(t, "open-sesame"), nil, validator.New(), zap.NewNop())
	resp, err := issuer.Login(context.Background(), models.HostLoginRequest{Code: "open-sesame"})
	require.NoError(t, err)

	other := NewAuthService(config.HostAuthConfig{AdminCodeHash: "x", TokenSecret: "different", TokenExpiry: time.Hour}, nil, validator.New(), zap.NewNop())
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
