package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wahret-zmen/internal/middleware"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T, password string) AuthService {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return NewAuthService("admin", hash, testSecret, time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	s := newTestAuthService(t, "s3cret-pass")

	token, expiresAt, err := s.Login(context.Background(), "admin", "s3cret-pass")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, middleware.RoleAdmin, claims.Role)

	_, _, err = s.Login(context.Background(), "root", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_NoPasswordConfigured(t *testing.T) {
	s := NewAuthService("admin", "", testSecret, time.Hour)
	_, _, err := s.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ValidateTokenRejectsOtherSecret(t *testing.T) {
	s := newTestAuthService(t, "s3cret-pass")
	token, _, err := s.Login(context.Background(), "admin", "s3cret-pass")
	require.NoError(t, err)

	other := NewAuthService("admin", "", "other-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

// The dashboard routes accept the tokens issued at login.
func TestAuthService_TokenPassesAdminMiddleware(t *testing.T) {
	s := newTestAuthService(t, "s3cret-pass")
	token, _, err := s.Login(context.Background(), "admin", "s3cret-pass")
	require.NoError(t, err)

	handler := middleware.AuthMiddleware(testSecret, zap.NewNop())(middleware.RequireAdmin(zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	))

	req := httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

// Feature: storefront, Property 23: Admin passwords are stored as bcrypt hashes
func TestProperty_PasswordsAreHashed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("hash differs from the password and verifies it", prop.ForAll(
		func(password string) bool {
			hash, err := HashPassword(password)
			if err != nil || hash == password {
				return false
			}
			cost, err := bcrypt.Cost([]byte(hash))
			if err != nil || cost != BcryptCost {
				return false
			}
			return VerifyPassword(hash, password) == nil && VerifyPassword(hash, password+"x") != nil
		},
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
