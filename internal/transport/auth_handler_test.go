package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"catalog-api/internal/apperror"
	"catalog-api/internal/domain"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthRouter(svc *stubAuthService) http.Handler {
	r := chi.NewRouter()
	NewAuthHandler(svc, zap.NewNop()).RegisterRoutes(r, passthrough)
	return r
}

func decodeLoginResult(t *testing.T, body []byte) domain.LoginResult {
	t.Helper()
	var result domain.LoginResult
	require.NoError(t, json.Unmarshal(body, &result))
	return result
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	svc := &stubAuthService{result: &domain.LoginResult{Message: service.MsgLoginSuccess, Token: "signed.jwt.token"}}
	router := newAuthRouter(svc)

	w := doJSON(t, router, "POST", "/api/auth/login", LoginRequest{Username: "testuser", Password: "Test123"})

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeLoginResult(t, w.Body.Bytes())
	assert.Equal(t, service.MsgLoginSuccess, result.Message)
	assert.Equal(t, "signed.jwt.token", result.Token)
}

func TestAuthHandler_RejectionsAreUnauthorized(t *testing.T) {
	for _, msg := range []string{service.MsgInvalidCredentials, service.MsgAccountLocked} {
		svc := &stubAuthService{err: apperror.Unauthorized(msg)}
		router := newAuthRouter(svc)

		w := doJSON(t, router, "POST", "/api/auth/login", LoginRequest{Username: "testuser", Password: "wrong-password"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		result := decodeLoginResult(t, w.Body.Bytes())
		assert.Equal(t, msg, result.Message)
		assert.Empty(t, result.Token)
	}
}

func TestAuthHandler_InternalFailure(t *testing.T) {
	svc := &stubAuthService{err: apperror.Internal("failed to find user", errors.New("connection refused"))}
	router := newAuthRouter(svc)

	w := doJSON(t, router, "POST", "/api/auth/login", LoginRequest{Username: "testuser", Password: "Test123"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestProperty_InvalidLoginRequestsNeverReachService(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("short credentials are rejected with a field message", prop.ForAll(
		func(usernameLen int, passwordLen int) bool {
			svc := &stubAuthService{result: &domain.LoginResult{Message: service.MsgLoginSuccess}}
			router := newAuthRouter(svc)

			w := doJSON(t, router, "POST", "/api/auth/login", LoginRequest{
				Username: strings.Repeat("u", usernameLen),
				Password: strings.Repeat("p", passwordLen),
			})

			var result domain.LoginResult
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				return false
			}
			return w.Code == http.StatusUnauthorized && svc.calls == 0 && result.Message != "" && result.Token == ""
		},
		gen.IntRange(0, 2),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthHandler_MalformedBody(t *testing.T) {
	svc := &stubAuthService{}
	router := newAuthRouter(svc)

	w := doJSON(t, router, "POST", "/api/auth/login", "not an object")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid request body", decodeLoginResult(t, w.Body.Bytes()).Message)
	assert.Equal(t, 0, svc.calls)
}
