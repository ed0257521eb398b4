package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-api/internal/config"
	custommiddleware "catalog-api/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDatabase struct {
	health map[string]string
	closed bool
}

func (f *fakeDatabase) DB() *sql.DB { return nil }
func (f *fakeDatabase) Health() map[string]string { return f.health }
func (f *fakeDatabase) Close() error {
	f.closed = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Env: "test"},
		JWT:    config.JWTConfig{Secret: "test-secret", AccessExpiry: 60},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit: config.RateLimitConfig{
			LoginRequests: 2,
			LoginWindow:   time.Minute,
		},
	}
}

func newTestServer(t *testing.T, db *fakeDatabase) (*Server, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewServer(testConfig(), zap.NewNop(), db, redisClient), mr
}

func TestHealthReportsDatabaseStatus(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDatabase{health: map[string]string{"status": "up", "open_connections": "1"}})

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "up", body["status"])

	srv, _ = newTestServer(t, &fakeDatabase{health: map[string]string{"status": "down"}})
	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProductWritesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDatabase{health: map[string]string{"status": "up"}})

	for _, tc := range []struct{ method, path string }{
		{"POST", "/api/products"},
		{"PUT", "/api/products/1"},
		{"DELETE", "/api/products/1"},
	} {
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}")))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDatabase{health: map[string]string{"status": "up"}})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"ab"}`))
		req.RemoteAddr = "10.1.1.1:5000"
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// Invalid payloads are rejected before any user lookup, so no database is needed
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDatabase{health: map[string]string{"status": "up"}})

	req := httptest.NewRequest("OPTIONS", "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCloseReleasesDatabase(t *testing.T) {
	db := &fakeDatabase{health: map[string]string{"status": "up"}}
	srv, _ := newTestServer(t, db)

	require.NoError(t, srv.Close())
	assert.True(t, db.closed)
}

func TestPanicsAnswerWithErrorEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDatabase{health: map[string]string{"status": "up"}})
	srv.Handler.(chi.Router).Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected state")
	})

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body custommiddleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error.Message)
}
