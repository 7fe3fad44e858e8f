package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartinsure/claimpilot/internal/database"
	"github.com/smartinsure/claimpilot/internal/models"
)

func newAuthStore(t *testing.T) (database.Store, string) {
	t.Helper()
	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rawKey := "cp_test_key"
	hash := sha256.Sum256([]byte(rawKey))
	require.NoError(t, store.CreateAPIKey(context.Background(), &models.APIKey{
		ID:                uuid.New().String(),
		KeyHash:           hex.EncodeToString(hash[:]),
		Name:              "test",
		RequestsPerMinute: 60,
		CreatedAt:         time.Now(),
	}))
	return store, rawKey
}

func TestAuthMiddleware(t *testing.T) {
	store, rawKey := newAuthStore(t)

	var sawKey *models.APIKey
	handler := AuthMiddleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawKey = getAPIKey(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+rawKey)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, sawKey)
		assert.Equal(t, "test", sawKey.Name)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", rawKey)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer cp_wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRateLimitMiddlewareUsesStoredLimit(t *testing.T) {
	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	makeKey := func(raw string, rpm int) {
		hash := sha256.Sum256([]byte(raw))
		require.NoError(t, store.CreateAPIKey(context.Background(), &models.APIKey{
			ID:                uuid.New().String(),
			KeyHash:           hex.EncodeToString(hash[:]),
			Name:              raw,
			RequestsPerMinute: rpm,
			CreatedAt:         time.Now(),
		}))
	}
	makeKey("cp_slow", 2)
	makeKey("cp_fast", 60)

	handler := AuthMiddleware(store)(RateLimitMiddleware(60)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })))

	do := func(rawKey string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+rawKey)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// The slow key is throttled at its own stored limit of 2 per minute.
	assert.Equal(t, http.StatusOK, do("cp_slow"))
	assert.Equal(t, http.StatusOK, do("cp_slow"))
	assert.Equal(t, http.StatusTooManyRequests, do("cp_slow"))

	// Another key is counted separately and keeps its higher limit.
	assert.Equal(t, http.StatusOK, do("cp_fast"))
}

func TestRateLimitMiddlewareDefaultLimit(t *testing.T) {
	handler := RateLimitMiddleware(1)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, getRequestID(r.Context()))
	}))

	t.Run("generates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "given-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "given-id", rec.Header().Get("X-Request-ID"))
	})
}
