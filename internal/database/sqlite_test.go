package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartinsure/claimpilot/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession(id string) *models.ClaimSession {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.ClaimSession{
		ID: id,
		Record: models.ClaimRecord{
			ClaimType:       models.ClaimTypeHealth,
			PolicyNumber:    "POL-1",
			IncidentDate:    "2026-01-01",
			ContactEmail:    "user@example.com",
			UserDescription: "details",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSessionCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, testSession("s1")))

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ClaimTypeHealth, got.Record.ClaimType)
	assert.Equal(t, "POL-1", got.Record.PolicyNumber)

	got.Record.PolicyNumber = "POL-2"
	got.DocumentTypes = "Hospital Bill"
	got.ExtractedText = "some text"
	require.NoError(t, store.UpdateSession(ctx, got))

	updated, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "POL-2", updated.Record.PolicyNumber)
	assert.Equal(t, "Hospital Bill", updated.DocumentTypes)
	assert.Equal(t, "some text", updated.ExtractedText)
}

func TestGetSessionNotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetSession(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testSession("a")
	b := testSession("b")
	b.CreatedAt = a.CreatedAt.Add(time.Minute)
	require.NoError(t, store.CreateSession(ctx, a))
	require.NoError(t, store.CreateSession(ctx, b))

	sessions, err := store.ListSessions(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Newest first.
	assert.Equal(t, "b", sessions[0].ID)

	page, err := store.ListSessions(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].ID)
}

func TestFilesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateSession(ctx, testSession("s1")))

	now := time.Now().UTC().Truncate(time.Second)
	files := []models.FileRecord{
		{ID: "f1", SessionID: "s1", Filename: "a.pdf", MimeType: "application/pdf", SizeBytes: 10, CreatedAt: now},
		{ID: "f2", SessionID: "s1", Filename: "b.jpg", MimeType: "image/jpeg", SizeBytes: 20, Width: 800, Height: 600, CreatedAt: now.Add(time.Second)},
	}
	require.NoError(t, store.SaveFiles(ctx, files))

	got, err := store.GetFilesBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].Filename)
	assert.Equal(t, 800, got[1].Width)

	none, err := store.GetFilesBySession(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestChatMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateSession(ctx, testSession("s1")))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.SaveChatMessage(ctx, &models.ChatMessage{
		ID: "m1", SessionID: "s1", Role: models.RoleUser, Content: "hello", CreatedAt: now,
	}))
	require.NoError(t, store.SaveChatMessage(ctx, &models.ChatMessage{
		ID: "m2", SessionID: "s1", Role: models.RoleAssistant, Content: "hi", Source: "scripted", CreatedAt: now.Add(time.Second),
	}))

	messages, err := store.GetChatMessages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, "scripted", messages[1].Source)
}

func TestEstimates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateSession(ctx, testSession("s1")))

	require.NoError(t, store.SaveEstimate(ctx, &models.Estimate{
		ID: "e1", SessionID: "s1", UserAmount: 100000, Amount: 90000,
		Details: "analysis", Source: "heuristic", CreatedAt: time.Now(),
	}))

	estimates, err := store.GetEstimatesBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, estimates, 1)
	assert.Equal(t, int64(90000), estimates[0].Amount)
	assert.Equal(t, "heuristic", estimates[0].Source)
}

func TestAPIKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := &models.APIKey{
		ID: "k1", KeyHash: "hash-1", Name: "test key",
		RequestsPerMinute: 60, CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateAPIKey(ctx, key))

	got, err := store.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test key", got.Name)
	assert.Nil(t, got.LastUsedAt)

	missing, err := store.GetAPIKeyByHash(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)

	used := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.UpdateAPIKeyLastUsed(ctx, "k1", used))
	got, err = store.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)

	keys, err := store.ListAPIKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	require.NoError(t, store.DeleteAPIKey(ctx, "k1"))
	gone, err := store.GetAPIKeyByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAuditLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.LogRequest(ctx, &models.AuditLog{
		ID: "l1", APIKeyID: "k1", Endpoint: "/api/v1/sessions", Method: "POST",
		RequestSize: 128, ResponseCode: 201, DurationMs: 12, Timestamp: now,
	}))
	require.NoError(t, store.LogRequest(ctx, &models.AuditLog{
		ID: "l2", APIKeyID: "k1", Endpoint: "/api/v1/sessions", Method: "GET",
		RequestSize: 0, ResponseCode: 200, DurationMs: 3, Timestamp: now.Add(time.Second),
	}))

	logs, err := store.GetAuditLogs(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Newest first.
	assert.Equal(t, "l2", logs[0].ID)
	assert.Equal(t, 201, logs[1].ResponseCode)
}
