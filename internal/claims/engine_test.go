package claims

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartinsure/claimpilot/internal/database"
	"github.com/smartinsure/claimpilot/internal/models"
)

func newTestEngine(t *testing.T) (*Engine, database.Store) {
	t.Helper()
	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewEngine(store, rand.NewSource(1)), store
}

func createTestSession(t *testing.T, store database.Store, claimType models.ClaimType) *models.ClaimSession {
	t.Helper()
	now := time.Now()
	session := &models.ClaimSession{
		ID: "test-session",
		Record: models.ClaimRecord{
			ClaimType:       claimType,
			PolicyNumber:    "POL-42",
			IncidentDate:    "2026-02-01",
			ContactEmail:    "user@example.com",
			UserDescription: "Accident on the highway",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateSession(context.Background(), session))
	return session
}

func TestIngestDocumentsUnknownSession(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.IngestDocuments(context.Background(), "missing", []IngestFile{
		{Filename: "a.txt", MimeType: "text/plain", Data: []byte("hospital bill")},
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestIngestDocuments(t *testing.T) {
	engine, store := newTestEngine(t)
	session := createTestSession(t, store, models.ClaimTypeHealth)

	result, err := engine.IngestDocuments(context.Background(), session.ID, []IngestFile{
		{Filename: "bill.txt", MimeType: "text/plain", Data: []byte("Hospital bill for treatment")},
	})
	require.NoError(t, err)

	assert.Equal(t, session.ID, result.SessionID)
	assert.Len(t, result.Files, 1)
	assert.Contains(t, result.ExtractedText, "Hospital bill for treatment")
	assert.Contains(t, result.DocumentTypes, models.DocHospitalBill)
	assert.Contains(t, result.DocumentTypes, models.DocMedicalReport)

	// The session carries the updated state.
	updated, err := store.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Contains(t, updated.DocumentTypes, "Hospital Bill")
	assert.Contains(t, updated.ExtractedText, "Hospital bill")

	// "Hospital Bill" in the labels also satisfies Discharge Summary through
	// its "hospital" synonym, so all three health documents count as provided.
	assert.Equal(t, 100, result.Validation.CompletenessPercent)
}

func TestIngestDocumentsAccumulates(t *testing.T) {
	engine, store := newTestEngine(t)
	session := createTestSession(t, store, models.ClaimTypeHealth)
	ctx := context.Background()

	_, err := engine.IngestDocuments(ctx, session.ID, []IngestFile{
		{Filename: "bill.txt", MimeType: "text/plain", Data: []byte("hospital invoice")},
	})
	require.NoError(t, err)

	result, err := engine.IngestDocuments(ctx, session.ID, []IngestFile{
		{Filename: "summary.txt", MimeType: "text/plain", Data: []byte("discharge summary from doctor")},
	})
	require.NoError(t, err)

	// Classification runs across both batches.
	assert.Contains(t, result.DocumentTypes, models.DocHospitalBill)
	assert.Contains(t, result.DocumentTypes, models.DocMedicalReport)

	files, err := store.GetFilesBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestIngestDocumentsImageFeatures(t *testing.T) {
	engine, store := newTestEngine(t)
	session := createTestSession(t, store, models.ClaimTypeAccident)

	result, err := engine.IngestDocuments(context.Background(), session.ID, []IngestFile{
		{Filename: "damage.jpg", MimeType: "image/jpeg", Data: []byte("not a real jpeg")},
		{Filename: "notes.txt", MimeType: "text/plain", Data: []byte("dent on the left door")},
	})
	require.NoError(t, err)

	// Features are synthesized for the image only.
	assert.Len(t, result.Features, 1)
	assert.Equal(t, "damage.jpg", result.Features[0].Filename)
	assert.Contains(t, result.DocumentTypes, models.DocVehicleImages)
}

func TestValidateRoundTrip(t *testing.T) {
	engine, store := newTestEngine(t)
	session := createTestSession(t, store, models.ClaimTypeHealth)

	report, err := engine.Validate(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, report.MissingRequiredFields)
	assert.Equal(t, 63, report.CompletenessPercent)

	_, err = engine.Validate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
