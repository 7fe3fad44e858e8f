package claims

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartinsure/claimpilot/internal/database"
	"github.com/smartinsure/claimpilot/internal/extract"
	"github.com/smartinsure/claimpilot/internal/models"
)

// ErrSessionNotFound is returned when an operation references an unknown session.
var ErrSessionNotFound = errors.New("session not found")

// IngestFile is one uploaded file handed to the engine.
type IngestFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// Engine orchestrates the document pipeline for a claim session: text
// extraction, classification, and validation, with results persisted on the
// session.
type Engine struct {
	classifier *DocumentClassifier
	validator  *ClaimValidator
	features   *FeatureSynthesizer
	registry   *extract.Registry
	store      database.Store
}

// NewEngine creates an engine. The feature source only seeds the cosmetic
// image attributes; classification itself is deterministic.
func NewEngine(store database.Store, featureSrc rand.Source) *Engine {
	return &Engine{
		classifier: NewDocumentClassifier(),
		validator:  NewClaimValidator(),
		features:   NewFeatureSynthesizer(featureSrc),
		registry:   extract.NewRegistry(),
		store:      store,
	}
}

// IngestDocuments processes a batch of uploaded files for a session: extracts
// text, re-classifies across everything the session has seen so far, and
// re-validates the claim.
func (e *Engine) IngestDocuments(ctx context.Context, sessionID string, uploads []IngestFile) (*models.UploadResult, error) {
	session, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	// Step 1: Extract text from the new batch
	log.Info().Str("session", sessionID).Int("files", len(uploads)).Msg("Step 1: Extracting text")
	now := time.Now()
	results := make([]extract.Result, 0, len(uploads))
	records := make([]models.FileRecord, 0, len(uploads))
	batch := make([]models.UploadedFile, 0, len(uploads))

	for _, up := range uploads {
		res := e.registry.ExtractFile(up.Filename, up.MimeType, up.Data)
		results = append(results, res)
		batch = append(batch, res.File)
		records = append(records, models.FileRecord{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Filename:  res.File.Filename,
			MimeType:  res.File.MimeType,
			SizeBytes: res.File.SizeBytes,
			Width:     res.File.Width,
			Height:    res.File.Height,
			CreatedAt: now,
		})
	}

	if err := e.store.SaveFiles(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	// Step 2: Classify across all session files and combined text
	log.Info().Str("session", sessionID).Msg("Step 2: Classifying documents")
	combinedText := session.ExtractedText + extract.Combine(results)
	allFiles, err := e.sessionFiles(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	labels := e.classifier.Classify(allFiles, combinedText)

	session.ExtractedText = combinedText
	session.DocumentTypes = JoinLabels(labels)
	session.UpdatedAt = now
	if err := e.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	// Step 3: Validate the claim against the new label set
	log.Info().Str("session", sessionID).Msg("Step 3: Validating claim")
	report := e.validator.Completeness(session.Record, session.DocumentTypes)

	log.Info().
		Str("session", sessionID).
		Int("labels", len(labels)).
		Int("completeness", report.CompletenessPercent).
		Msg("Document ingestion complete")

	return &models.UploadResult{
		SessionID:     sessionID,
		Files:         records,
		ExtractedText: session.ExtractedText,
		DocumentTypes: labels,
		Features:      e.features.Synthesize(batch),
		Validation:    report,
	}, nil
}

// Validate recomputes the validation report for a session's current state.
func (e *Engine) Validate(ctx context.Context, sessionID string) (*models.ValidationReport, error) {
	session, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	report := e.validator.Completeness(session.Record, session.DocumentTypes)
	return &report, nil
}

func (e *Engine) sessionFiles(ctx context.Context, sessionID string) ([]models.UploadedFile, error) {
	records, err := e.store.GetFilesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session files: %w", err)
	}
	files := make([]models.UploadedFile, len(records))
	for i, r := range records {
		files[i] = models.UploadedFile{
			Filename:  r.Filename,
			MimeType:  r.MimeType,
			SizeBytes: r.SizeBytes,
			Width:     r.Width,
			Height:    r.Height,
		}
	}
	return files, nil
}
