// Package database provides the data access layer for claim sessions.
package database

import (
	"context"
	"time"

	"github.com/smartinsure/claimpilot/internal/models"
)

// Store defines the interface for data persistence.
type Store interface {
	// Claim sessions
	CreateSession(ctx context.Context, session *models.ClaimSession) error
	GetSession(ctx context.Context, id string) (*models.ClaimSession, error)
	UpdateSession(ctx context.Context, session *models.ClaimSession) error
	ListSessions(ctx context.Context, limit, offset int) ([]*models.ClaimSession, error)

	// Uploaded files
	SaveFiles(ctx context.Context, files []models.FileRecord) error
	GetFilesBySession(ctx context.Context, sessionID string) ([]models.FileRecord, error)

	// Chat transcript
	SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error
	GetChatMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)

	// Estimates
	SaveEstimate(ctx context.Context, est *models.Estimate) error
	GetEstimatesBySession(ctx context.Context, sessionID string) ([]models.Estimate, error)

	// API Keys
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id string, t time.Time) error
	DeleteAPIKey(ctx context.Context, id string) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)

	// Audit logs
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}
