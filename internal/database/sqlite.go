// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smartinsure/claimpilot/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS claim_sessions (
			id TEXT PRIMARY KEY,
			claim_type TEXT NOT NULL,
			policy_number TEXT NOT NULL,
			incident_date TEXT NOT NULL,
			location TEXT NOT NULL,
			contact_email TEXT NOT NULL,
			contact_phone TEXT NOT NULL,
			estimated_expenses TEXT NOT NULL,
			address TEXT NOT NULL,
			user_description TEXT NOT NULL,
			extracted_text TEXT NOT NULL,
			document_types TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS uploaded_files (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES claim_sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_session ON uploaded_files(session_id)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES claim_sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_session ON chat_messages(session_id)`,
		`CREATE TABLE IF NOT EXISTS estimates (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_amount INTEGER NOT NULL,
			amount INTEGER NOT NULL,
			details TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES claim_sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_estimates_session ON estimates(session_id)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			id TEXT PRIMARY KEY,
			key_hash TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			requests_per_minute INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			last_used_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_api_keys_hash ON api_keys(key_hash)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			api_key_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			request_size INTEGER NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession stores a new claim session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.ClaimSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO claim_sessions (id, claim_type, policy_number, incident_date, location,
			contact_email, contact_phone, estimated_expenses, address, user_description,
			extracted_text, document_types, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Record.ClaimType, session.Record.PolicyNumber,
		session.Record.IncidentDate, session.Record.Location, session.Record.ContactEmail,
		session.Record.ContactPhone, session.Record.EstimatedExpenses, session.Record.Address,
		session.Record.UserDescription, session.ExtractedText, session.DocumentTypes,
		session.CreatedAt, session.UpdatedAt,
	)
	return err
}

// GetSession retrieves a claim session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*models.ClaimSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, claim_type, policy_number, incident_date, location, contact_email,
			contact_phone, estimated_expenses, address, user_description,
			extracted_text, document_types, created_at, updated_at
		FROM claim_sessions WHERE id = ?`, id)
	return scanSession(row)
}

// UpdateSession overwrites the mutable parts of a claim session.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *models.ClaimSession) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE claim_sessions SET claim_type = ?, policy_number = ?, incident_date = ?,
			location = ?, contact_email = ?, contact_phone = ?, estimated_expenses = ?,
			address = ?, user_description = ?, extracted_text = ?, document_types = ?,
			updated_at = ?
		WHERE id = ?`,
		session.Record.ClaimType, session.Record.PolicyNumber, session.Record.IncidentDate,
		session.Record.Location, session.Record.ContactEmail, session.Record.ContactPhone,
		session.Record.EstimatedExpenses, session.Record.Address, session.Record.UserDescription,
		session.ExtractedText, session.DocumentTypes, session.UpdatedAt, session.ID,
	)
	return err
}

// ListSessions returns paginated claim sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit, offset int) ([]*models.ClaimSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, claim_type, policy_number, incident_date, location, contact_email,
			contact_phone, estimated_expenses, address, user_description,
			extracted_text, document_types, created_at, updated_at
		FROM claim_sessions ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.ClaimSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.ClaimSession, error) {
	var session models.ClaimSession
	err := row.Scan(&session.ID, &session.Record.ClaimType, &session.Record.PolicyNumber,
		&session.Record.IncidentDate, &session.Record.Location, &session.Record.ContactEmail,
		&session.Record.ContactPhone, &session.Record.EstimatedExpenses, &session.Record.Address,
		&session.Record.UserDescription, &session.ExtractedText, &session.DocumentTypes,
		&session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveFiles stores uploaded file metadata.
func (s *SQLiteStore) SaveFiles(ctx context.Context, files []models.FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO uploaded_files (id, session_id, filename, mime_type, size_bytes, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range files {
		_, err := stmt.ExecContext(ctx, f.ID, f.SessionID, f.Filename, f.MimeType,
			f.SizeBytes, f.Width, f.Height, f.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetFilesBySession retrieves all uploaded files for a session.
func (s *SQLiteStore) GetFilesBySession(ctx context.Context, sessionID string) ([]models.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, filename, mime_type, size_bytes, width, height, created_at
		FROM uploaded_files WHERE session_id = ? ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.FileRecord
	for rows.Next() {
		var f models.FileRecord
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Filename, &f.MimeType,
			&f.SizeBytes, &f.Width, &f.Height, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// SaveChatMessage stores one chat turn.
func (s *SQLiteStore) SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.Source, msg.CreatedAt)
	return err
}

// GetChatMessages retrieves the transcript for a session, oldest first.
func (s *SQLiteStore) GetChatMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, source, created_at
		FROM chat_messages WHERE session_id = ? ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Source, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// SaveEstimate stores a payout estimate.
func (s *SQLiteStore) SaveEstimate(ctx context.Context, est *models.Estimate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO estimates (id, session_id, user_amount, amount, details, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		est.ID, est.SessionID, est.UserAmount, est.Amount, est.Details, est.Source, est.CreatedAt)
	return err
}

// GetEstimatesBySession retrieves all estimates for a session, newest first.
func (s *SQLiteStore) GetEstimatesBySession(ctx context.Context, sessionID string) ([]models.Estimate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, user_amount, amount, details, source, created_at
		FROM estimates WHERE session_id = ? ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var estimates []models.Estimate
	for rows.Next() {
		var e models.Estimate
		if err := rows.Scan(&e.ID, &e.SessionID, &e.UserAmount, &e.Amount, &e.Details, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		estimates = append(estimates, e)
	}
	return estimates, rows.Err()
}

// CreateAPIKey stores a new API key.
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, key_hash, name, requests_per_minute, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		key.ID, key.KeyHash, key.Name, key.RequestsPerMinute, key.CreatedAt)
	return err
}

// GetAPIKeyByHash retrieves an API key by its hash.
func (s *SQLiteStore) GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, key_hash, name, requests_per_minute, created_at, last_used_at
		FROM api_keys WHERE key_hash = ?`, hash)

	var key models.APIKey
	err := row.Scan(&key.ID, &key.KeyHash, &key.Name, &key.RequestsPerMinute,
		&key.CreatedAt, &key.LastUsedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// UpdateAPIKeyLastUsed updates the last used timestamp.
func (s *SQLiteStore) UpdateAPIKeyLastUsed(ctx context.Context, id string, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, t, id)
	return err
}

// DeleteAPIKey removes an API key.
func (s *SQLiteStore) DeleteAPIKey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	return err
}

// ListAPIKeys returns all API keys.
func (s *SQLiteStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, requests_per_minute, created_at, last_used_at
		FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.RequestsPerMinute,
			&k.CreatedAt, &k.LastUsedAt); err != nil {
			return nil, err
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// LogRequest stores an audit log entry.
func (s *SQLiteStore) LogRequest(ctx context.Context, log *models.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, api_key_id, endpoint, method, request_size, response_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.APIKeyID, log.Endpoint, log.Method, log.RequestSize,
		log.ResponseCode, log.DurationMs, log.Timestamp)
	return err
}

// GetAuditLogs returns paginated audit logs.
func (s *SQLiteStore) GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, api_key_id, endpoint, method, request_size, response_code, duration_ms, timestamp
		FROM audit_logs ORDER BY timestamp DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.APIKeyID, &l.Endpoint, &l.Method,
			&l.RequestSize, &l.ResponseCode, &l.DurationMs, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
