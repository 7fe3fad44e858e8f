// Package api provides HTTP API handlers.
package api

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartinsure/claimpilot/internal/assist"
	"github.com/smartinsure/claimpilot/internal/claims"
	"github.com/smartinsure/claimpilot/internal/database"
	"github.com/smartinsure/claimpilot/internal/metrics"
	"github.com/smartinsure/claimpilot/internal/models"
)

// Handler contains all HTTP handlers.
type Handler struct {
	engine      *claims.Engine
	store       database.Store
	assistant   *assist.Assistant
	estimator   *assist.Estimator
	metrics     *metrics.Metrics
	maxUpload   int64
	claimsEmail string
}

// NewHandler creates a new handler.
func NewHandler(engine *claims.Engine, store database.Store, assistant *assist.Assistant, estimator *assist.Estimator, m *metrics.Metrics, maxUploadBytes int64, claimsEmail string) *Handler {
	return &Handler{
		engine:      engine,
		store:       store,
		assistant:   assistant,
		estimator:   estimator,
		metrics:     m,
		maxUpload:   maxUploadBytes,
		claimsEmail: claimsEmail,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// CreateSession starts a new claim session, optionally pre-filled with a record.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var record models.ClaimRecord
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if !validClaimType(record.ClaimType) {
		writeError(w, http.StatusBadRequest, "Invalid claim type")
		return
	}

	now := time.Now()
	session := &models.ClaimSession{
		ID:        uuid.New().String(),
		Record:    record,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateSession(r.Context(), session); err != nil {
		log.Error().Err(err).Msg("Failed to create session")
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// GetSession returns a claim session by ID.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// UpdateSession merges the submitted fields into the session's claim record
// and returns the session with a fresh validation report. Fields absent from
// the body keep their stored values.
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	record := session.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validClaimType(record.ClaimType) {
		writeError(w, http.StatusBadRequest, "Invalid claim type")
		return
	}

	session.Record = record
	session.UpdatedAt = time.Now()
	if err := h.store.UpdateSession(r.Context(), session); err != nil {
		log.Error().Err(err).Msg("Failed to update session")
		writeError(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	report, err := h.engine.Validate(r.Context(), session.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to validate session")
		writeError(w, http.StatusInternalServerError, "Failed to validate session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":    session,
		"validation": report,
	})
}

// ListSessions returns paginated claim sessions.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20)

	sessions, err := h.store.ListSessions(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sessions")
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
	})
}

// UploadDocuments ingests a multipart batch of claim documents.
func (h *Handler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "At least one file is required")
		return
	}

	uploads := make([]claims.IngestFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
		uploads = append(uploads, claims.IngestFile{
			Filename: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	result, err := h.engine.IngestDocuments(r.Context(), id, uploads)
	if err != nil {
		if errors.Is(err, claims.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Error().Err(err).Msg("Document ingestion failed")
		writeError(w, http.StatusInternalServerError, "Document ingestion failed")
		return
	}

	labels := make([]string, len(result.DocumentTypes))
	for i, l := range result.DocumentTypes {
		labels[i] = string(l)
	}
	h.metrics.RecordIngestion(len(uploads), labels)

	writeJSON(w, http.StatusCreated, result)
}

// GetValidation returns the current validation report for a session.
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.engine.Validate(r.Context(), id)
	if err != nil {
		if errors.Is(err, claims.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Error().Err(err).Msg("Validation failed")
		writeError(w, http.StatusInternalServerError, "Validation failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// CreateEstimate produces and stores a payout estimate for a session.
func (h *Handler) CreateEstimate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if session.Record.ClaimType == models.ClaimTypeUnset {
		writeError(w, http.StatusBadRequest, "Claim type is required for an estimate")
		return
	}

	est := h.estimator.Estimate(r.Context(), session.Record, session.ExtractedText)
	est.ID = uuid.New().String()
	est.SessionID = session.ID
	est.CreatedAt = time.Now()

	if err := h.store.SaveEstimate(r.Context(), &est); err != nil {
		log.Error().Err(err).Msg("Failed to save estimate")
		writeError(w, http.StatusInternalServerError, "Failed to save estimate")
		return
	}
	h.metrics.RecordEstimate(est.Source)

	writeJSON(w, http.StatusCreated, est)
}

// ListEstimates returns the estimates produced for a session.
func (h *Handler) ListEstimates(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	estimates, err := h.store.GetEstimatesBySession(r.Context(), session.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list estimates")
		writeError(w, http.StatusInternalServerError, "Failed to list estimates")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"estimates": estimates})
}

// Chat answers one user message within a session's conversation.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	userMsg := &models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := h.store.SaveChatMessage(r.Context(), userMsg); err != nil {
		log.Error().Err(err).Msg("Failed to save chat message")
		writeError(w, http.StatusInternalServerError, "Failed to save chat message")
		return
	}

	reply, source := h.assistant.Reply(r.Context(), session.Record, req.Message)
	assistantMsg := &models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		Role:      models.RoleAssistant,
		Content:   reply,
		Source:    source,
		CreatedAt: time.Now(),
	}
	if err := h.store.SaveChatMessage(r.Context(), assistantMsg); err != nil {
		log.Error().Err(err).Msg("Failed to save chat reply")
		writeError(w, http.StatusInternalServerError, "Failed to save chat reply")
		return
	}
	h.metrics.RecordChatReply(source)

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: *assistantMsg, Source: source})
}

// GetChatMessages returns a session's chat transcript.
func (h *Handler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	messages, err := h.store.GetChatMessages(r.Context(), session.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load chat transcript")
		writeError(w, http.StatusInternalServerError, "Failed to load chat transcript")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// GetLetter returns the claim letter draft and mailto link for a session.
// The recipient defaults to the configured insurer address and can be
// overridden with the "to" query parameter.
func (h *Handler) GetLetter(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	to := r.URL.Query().Get("to")
	if to == "" {
		to = h.claimsEmail
	}
	if to != "" && !assist.ValidEmail(to) {
		writeError(w, http.StatusBadRequest, "Invalid recipient email address")
		return
	}

	draft := assist.BuildEmailDraft(session.Record, session.Record.UserDescription, to)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(assist.RenderDownload(draft)))
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// GenerateDescription fills the session's incident description from the claim
// record and returns the updated session.
func (h *Handler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if session.Record.ClaimType == models.ClaimTypeUnset {
		writeError(w, http.StatusBadRequest, "Claim type is required to generate a description")
		return
	}

	session.Record.UserDescription = assist.GenerateDescription(session.Record)
	session.UpdatedAt = time.Now()
	if err := h.store.UpdateSession(r.Context(), session); err != nil {
		log.Error().Err(err).Msg("Failed to update session")
		writeError(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// GetAuditLogs returns paginated audit logs.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateAPIKey creates a new API key.
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		RequestsPerMinute int    `json:"requests_per_minute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Generate random API key
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate key")
		return
	}
	rawKey := "cp_" + base64.URLEncoding.EncodeToString(keyBytes)

	// Hash for storage
	hash := sha256.Sum256([]byte(rawKey))
	keyHash := hex.EncodeToString(hash[:])

	if req.RequestsPerMinute <= 0 {
		req.RequestsPerMinute = 60
	}

	apiKey := &models.APIKey{
		ID:                uuid.New().String(),
		KeyHash:           keyHash,
		Name:              req.Name,
		RequestsPerMinute: req.RequestsPerMinute,
		CreatedAt:         time.Now(),
	}

	if err := h.store.CreateAPIKey(r.Context(), apiKey); err != nil {
		log.Error().Err(err).Msg("Failed to create API key")
		writeError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	// Return the raw key only once
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":                  apiKey.ID,
		"key":                 rawKey, // Only returned on creation
		"name":                apiKey.Name,
		"requests_per_minute": apiKey.RequestsPerMinute,
		"created_at":          apiKey.CreatedAt,
	})
}

// ListAPIKeys lists all API keys (without the actual keys).
func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list API keys")
		writeError(w, http.StatusInternalServerError, "Failed to list API keys")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"keys": keys,
	})
}

// DeleteAPIKey deletes an API key.
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	if err := h.store.DeleteAPIKey(r.Context(), id); err != nil {
		log.Error().Err(err).Msg("Failed to delete API key")
		writeError(w, http.StatusInternalServerError, "Failed to delete API key")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadSession fetches the session from the URL parameter, writing the error
// response itself when the session cannot be served.
func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*models.ClaimSession, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return nil, false
	}

	session, err := h.store.GetSession(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get session")
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return nil, false
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func validClaimType(t models.ClaimType) bool {
	switch t {
	case models.ClaimTypeUnset, models.ClaimTypeHealth, models.ClaimTypeAccident, models.ClaimTypeTravel:
		return true
	default:
		return false
	}
}

func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}

	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
