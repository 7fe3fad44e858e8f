// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// ClaimType represents the line of insurance a claim is filed under.
type ClaimType string

const (
	ClaimTypeUnset    ClaimType = ""
	ClaimTypeHealth   ClaimType = "Health"
	ClaimTypeAccident ClaimType = "Accident"
	ClaimTypeTravel   ClaimType = "Travel"
)

// DocumentType is one of the fixed set of document labels the classifier can emit.
type DocumentType string

const (
	DocHospitalBill      DocumentType = "Hospital Bill"
	DocDischargeSummary  DocumentType = "Discharge Summary"
	DocDoctorsReport     DocumentType = "Doctor's Report"
	DocPoliceReport      DocumentType = "Police Report"
	DocVehicleImages     DocumentType = "Vehicle Images"
	DocMedicalReport     DocumentType = "Medical Report"
	DocFlightTicket      DocumentType = "Flight Ticket"
	DocPassportCopy      DocumentType = "Passport Copy"
	DocLostBaggageReport DocumentType = "Lost Baggage Report"
)

// FieldName identifies a claim record field in validation output.
type FieldName string

const (
	FieldClaimType         FieldName = "claim_type"
	FieldPolicyNumber      FieldName = "policy_number"
	FieldIncidentDate      FieldName = "incident_date"
	FieldContactEmail      FieldName = "contact_email"
	FieldUserDescription   FieldName = "user_description"
	FieldLocation          FieldName = "location"
	FieldContactPhone      FieldName = "contact_phone"
	FieldEstimatedExpenses FieldName = "estimated_expenses"
	FieldAddress           FieldName = "address"
)

// ClaimRecord describes one in-progress claim as entered by the user.
type ClaimRecord struct {
	ClaimType         ClaimType `json:"claim_type"`
	PolicyNumber      string    `json:"policy_number"`
	IncidentDate      string    `json:"incident_date"`
	Location          string    `json:"location,omitempty"`
	ContactEmail      string    `json:"contact_email"`
	ContactPhone      string    `json:"contact_phone,omitempty"`
	EstimatedExpenses string    `json:"estimated_expenses,omitempty"`
	Address           string    `json:"address,omitempty"`
	UserDescription   string    `json:"user_description"`
}

// UploadedFile carries the metadata of one file selected by the user.
// Width and Height are zero for anything that is not a decodable image.
type UploadedFile struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// ImageFeatures are cosmetic per-image attributes shown in upload summaries.
// They never feed back into classification.
type ImageFeatures struct {
	Filename    string  `json:"filename"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	HasText     bool    `json:"has_text"`
	Complexity  float64 `json:"complexity"`
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
}

// ValidationReport is the output of claim validation.
type ValidationReport struct {
	MissingRequiredFields     []FieldName    `json:"missing_required_fields"`
	CompletedRequiredFields   []FieldName    `json:"completed_required_fields"`
	MissingRequiredDocuments  []DocumentType `json:"missing_required_documents"`
	ProvidedRequiredDocuments []DocumentType `json:"provided_required_documents"`
	CompletenessPercent       int            `json:"completeness_percent"`
}

// ClaimSession is one persisted claim draft, the server-side replacement for
// what the original assistant kept in browser tab state.
type ClaimSession struct {
	ID            string      `json:"id"`
	Record        ClaimRecord `json:"record"`
	ExtractedText string      `json:"extracted_text,omitempty"`
	DocumentTypes string      `json:"document_types,omitempty"` // comma-joined labels
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// FileRecord is the stored metadata of one uploaded document.
type FileRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn in a session's assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"` // llm, scripted
	CreatedAt time.Time `json:"created_at"`
}

// Estimate is a payout estimate produced for a session. Amounts are whole INR.
type Estimate struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	UserAmount int64     `json:"user_amount"`
	Amount     int64     `json:"amount"`
	Details    string    `json:"details"`
	Source     string    `json:"source"` // heuristic, llm
	CreatedAt  time.Time `json:"created_at"`
}

// EmailDraft is a ready-to-send claim letter.
type EmailDraft struct {
	To        string `json:"to,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	MailtoURL string `json:"mailto_url,omitempty"`
}

// UploadResult is returned after a batch of documents has been ingested.
type UploadResult struct {
	SessionID     string           `json:"session_id"`
	Files         []FileRecord     `json:"files"`
	ExtractedText string           `json:"extracted_text"`
	DocumentTypes []DocumentType   `json:"document_types"`
	Features      []ImageFeatures  `json:"image_features,omitempty"`
	Validation    ValidationReport `json:"validation"`
}

// APIKey represents an API key for authentication.
type APIKey struct {
	ID                string     `json:"id"`
	KeyHash           string     `json:"-"` // Never expose
	Name              string     `json:"name"`
	RequestsPerMinute int        `json:"requests_per_minute"`
	CreatedAt         time.Time  `json:"created_at"`
	LastUsedAt        *time.Time `json:"last_used_at,omitempty"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	APIKeyID     string    `json:"api_key_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply returned by the chat endpoint.
type ChatResponse struct {
	Reply  ChatMessage `json:"reply"`
	Source string      `json:"source"`
}
