package assist

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/smartinsure/claimpilot/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the address looks like an email address.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// GenerateDescription writes a formal incident description from the claim
// record, the way the form's "generate description" helper fills the
// free-text field.
func GenerateDescription(record models.ClaimRecord) string {
	return fmt.Sprintf(`Dear Sir/Madam,

I am writing to formally submit a claim for my %s insurance policy (Policy Number: %s).

On %s, an incident occurred at %s. I am hereby requesting claim processing for the damages incurred.

The estimated claim amount is Rs. %s. I have attached all necessary documentation to support this claim.

Please contact me at %s or %s for any additional information required.

Thank you for your prompt attention to this matter.

Sincerely,
[Your Name]
%s`,
		strings.ToLower(string(record.ClaimType)), record.PolicyNumber,
		record.IncidentDate, record.Location, record.EstimatedExpenses,
		record.ContactEmail, record.ContactPhone, record.Address)
}

// BuildEmailDraft assembles the claim letter email. The body defaults to the
// full template when no description has been written yet.
func BuildEmailDraft(record models.ClaimRecord, description, to string) models.EmailDraft {
	body := description
	if strings.TrimSpace(body) == "" {
		body = emailTemplate(record)
	}

	draft := models.EmailDraft{
		To:      to,
		Subject: fmt.Sprintf("Insurance Claim - Policy #%s", valueOrNA(record.PolicyNumber)),
		Body:    body,
	}
	if to != "" && ValidEmail(to) {
		draft.MailtoURL = BuildMailtoURL(to, draft.Subject, draft.Body)
	}
	return draft
}

// BuildMailtoURL constructs a mailto deep link that opens the user's email
// client with the letter pre-filled.
func BuildMailtoURL(to, subject, body string) string {
	query := url.Values{}
	query.Set("subject", subject)
	query.Set("body", body)
	// mailto expects %20 for spaces, not the form-encoded plus.
	encoded := strings.ReplaceAll(query.Encode(), "+", "%20")
	return "mailto:" + to + "?" + encoded
}

// RenderDownload renders the draft as the plain-text file offered for
// download, with a mail header block.
func RenderDownload(draft models.EmailDraft) string {
	return fmt.Sprintf("To: %s\nSubject: %s\n\n%s", draft.To, draft.Subject, draft.Body)
}

func emailTemplate(record models.ClaimRecord) string {
	return fmt.Sprintf(`Dear Insurance Team,

I am submitting a formal claim for my %s insurance policy.

Policy Details:
- Policy Number: %s
- Claim Type: %s
- Incident Date: %s
- Location: %s

%s

Contact Information:
- Email: %s
- Phone: %s
- Address: %s

I have attached all necessary documentation to support this claim. Please contact me if you need any additional information.

Thank you for your prompt attention to this matter.

Best regards,
[Your Name]`,
		strings.ToLower(valueOrNA(string(record.ClaimType))),
		valueOrNA(record.PolicyNumber),
		valueOrNA(string(record.ClaimType)),
		valueOrNA(record.IncidentDate),
		valueOrNA(record.Location),
		record.UserDescription,
		valueOrNA(record.ContactEmail),
		valueOrNA(record.ContactPhone),
		valueOrNA(record.Address))
}

func valueOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
