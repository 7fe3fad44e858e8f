package claims

import (
	"math"
	"strings"

	"github.com/smartinsure/claimpilot/internal/models"
)

// ClaimValidator computes claim-submission readiness from a claim record and
// the joined document labels. All operations are total and deterministic.
type ClaimValidator struct{}

// NewClaimValidator creates a new validator.
func NewClaimValidator() *ClaimValidator {
	return &ClaimValidator{}
}

// ValidateFields partitions the basic required fields into missing and
// completed. A field counts as completed when its value is non-empty after
// trimming.
func (v *ClaimValidator) ValidateFields(record models.ClaimRecord) (missing, completed []models.FieldName) {
	for _, field := range BasicRequiredFields {
		if strings.TrimSpace(fieldValue(record, field)) == "" {
			missing = append(missing, field)
		} else {
			completed = append(completed, field)
		}
	}
	return missing, completed
}

// ValidateDocuments checks which documents required for the record's claim
// type are covered by the joined label text. A required document counts as
// provided when its canonical name or any registered synonym token appears in
// the lower-cased label text. With no claim type or no labels, both result
// sets are empty rather than "all missing".
func (v *ClaimValidator) ValidateDocuments(record models.ClaimRecord, providedLabelsText string) (missing, provided []models.DocumentType) {
	if record.ClaimType == models.ClaimTypeUnset || providedLabelsText == "" {
		return nil, nil
	}

	labels := strings.ToLower(providedLabelsText)
	for _, doc := range RequiredDocuments[record.ClaimType] {
		if documentProvided(doc, labels) {
			provided = append(provided, doc)
		} else {
			missing = append(missing, doc)
		}
	}
	return missing, provided
}

// Completeness combines field and document validation into a full report.
// The percentage is completed items over required items, where the document
// term of the denominator is zero when no claim type is set.
func (v *ClaimValidator) Completeness(record models.ClaimRecord, providedLabelsText string) models.ValidationReport {
	missingFields, completedFields := v.ValidateFields(record)
	missingDocs, providedDocs := v.ValidateDocuments(record, providedLabelsText)

	totalRequired := len(BasicRequiredFields) + len(RequiredDocuments[record.ClaimType])
	completed := len(completedFields) + len(providedDocs)

	percent := 0
	if totalRequired > 0 {
		percent = int(math.Round(float64(completed) / float64(totalRequired) * 100))
	}

	return models.ValidationReport{
		MissingRequiredFields:     missingFields,
		CompletedRequiredFields:   completedFields,
		MissingRequiredDocuments:  missingDocs,
		ProvidedRequiredDocuments: providedDocs,
		CompletenessPercent:       percent,
	}
}

func documentProvided(doc models.DocumentType, loweredLabels string) bool {
	if strings.Contains(loweredLabels, strings.ToLower(string(doc))) {
		return true
	}
	for _, synonym := range documentSynonyms[doc] {
		if strings.Contains(loweredLabels, synonym) {
			return true
		}
	}
	return false
}

func fieldValue(record models.ClaimRecord, field models.FieldName) string {
	switch field {
	case models.FieldClaimType:
		return string(record.ClaimType)
	case models.FieldPolicyNumber:
		return record.PolicyNumber
	case models.FieldIncidentDate:
		return record.IncidentDate
	case models.FieldContactEmail:
		return record.ContactEmail
	case models.FieldUserDescription:
		return record.UserDescription
	case models.FieldLocation:
		return record.Location
	case models.FieldContactPhone:
		return record.ContactPhone
	case models.FieldEstimatedExpenses:
		return record.EstimatedExpenses
	case models.FieldAddress:
		return record.Address
	default:
		return ""
	}
}
