// Package claims implements the document classification and claim validation
// rules at the heart of the assistant.
package claims

import (
	"github.com/smartinsure/claimpilot/internal/models"
)

// BasicRequiredFields are the claim record fields that must be filled before a
// claim can be considered complete, in presentation order.
var BasicRequiredFields = []models.FieldName{
	models.FieldClaimType,
	models.FieldPolicyNumber,
	models.FieldIncidentDate,
	models.FieldContactEmail,
	models.FieldUserDescription,
}

// OptionalFields are tracked for display but never counted as required.
var OptionalFields = []models.FieldName{
	models.FieldLocation,
	models.FieldContactPhone,
	models.FieldEstimatedExpenses,
	models.FieldAddress,
}

// RequiredDocuments maps a claim type to the documents it must be backed by.
var RequiredDocuments = map[models.ClaimType][]models.DocumentType{
	models.ClaimTypeHealth:   {models.DocHospitalBill, models.DocDischargeSummary, models.DocMedicalReport},
	models.ClaimTypeAccident: {models.DocPoliceReport, models.DocVehicleImages, models.DocMedicalReport},
	models.ClaimTypeTravel:   {models.DocFlightTicket, models.DocPassportCopy, models.DocLostBaggageReport},
}

// documentSynonyms lists the tokens that count as evidence a given document was
// provided when matching against the joined label text. The table must stay in
// sync with what upstream classifiers and human reviewers actually write.
var documentSynonyms = map[models.DocumentType][]string{
	models.DocPoliceReport:      {"police", "report", "fir", "accident report"},
	models.DocVehicleImages:     {"vehicle", "image", "car", "damage", "photo"},
	models.DocMedicalReport:     {"medical", "doctor", "health", "treatment"},
	models.DocHospitalBill:      {"hospital", "bill", "invoice", "receipt"},
	models.DocDischargeSummary:  {"discharge", "summary", "hospital"},
	models.DocFlightTicket:      {"flight", "ticket", "boarding", "travel"},
	models.DocPassportCopy:      {"passport", "id", "identity"},
	models.DocLostBaggageReport: {"baggage", "luggage", "lost", "report"},
}

// keywordRule emits a label when any of its keywords appears in the combined
// lower-cased document text.
type keywordRule struct {
	keywords []string
	label    models.DocumentType
}

// textRules are evaluated independently, in order. Every matching rule fires;
// a match never suppresses later rules.
var textRules = []keywordRule{
	{[]string{"hospital", "bill", "invoice"}, models.DocHospitalBill},
	{[]string{"medical", "doctor", "treatment"}, models.DocMedicalReport},
	{[]string{"police", "fir", "accident report"}, models.DocPoliceReport},
	{[]string{"flight", "ticket", "airline"}, models.DocFlightTicket},
	{[]string{"passport", "identity"}, models.DocPassportCopy},
	{[]string{"baggage", "luggage", "lost"}, models.DocLostBaggageReport},
}

// Token sets for the image-presence rule.
var (
	medicalTextTokens  = []string{"hospital", "medical", "bill", "report"}
	vehicleNameTokens  = []string{"car", "vehicle", "damage", "accident", "photo", "img"}
	documentNameTokens = []string{"report", "bill", "medical"}
)
