package claims

import (
	"strings"

	"github.com/smartinsure/claimpilot/internal/models"
)

// DocumentClassifier maps a batch of uploaded files and their extracted text
// to a set of document type labels. It is a pure rule evaluator: no OCR, no
// vision models, no state.
type DocumentClassifier struct{}

// NewDocumentClassifier creates a new classifier.
func NewDocumentClassifier() *DocumentClassifier {
	return &DocumentClassifier{}
}

// Classify evaluates the full rule table against the uploaded files and the
// combined extracted text. All matching rules fire; the result is
// de-duplicated preserving first-seen order. An empty file batch yields no
// labels regardless of text.
func (c *DocumentClassifier) Classify(files []models.UploadedFile, extractedText string) []models.DocumentType {
	if len(files) == 0 {
		return nil
	}

	text := strings.ToLower(extractedText)
	var labels []models.DocumentType

	if c.matchVehicleImages(files, text) {
		labels = append(labels, models.DocVehicleImages)
	}

	for _, rule := range textRules {
		if containsAny(text, rule.keywords) {
			labels = append(labels, rule.label)
		}
	}

	// Fallback when nothing matched at all: assume vehicle photos if an image
	// is present, and a medical report either way.
	if len(labels) == 0 {
		if hasImage(files) {
			labels = append(labels, models.DocVehicleImages)
		}
		labels = append(labels, models.DocMedicalReport)
	}

	return dedupe(labels)
}

// matchVehicleImages implements the image-presence rule: an image file whose
// text shows no medical vocabulary, or a file named like a vehicle photo that
// is not named like a document.
func (c *DocumentClassifier) matchVehicleImages(files []models.UploadedFile, loweredText string) bool {
	if hasImage(files) && !containsAny(loweredText, medicalTextTokens) {
		return true
	}
	for _, f := range files {
		name := strings.ToLower(f.Filename)
		if containsAny(name, vehicleNameTokens) && !containsAny(name, documentNameTokens) {
			return true
		}
	}
	return false
}

func hasImage(files []models.UploadedFile) bool {
	for _, f := range files {
		if strings.HasPrefix(f.MimeType, "image/") {
			return true
		}
	}
	return false
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func dedupe(labels []models.DocumentType) []models.DocumentType {
	seen := make(map[models.DocumentType]bool, len(labels))
	out := labels[:0]
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// JoinLabels renders a label sequence the way the validator and the UI expect
// it: comma-joined canonical names.
func JoinLabels(labels []models.DocumentType) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}
