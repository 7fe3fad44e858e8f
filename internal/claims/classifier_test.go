package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartinsure/claimpilot/internal/models"
)

func imageFile(name string) models.UploadedFile {
	return models.UploadedFile{Filename: name, MimeType: "image/jpeg", SizeBytes: 1024}
}

func pdfFile(name string) models.UploadedFile {
	return models.UploadedFile{Filename: name, MimeType: "application/pdf", SizeBytes: 2048}
}

func TestClassifyEmptyBatch(t *testing.T) {
	c := NewDocumentClassifier()

	assert.Nil(t, c.Classify(nil, ""))
	assert.Nil(t, c.Classify(nil, "hospital bill from apollo"))
	assert.Nil(t, c.Classify([]models.UploadedFile{}, "police report"))
}

func TestClassifyKeywordRules(t *testing.T) {
	c := NewDocumentClassifier()

	tests := []struct {
		name  string
		files []models.UploadedFile
		text  string
		want  []models.DocumentType
	}{
		{
			name:  "hospital bill",
			files: []models.UploadedFile{pdfFile("statement.pdf")},
			text:  "Hospital bill for inpatient treatment",
			want:  []models.DocumentType{models.DocHospitalBill, models.DocMedicalReport},
		},
		{
			name:  "police report",
			files: []models.UploadedFile{pdfFile("fir.pdf")},
			text:  "FIR registered at the local station",
			want:  []models.DocumentType{models.DocPoliceReport},
		},
		{
			name:  "flight ticket",
			files: []models.UploadedFile{pdfFile("itinerary.pdf")},
			text:  "E-ticket issued by the airline",
			want:  []models.DocumentType{models.DocFlightTicket},
		},
		{
			name:  "passport",
			files: []models.UploadedFile{pdfFile("scan.pdf")},
			text:  "Passport copy attached as identity proof",
			want:  []models.DocumentType{models.DocPassportCopy},
		},
		{
			name:  "lost baggage",
			files: []models.UploadedFile{pdfFile("pir.pdf")},
			text:  "Lost baggage reported at the airport counter",
			want:  []models.DocumentType{models.DocLostBaggageReport},
		},
		{
			name:  "multiple rules fire",
			files: []models.UploadedFile{pdfFile("claim.pdf")},
			text:  "hospital invoice and doctor treatment notes with police fir",
			want: []models.DocumentType{
				models.DocHospitalBill,
				models.DocMedicalReport,
				models.DocPoliceReport,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.files, tt.text))
		})
	}
}

func TestClassifyMedicalTextWithoutImage(t *testing.T) {
	c := NewDocumentClassifier()

	got := c.Classify([]models.UploadedFile{pdfFile("records.pdf")}, "medical records attached")
	assert.Contains(t, got, models.DocMedicalReport)
	assert.NotContains(t, got, models.DocVehicleImages)
}

func TestClassifyVehicleImageRule(t *testing.T) {
	c := NewDocumentClassifier()

	// Image with non-medical text: vehicle images leads the result.
	got := c.Classify([]models.UploadedFile{imageFile("front.jpg")}, "dent on the bumper")
	assert.NotEmpty(t, got)
	assert.Equal(t, models.DocVehicleImages, got[0])
}

func TestClassifyImageWithMedicalText(t *testing.T) {
	c := NewDocumentClassifier()

	// Medical vocabulary in the text suppresses the image-presence branch,
	// and the filename carries no vehicle token.
	got := c.Classify([]models.UploadedFile{imageFile("scan001.jpg")}, "hospital admission record")
	assert.NotContains(t, got, models.DocVehicleImages)
	assert.Contains(t, got, models.DocHospitalBill)
}

func TestClassifyVehicleFilename(t *testing.T) {
	c := NewDocumentClassifier()

	// A PDF named like a vehicle photo still triggers the rule.
	got := c.Classify([]models.UploadedFile{pdfFile("car-damage.pdf")}, "")
	assert.Contains(t, got, models.DocVehicleImages)

	// A document-like name suppresses it.
	got = c.Classify([]models.UploadedFile{pdfFile("accident-report.pdf")}, "")
	assert.NotContains(t, got, models.DocVehicleImages)
}

func TestClassifyFallback(t *testing.T) {
	c := NewDocumentClassifier()

	// Nothing matches, no image: medical report only.
	got := c.Classify([]models.UploadedFile{pdfFile("notes.pdf")}, "miscellaneous text")
	assert.Equal(t, []models.DocumentType{models.DocMedicalReport}, got)

	// Image present but "report" in the text blocks the image rule and no
	// keyword fires: fallback emits vehicle images plus medical report.
	got = c.Classify([]models.UploadedFile{imageFile("scan.jpg")}, "annual report summary")
	assert.Equal(t, []models.DocumentType{models.DocVehicleImages, models.DocMedicalReport}, got)
}

func TestClassifyDeduplicates(t *testing.T) {
	c := NewDocumentClassifier()

	// Vehicle image rule and fallback would both emit Vehicle Images; the
	// result carries it once, in first-seen position.
	got := c.Classify([]models.UploadedFile{imageFile("car.jpg")}, "car damage photo")
	count := 0
	for _, l := range got {
		if l == models.DocVehicleImages {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, models.DocVehicleImages, got[0])
}

func TestClassifyIdempotent(t *testing.T) {
	c := NewDocumentClassifier()
	files := []models.UploadedFile{imageFile("damage.jpg"), pdfFile("bill.pdf")}
	text := "hospital bill and vehicle damage photos"

	first := c.Classify(files, text)
	second := c.Classify(files, text)
	assert.Equal(t, first, second)
}

func TestJoinLabels(t *testing.T) {
	assert.Equal(t, "", JoinLabels(nil))
	assert.Equal(t, "Hospital Bill", JoinLabels([]models.DocumentType{models.DocHospitalBill}))
	assert.Equal(t, "Vehicle Images, Medical Report",
		JoinLabels([]models.DocumentType{models.DocVehicleImages, models.DocMedicalReport}))
}
