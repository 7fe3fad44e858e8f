package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls the text layer out of PDF documents.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Supports reports whether the media type is PDF.
func (e *PDFExtractor) Supports(mimeType string) bool {
	return mimeType == "application/pdf"
}

// Extract reads the plain text of every page. PDFs without a text layer
// (scans) yield an empty string rather than an error.
func (e *PDFExtractor) Extract(filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF %s: %w", filename, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text from %s: %w", filename, err)
	}

	raw, err := io.ReadAll(textReader)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text from %s: %w", filename, err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", nil
	}
	return fmt.Sprintf("[PDF Content from %s]\n%s", filename, text), nil
}
