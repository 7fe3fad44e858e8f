// Package extract turns uploaded claim documents into plain text for the
// classifier. Real OCR is out of scope: images yield a placeholder marker plus
// their decoded dimensions.
package extract

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/smartinsure/claimpilot/internal/models"
)

// Extractor converts one file's raw bytes into text.
type Extractor interface {
	// Extract returns the text content of the file, or an empty string when
	// the format carries none.
	Extract(filename string, data []byte) (string, error)

	// Supports reports whether this extractor handles the media type.
	Supports(mimeType string) bool
}

// Registry dispatches files to the first extractor that supports their media
// type and combines the per-file output.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry with the default extractor set.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			NewPDFExtractor(),
			NewHTMLExtractor(),
			NewImageExtractor(),
			NewPlainTextExtractor(),
		},
	}
}

// Result holds what was learned about one file during extraction.
type Result struct {
	File models.UploadedFile
	Text string
}

// ExtractFile runs the matching extractor and fills in file metadata. An
// unsupported or unreadable file is not an error: it contributes no text.
func (r *Registry) ExtractFile(filename, mimeType string, data []byte) Result {
	mediaType := resolveMediaType(filename, mimeType, data)
	file := models.UploadedFile{
		Filename:  filename,
		MimeType:  mediaType,
		SizeBytes: int64(len(data)),
	}

	for _, e := range r.extractors {
		if !e.Supports(mediaType) {
			continue
		}
		text, err := e.Extract(filename, data)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Str("mime", mimeType).Msg("Text extraction failed")
			break
		}
		if img, ok := e.(*ImageExtractor); ok {
			if w, h, derr := img.Dimensions(data); derr == nil {
				file.Width = w
				file.Height = h
			}
		}
		return Result{File: file, Text: text}
	}
	return Result{File: file}
}

// resolveMediaType picks the media type used for extractor dispatch. Browsers
// and multipart writers often label uploads application/octet-stream, so an
// unhelpful header falls back to the filename extension, then to content
// sniffing.
func resolveMediaType(filename, mimeType string, data []byte) string {
	if mimeType != "" && mimeType != "application/octet-stream" {
		return mimeType
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" && byExt != "application/octet-stream" {
		return byExt
	}
	return http.DetectContentType(data)
}

// Combine concatenates per-file text with the source marker the assistant has
// always shown above each extracted block.
func Combine(results []Result) string {
	var b strings.Builder
	for _, res := range results {
		if res.Text == "" {
			continue
		}
		b.WriteString(res.Text)
		if !strings.HasSuffix(res.Text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// PlainTextExtractor passes through UTF-8 text files.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a plain text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Supports reports whether the media type is plain text.
func (e *PlainTextExtractor) Supports(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/plain") || mimeType == "text/csv"
}

// Extract returns the trimmed file content, rejecting binary data.
func (e *PlainTextExtractor) Extract(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not valid UTF-8 text", filename)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", nil
	}
	return fmt.Sprintf("[Text Content from %s]\n%s", filename, text), nil
}
