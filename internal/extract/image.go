package extract

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

// ImageExtractor handles photo uploads. There is no real OCR: images yield a
// placeholder marker so the classifier still sees which files carried text
// content, and dimensions are decoded from the image header for display.
type ImageExtractor struct{}

// NewImageExtractor creates an image extractor.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// Supports reports whether the media type is a supported image format.
func (e *ImageExtractor) Supports(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	default:
		return false
	}
}

// Extract returns the OCR placeholder for the image.
func (e *ImageExtractor) Extract(filename string, data []byte) (string, error) {
	return fmt.Sprintf("[OCR Content from %s]", filename), nil
}

// Dimensions decodes width and height from the image header without decoding
// pixel data. An undecodable image is reported as an error; callers treat it
// as zero-sized.
func (e *ImageExtractor) Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
