package claims

import (
	"math/rand"
	"strings"

	"github.com/smartinsure/claimpilot/internal/models"
)

// FeatureSynthesizer produces cosmetic per-image attributes for display in
// upload summaries. The randomized scores are isolated behind an injected
// source so callers can fix the seed; classification never reads them.
type FeatureSynthesizer struct {
	rng *rand.Rand
}

// NewFeatureSynthesizer creates a synthesizer backed by the given source.
func NewFeatureSynthesizer(src rand.Source) *FeatureSynthesizer {
	return &FeatureSynthesizer{rng: rand.New(src)}
}

// Synthesize derives display features for every image file in the batch.
// Files that failed to decode keep zero dimensions and hasText=false.
func (s *FeatureSynthesizer) Synthesize(files []models.UploadedFile) []models.ImageFeatures {
	var features []models.ImageFeatures
	for _, f := range files {
		if !strings.HasPrefix(f.MimeType, "image/") {
			continue
		}
		feat := models.ImageFeatures{
			Filename: f.Filename,
			Width:    f.Width,
			Height:   f.Height,
		}
		if f.Width > 0 && f.Height > 0 {
			feat.AspectRatio = float64(f.Width) / float64(f.Height)
			feat.HasText = true
		}
		feat.Complexity = s.rng.Float64()
		feat.Brightness = s.rng.Float64()
		feat.Contrast = s.rng.Float64()
		features = append(features, feat)
	}
	return features
}
