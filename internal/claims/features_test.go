package claims

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartinsure/claimpilot/internal/models"
)

func TestSynthesizeSkipsNonImages(t *testing.T) {
	s := NewFeatureSynthesizer(rand.NewSource(1))

	features := s.Synthesize([]models.UploadedFile{
		{Filename: "bill.pdf", MimeType: "application/pdf"},
		{Filename: "notes.txt", MimeType: "text/plain"},
	})
	assert.Empty(t, features)
}

func TestSynthesize(t *testing.T) {
	s := NewFeatureSynthesizer(rand.NewSource(1))

	features := s.Synthesize([]models.UploadedFile{
		{Filename: "front.jpg", MimeType: "image/jpeg", Width: 800, Height: 600},
		{Filename: "broken.png", MimeType: "image/png"},
	})
	require.Len(t, features, 2)

	decoded := features[0]
	assert.Equal(t, "front.jpg", decoded.Filename)
	assert.InDelta(t, 800.0/600.0, decoded.AspectRatio, 1e-9)
	assert.True(t, decoded.HasText)
	assert.GreaterOrEqual(t, decoded.Complexity, 0.0)
	assert.Less(t, decoded.Complexity, 1.0)

	undecoded := features[1]
	assert.Zero(t, undecoded.AspectRatio)
	assert.False(t, undecoded.HasText)
}

func TestSynthesizeDeterministicSeed(t *testing.T) {
	files := []models.UploadedFile{{Filename: "a.jpg", MimeType: "image/jpeg", Width: 10, Height: 10}}

	a := NewFeatureSynthesizer(rand.NewSource(7)).Synthesize(files)
	b := NewFeatureSynthesizer(rand.NewSource(7)).Synthesize(files)
	assert.Equal(t, a, b)
}
