package domain

import "image"

type RecognitionLevel string

const (
	RecognitionAccurate RecognitionLevel = "accurate"
	RecognitionFast     RecognitionLevel = "fast"
)

type RecognitionConfig struct {
	Level              RecognitionLevel
	LanguageCorrection bool
}

// DefaultRecognitionConfig is the only configuration the bridge ever requests.
func DefaultRecognitionConfig() RecognitionConfig {
	return RecognitionConfig{Level: RecognitionAccurate, LanguageCorrection: true}
}

// Image is a decoded image plus the bytes it came from.
type Image struct {
	Path    string
	Format  string
	Data    []byte
	Bounds  image.Rectangle
	Decoded image.Image
}

type TextCandidate struct {
	Text       string
	Confidence float64
}

// TextObservation is one detected text region; Candidates are ranked best first.
type TextObservation struct {
	Candidates []TextCandidate
}

// Top returns the rank-1 candidate.
func (o TextObservation) Top() (TextCandidate, bool) {
	if len(o.Candidates) == 0 {
		return TextCandidate{}, false
	}
	return o.Candidates[0], true
}
