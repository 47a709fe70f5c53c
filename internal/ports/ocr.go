package ports

import (
	"context"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

// RecognitionDone receives the engine's completion. Engines should call it
// once; callers tolerate extra calls.
type RecognitionDone func(observations []domain.TextObservation, err error)

type TextRecognitionEngine interface {
	// Perform starts recognition and returns immediately. A non-nil error
	// means the request was never started and done will not be called.
	Perform(ctx context.Context, img domain.Image, cfg domain.RecognitionConfig, done RecognitionDone) error
}
