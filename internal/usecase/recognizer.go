package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/promise"
	"github.com/cp25sy5-modjot/native-bridge/internal/ports"
)

// TextRecognizer runs recognizeText against a TextRecognitionEngine.
type TextRecognizer struct {
	engine ports.TextRecognitionEngine
	log    zerolog.Logger
}

func NewTextRecognizer(engine ports.TextRecognitionEngine, log zerolog.Logger) *TextRecognizer {
	return &TextRecognizer{
		engine: engine,
		log:    log.With().Str("component", "text_recognizer").Logger(),
	}
}

// Recognize returns immediately; image loading and the engine call happen on
// a background goroutine.
func (r *TextRecognizer) Recognize(ctx context.Context, req domain.RecognizeTextRequest) *promise.Promise[domain.Outcome] {
	p := promise.New[domain.Outcome]()
	// in-flight work is never cancelled by the caller
	ctx = context.WithoutCancel(ctx)
	go r.run(ctx, req, p)
	return p
}

func (r *TextRecognizer) run(ctx context.Context, req domain.RecognizeTextRequest, p *promise.Promise[domain.Outcome]) {
	img, err := loadImage(req.Path)
	if err != nil {
		r.log.Debug().Err(err).Str("path", req.Path).Msg("image load failed")
		p.Resolve(domain.Fail(domain.CodeImageLoadError, "Failed to load image from path: %s", req.Path))
		return
	}

	done := func(obs []domain.TextObservation, err error) {
		var out domain.Outcome
		if err != nil {
			out = domain.Fail(domain.CodeRecognitionError, "Text recognition failed: %v", err)
		} else {
			out = domain.Success(joinTopCandidates(obs))
		}
		if !p.Resolve(out) {
			r.log.Warn().Str("path", req.Path).Msg("engine completed more than once; ignoring")
		}
	}

	if err := r.engine.Perform(ctx, img, domain.DefaultRecognitionConfig(), done); err != nil {
		p.Resolve(domain.Fail(domain.CodeRequestError, "Failed to perform text recognition: %v", err))
	}
}

// joinTopCandidates keeps detection order and only the rank-1 candidate.
func joinTopCandidates(obs []domain.TextObservation) string {
	lines := make([]string, 0, len(obs))
	for _, o := range obs {
		if c, ok := o.Top(); ok {
			lines = append(lines, c.Text)
		}
	}
	return strings.Join(lines, "\n")
}
