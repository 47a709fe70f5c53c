// Package ocr holds TextRecognitionEngine implementations backed by vision
// models. Each engine bounds its own in-flight work and reports completion
// through the done callback on a background goroutine.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/ports"
)

var (
	ErrEngineBusy = errors.New("recognition engine at capacity")
	ErrDisabled   = errors.New("text recognition engine not configured")
)

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxInFlight int
	Timeout     time.Duration
}

// textModel turns one image into raw model text.
type textModel interface {
	extract(ctx context.Context, img domain.Image, cfg domain.RecognitionConfig) (string, error)
}

var (
	_ ports.TextRecognitionEngine = (*Engine)(nil)
	_ ports.TextRecognitionEngine = Disabled{}
)

type Engine struct {
	name    string
	model   textModel
	sem     chan struct{}
	timeout time.Duration
	log     zerolog.Logger
}

func newEngine(name string, model textModel, opts Options, log zerolog.Logger) *Engine {
	n := opts.MaxInFlight
	if n < 1 {
		n = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Engine{
		name:    name,
		model:   model,
		sem:     make(chan struct{}, n),
		timeout: timeout,
		log:     log.With().Str("component", "ocr").Str("engine", name).Logger(),
	}
}

// New builds the engine named by kind: "openai", "ollama" or "disabled".
func New(kind string, opts Options, log zerolog.Logger) (ports.TextRecognitionEngine, error) {
	switch kind {
	case "", "disabled":
		return Disabled{}, nil
	case "openai":
		return NewOpenAIEngine(opts, log), nil
	case "ollama":
		if opts.BaseURL == "" {
			return nil, errors.New("ollama engine needs a base url")
		}
		return NewOllamaEngine(opts, log), nil
	}
	return nil, fmt.Errorf("unknown ocr engine %q", kind)
}

func (e *Engine) Perform(ctx context.Context, img domain.Image, cfg domain.RecognitionConfig, done ports.RecognitionDone) error {
	select {
	case e.sem <- struct{}{}:
	default:
		return ErrEngineBusy
	}

	go func() {
		defer func() { <-e.sem }()
		defer func() {
			if r := recover(); r != nil {
				e.log.Error().Interface("panic", r).Str("path", img.Path).Msg("recognition panicked")
				done(nil, fmt.Errorf("engine panicked: %v", r))
			}
		}()
		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		start := time.Now()
		text, err := e.model.extract(ctx, img, cfg)
		if err != nil {
			e.log.Error().Err(err).Str("path", img.Path).Msg("recognition failed")
			done(nil, err)
			return
		}
		obs := Observations(text)
		e.log.Debug().
			Str("path", img.Path).
			Int("regions", len(obs)).
			Dur("elapsed", time.Since(start)).
			Msg("recognition finished")
		done(obs, nil)
	}()
	return nil
}

// Disabled refuses every request; it is the default when no model is configured.
type Disabled struct{}

func (Disabled) Perform(context.Context, domain.Image, domain.RecognitionConfig, ports.RecognitionDone) error {
	return ErrDisabled
}
