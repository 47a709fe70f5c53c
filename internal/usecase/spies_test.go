package usecase

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/promise"
	"github.com/cp25sy5-modjot/native-bridge/internal/ports"
)

// fakeEngine answers every Perform with a fixed result on a new goroutine.
type fakeEngine struct {
	obs      []domain.TextObservation
	err      error
	startErr error
	twice    bool

	calls atomic.Int32
	mu    sync.Mutex
	cfg   domain.RecognitionConfig
	img   domain.Image
}

func (e *fakeEngine) Perform(ctx context.Context, img domain.Image, cfg domain.RecognitionConfig, done ports.RecognitionDone) error {
	e.calls.Add(1)
	e.mu.Lock()
	e.cfg, e.img = cfg, img
	e.mu.Unlock()
	if e.startErr != nil {
		return e.startErr
	}
	go func() {
		done(e.obs, e.err)
		if e.twice {
			done(nil, nil)
		}
	}()
	return nil
}

// spyUI runs posted functions on its own goroutine and records whether a
// function is currently executing on it.
type spyUI struct {
	onUI    atomic.Bool
	posts   atomic.Int32
	postErr error
	dropErr error
}

func (u *spyUI) Post(fn func(), dropped func(error)) error {
	if u.postErr != nil {
		return u.postErr
	}
	u.posts.Add(1)
	if u.dropErr != nil {
		go dropped(u.dropErr)
		return nil
	}
	go func() {
		u.onUI.Store(true)
		defer u.onUI.Store(false)
		fn()
	}()
	return nil
}

type spySheet struct {
	ui        *spyUI
	completed bool
	err       error
	startErr  error
	panics    bool

	calls   atomic.Int32
	mu      sync.Mutex
	sheet   domain.ShareSheet
	wasOnUI bool
}

func (s *spySheet) Present(ctx context.Context, sheet domain.ShareSheet, done ports.ShareDone) error {
	s.calls.Add(1)
	s.mu.Lock()
	s.sheet = sheet
	s.wasOnUI = s.ui != nil && s.ui.onUI.Load()
	s.mu.Unlock()
	if s.panics {
		panic("share surface crashed")
	}
	if s.startErr != nil {
		return s.startErr
	}
	go done(s.completed, s.err)
	return nil
}

func (s *spySheet) presented() (domain.ShareSheet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet, s.wasOnUI
}

// spyRecognizer and spySharer stand in for the adapters in dispatcher tests.
type spyRecognizer struct {
	calls atomic.Int32
	last  domain.RecognizeTextRequest
}

func (r *spyRecognizer) Recognize(ctx context.Context, req domain.RecognizeTextRequest) *promise.Promise[domain.Outcome] {
	r.calls.Add(1)
	r.last = req
	return promise.Resolved(domain.Success("text"))
}

type spySharer struct {
	calls atomic.Int32
	last  domain.ShareFileRequest
}

func (s *spySharer) Share(ctx context.Context, req domain.ShareFileRequest) *promise.Promise[domain.Outcome] {
	s.calls.Add(1)
	s.last = req
	return promise.Resolved(domain.Success(true))
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	path := filepath.Join(t.TempDir(), "page.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func await(t *testing.T, p *promise.Promise[domain.Outcome]) domain.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := p.Await(ctx)
	if err != nil {
		t.Fatalf("outcome never settled: %v", err)
	}
	return out
}

func wantFailure(t *testing.T, out domain.Outcome, code domain.ErrorCode) {
	t.Helper()
	if out.Kind != domain.OutcomeFailure || out.Err == nil {
		t.Fatalf("outcome = %+v; want failure %s", out, code)
	}
	if out.Err.Code != code {
		t.Fatalf("code = %s; want %s (message %q)", out.Err.Code, code, out.Err.Message)
	}
}

func wantSuccess(t *testing.T, out domain.Outcome, value any) {
	t.Helper()
	if out.Kind != domain.OutcomeSuccess {
		t.Fatalf("outcome = %+v; want success %v", out, value)
	}
	if out.Value != value {
		t.Fatalf("value = %#v; want %#v", out.Value, value)
	}
}
