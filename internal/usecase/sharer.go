package usecase

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/pkg/promise"
	"github.com/cp25sy5-modjot/native-bridge/internal/ports"
)

// FileSharer runs shareFile: it checks the file, then presents the share
// sheet on the UI context.
type FileSharer struct {
	sheet ports.ShareSheet
	ui    ports.UIExecutor
	log   zerolog.Logger
}

func NewFileSharer(sheet ports.ShareSheet, ui ports.UIExecutor, log zerolog.Logger) *FileSharer {
	return &FileSharer{
		sheet: sheet,
		ui:    ui,
		log:   log.With().Str("component", "file_sharer").Logger(),
	}
}

func (s *FileSharer) Share(ctx context.Context, req domain.ShareFileRequest) *promise.Promise[domain.Outcome] {
	if _, err := os.Stat(req.Path); err != nil {
		return promise.Resolved(domain.Fail(domain.CodeFileNotFound, "File not found at path: %s", req.Path))
	}

	sheet := buildShareSheet(req)
	p := promise.New[domain.Outcome]()
	ctx = context.WithoutCancel(ctx)

	done := func(completed bool, err error) {
		var out domain.Outcome
		if err != nil {
			out = domain.Fail(domain.CodeShareError, "Share failed: %v", err)
		} else {
			out = domain.Success(completed)
		}
		if !p.Resolve(out) {
			s.log.Warn().Str("path", req.Path).Msg("share sheet completed more than once; ignoring")
		}
	}

	// Post may wait for room in the UI queue; the caller must not.
	go func() {
		present := func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error().Interface("panic", r).Str("path", req.Path).Msg("share sheet panicked")
					done(false, fmt.Errorf("present panicked: %v", r))
				}
			}()
			if err := s.sheet.Present(ctx, sheet, done); err != nil {
				done(false, err)
			}
		}
		if err := s.ui.Post(present, func(err error) { done(false, err) }); err != nil {
			done(false, err)
		}
	}()
	return p
}

// buildShareSheet puts the optional text first, then the file.
func buildShareSheet(req domain.ShareFileRequest) domain.ShareSheet {
	items := make([]domain.ShareItem, 0, 2)
	if req.Text != nil {
		items = append(items, domain.ShareItem{Kind: domain.ShareItemText, Text: *req.Text})
	}
	items = append(items, fileItem(req.Path))

	var subject string
	if req.Subject != nil {
		subject = *req.Subject
	}
	return domain.ShareSheet{Items: items, Subject: subject}
}

func fileItem(path string) domain.ShareItem {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return domain.ShareItem{Kind: domain.ShareItemFile, Path: path, URI: u.String()}
}
