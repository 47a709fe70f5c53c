package ocr

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

func buildPrompt(cfg domain.RecognitionConfig) string {
	var b strings.Builder
	b.WriteString("Transcribe all text visible in the image.\n")
	b.WriteString("Return plain text only. No comments. No markdown.\n")
	b.WriteString("Write one detected line of text per output line, top to bottom, left to right.\n")
	fmt.Fprintf(&b, "If the image contains no text, answer exactly %s.\n", noText)
	if cfg.Level == domain.RecognitionAccurate {
		b.WriteString("Be exhaustive: include small print, headers and footers.\n")
	}
	if cfg.LanguageCorrection {
		b.WriteString("Correct characters that are clearly misread, using the language of the surrounding words.\n")
	} else {
		b.WriteString("Do not correct spelling; copy characters exactly as they appear.\n")
	}
	return b.String()
}

// modelPayload returns bytes a vision model accepts. Formats models do not
// read directly are re-encoded as PNG.
func modelPayload(img domain.Image) (mime string, data []byte, err error) {
	switch img.Format {
	case "png", "jpeg", "gif", "webp":
		return "image/" + img.Format, img.Data, nil
	}
	if img.Decoded == nil {
		return "", nil, fmt.Errorf("unsupported image format %q", img.Format)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Decoded); err != nil {
		return "", nil, fmt.Errorf("re-encode %s as png: %w", img.Format, err)
	}
	return "image/png", buf.Bytes(), nil
}
