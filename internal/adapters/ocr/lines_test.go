package ocr

import (
	"strings"
	"testing"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

func TestObservations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain", "Hello\nWorld", []string{"Hello", "World"}},
		{"blank lines and crlf", "\r\n  Hello  \r\n\r\nWorld\r\n", []string{"Hello", "World"}},
		{"fenced", "```text\nInvoice 42\n```", []string{"Invoice 42"}},
		{"table", "| Item | Price |\n|------|-------|\n| Tea | 3.00 |", []string{"Item Price", "Tea 3.00"}},
		{"inline separators normalized", "ID: A|B\nTotal ==== 5", []string{"ID: A B", "Total 5"}},
		{"no text marker", " <no-text> ", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Observations(tt.raw))
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("Observations(%q) = %q; want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(domain.DefaultRecognitionConfig())
	if !strings.Contains(p, "Correct characters") || !strings.Contains(p, noText) {
		t.Fatalf("prompt missing language correction or no-text marker:\n%s", p)
	}
}
