package usecase

import (
	"strings"
	"testing"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

func TestParseArguments(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		wantErr bool
	}{
		{"map", map[string]any{"path": "/a"}, false},
		{"typed", Arguments{"path": "/a"}, false},
		{"nil", nil, false},
		{"list", []any{"/a"}, true},
		{"string", "/a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArguments(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseArguments(%v) err = %v; wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				e, ok := domain.AsError(err)
				if !ok || e.Code != domain.CodeInvalidArgument {
					t.Fatalf("err = %v; want INVALID_ARGUMENT", err)
				}
			}
		})
	}
}

func TestRequireString(t *testing.T) {
	tests := []struct {
		name string
		args Arguments
		want string
		ok   bool
	}{
		{"present", Arguments{"path": "/tmp/x.png"}, "/tmp/x.png", true},
		{"empty string is present", Arguments{"path": ""}, "", true},
		{"missing", Arguments{}, "", false},
		{"nil value", Arguments{"path": nil}, "", false},
		{"number", Arguments{"path": 42.0}, "", false},
		{"bool", Arguments{"path": true}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.args.RequireString("path", "Image path")
			if tt.ok {
				if err != nil || got != tt.want {
					t.Fatalf("RequireString() = %q, %v; want %q, nil", got, err, tt.want)
				}
				return
			}
			e, ok := domain.AsError(err)
			if !ok || e.Code != domain.CodeInvalidArgument {
				t.Fatalf("err = %v; want INVALID_ARGUMENT", err)
			}
			if !strings.HasPrefix(e.Message, "Image path is required") || !strings.Contains(e.Message, `"path"`) {
				t.Fatalf("message %q should name the field", e.Message)
			}
		})
	}
}

func TestOptionalString(t *testing.T) {
	args := Arguments{"subject": "Report", "text": 7}
	if s := args.OptionalString("subject"); s == nil || *s != "Report" {
		t.Fatalf("subject = %v; want Report", s)
	}
	if s := args.OptionalString("text"); s != nil {
		t.Fatalf("non-string text should be absent, got %q", *s)
	}
	if s := args.OptionalString("missing"); s != nil {
		t.Fatalf("missing key should be absent, got %q", *s)
	}
}

func TestDecodeShareFile(t *testing.T) {
	req, err := decodeShareFile(Arguments{"path": "/f.pdf", "text": "note"})
	if err != nil {
		t.Fatalf("decodeShareFile() error = %v", err)
	}
	if req.Path != "/f.pdf" || req.Text == nil || *req.Text != "note" || req.Subject != nil {
		t.Fatalf("req = %+v", req)
	}

	_, err = decodeShareFile(Arguments{"text": "note"})
	e, ok := domain.AsError(err)
	if !ok || !strings.HasPrefix(e.Message, "File path is required") {
		t.Fatalf("err = %v; want File path is required", err)
	}
}
