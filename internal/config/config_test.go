package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		envKeyConfigFile, envKeyGRPCAddr, envKeyHTTPAddr, envKeyLogLevel, envKeyLogPretty,
		envKeyOCREngine, envKeyOCRBaseURL, envKeyOCRAPIKey, envKeyOCRModel,
		envKeyOCRInFlight, envKeyOCRTimeout, envKeyUIQueueSize,
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v; want defaults %+v", cfg, Default())
	}
	if cfg.OCR.MaxInFlight != 3 || cfg.GRPCAddr != ":50051" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	yml := `
grpc_addr: ":6000"
log:
  level: debug
ocr:
  engine: ollama
  base_url: http://gpu-box:11434
  max_in_flight: 5
  timeout: 30s
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envKeyConfigFile, path)
	t.Setenv(envKeyOCRInFlight, "7")
	t.Setenv(envKeyHTTPAddr, ":9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GRPCAddr != ":6000" || cfg.HTTPAddr != ":9090" || cfg.Log.Level != "debug" {
		t.Fatalf("addresses/log = %+v", cfg)
	}
	if cfg.OCR.Engine != "ollama" || cfg.OCR.BaseURL != "http://gpu-box:11434" {
		t.Fatalf("ocr = %+v", cfg.OCR)
	}
	if cfg.OCR.MaxInFlight != 7 {
		t.Fatalf("env should override yaml: max_in_flight = %d", cfg.OCR.MaxInFlight)
	}
	if cfg.OCR.Timeout != 30*time.Second {
		t.Fatalf("timeout = %s", cfg.OCR.Timeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad int", map[string]string{envKeyOCRInFlight: "many"}, envKeyOCRInFlight},
		{"bad duration", map[string]string{envKeyOCRTimeout: "soon"}, envKeyOCRTimeout},
		{"unknown engine", map[string]string{envKeyOCREngine: "tesseract"}, "ocr.engine"},
		{"ollama without url", map[string]string{envKeyOCREngine: "ollama"}, "base_url"},
		{"zero in flight", map[string]string{envKeyOCRInFlight: "0"}, "max_in_flight"},
		{"missing file", map[string]string{envKeyConfigFile: "/does/not/exist.yaml"}, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() err = %v; want mention of %q", err, tt.want)
			}
		})
	}
}
