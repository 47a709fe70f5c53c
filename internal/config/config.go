// Package config loads runtime settings: defaults, then an optional YAML
// file, then environment variables (a .env file is read first if present).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GRPCAddr string    `yaml:"grpc_addr"`
	HTTPAddr string    `yaml:"http_addr"`
	Log      LogConfig `yaml:"log"`
	OCR      OCRConfig `yaml:"ocr"`
	UI       UIConfig  `yaml:"ui"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type OCRConfig struct {
	Engine      string        `yaml:"engine"` // disabled | openai | ollama
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	MaxInFlight int           `yaml:"max_in_flight"`
	Timeout     time.Duration `yaml:"timeout"`
}

type UIConfig struct {
	QueueSize int `yaml:"queue_size"`
}

const (
	envKeyConfigFile  = "CONFIG_FILE"
	envKeyGRPCAddr    = "GRPC_ADDR"
	envKeyHTTPAddr    = "HTTP_ADDR"
	envKeyLogLevel    = "LOG_LEVEL"
	envKeyLogPretty   = "LOG_PRETTY"
	envKeyOCREngine   = "OCR_ENGINE"
	envKeyOCRBaseURL  = "OCR_BASE_URL"
	envKeyOCRAPIKey   = "OCR_API_KEY"
	envKeyOCRModel    = "OCR_MODEL"
	envKeyOCRInFlight = "OCR_MAX_IN_FLIGHT"
	envKeyOCRTimeout  = "OCR_TIMEOUT"
	envKeyUIQueueSize = "UI_QUEUE_SIZE"
)

func Default() Config {
	return Config{
		GRPCAddr: ":50051",
		HTTPAddr: ":8080",
		Log:      LogConfig{Level: "info"},
		OCR: OCRConfig{
			Engine:      "disabled",
			MaxInFlight: 3,
			Timeout:     2 * time.Minute,
		},
		UI: UIConfig{QueueSize: 16},
	}
}

// Load builds the configuration. path overrides CONFIG_FILE; when both are
// empty no file is read.
func Load(path string) (Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv(envKeyConfigFile)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.GRPCAddr, envKeyGRPCAddr)
	setString(&c.HTTPAddr, envKeyHTTPAddr)
	setString(&c.Log.Level, envKeyLogLevel)
	setString(&c.OCR.Engine, envKeyOCREngine)
	setString(&c.OCR.BaseURL, envKeyOCRBaseURL)
	setString(&c.OCR.APIKey, envKeyOCRAPIKey)
	setString(&c.OCR.Model, envKeyOCRModel)

	return errors.Join(
		setBool(&c.Log.Pretty, envKeyLogPretty),
		setInt(&c.OCR.MaxInFlight, envKeyOCRInFlight),
		setDuration(&c.OCR.Timeout, envKeyOCRTimeout),
		setInt(&c.UI.QueueSize, envKeyUIQueueSize),
	)
}

func (c Config) Validate() error {
	switch c.OCR.Engine {
	case "disabled", "openai", "ollama":
	default:
		return fmt.Errorf("ocr.engine %q: want disabled, openai or ollama", c.OCR.Engine)
	}
	if c.OCR.Engine == "ollama" && c.OCR.BaseURL == "" {
		return errors.New("ocr.base_url is required for the ollama engine")
	}
	if c.OCR.MaxInFlight < 1 {
		return fmt.Errorf("ocr.max_in_flight must be at least 1, got %d", c.OCR.MaxInFlight)
	}
	if c.OCR.Timeout <= 0 {
		return fmt.Errorf("ocr.timeout must be positive, got %s", c.OCR.Timeout)
	}
	if c.UI.QueueSize < 1 {
		return fmt.Errorf("ui.queue_size must be at least 1, got %d", c.UI.QueueSize)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
