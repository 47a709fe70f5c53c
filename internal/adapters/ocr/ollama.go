package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

const defaultOllamaModel = "llama3.2-vision"

type ollamaModel struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        zerolog.Logger
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Images  []string       `json:"images"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaEngine uses the /api/generate endpoint of an Ollama host with a
// vision-capable model.
func NewOllamaEngine(opts Options, log zerolog.Logger) *Engine {
	model := opts.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return newEngine("ollama", &ollamaModel{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
		log:        log.With().Str("component", "ocr").Str("engine", "ollama").Logger(),
	}, opts, log)
}

func (o *ollamaModel) extract(ctx context.Context, img domain.Image, cfg domain.RecognitionConfig) (string, error) {
	_, data, err := modelPayload(img)
	if err != nil {
		return "", err
	}
	payload := ollamaRequest{
		Model:   o.model,
		Prompt:  buildPrompt(cfg),
		Images:  []string{base64.StdEncoding.EncodeToString(data)},
		Stream:  false,
		Options: &ollamaOptions{Temperature: 0, NumPredict: 4096},
	}

	raw, err := o.sendRequest(ctx, payload)
	if err != nil {
		return "", err
	}
	defer raw.Body.Close()

	var resp ollamaResponse
	if err := json.NewDecoder(raw.Body).Decode(&resp); err != nil {
		o.log.Error().Err(err).Msg("failed to decode ollama response json")
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if !resp.Done {
		return "", fmt.Errorf("ollama response incomplete")
	}
	return resp.Response, nil
}

func (o *ollamaModel) sendRequest(ctx context.Context, payload ollamaRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama API connection error: %w", err)
	}
	if raw.StatusCode != http.StatusOK {
		defer raw.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(raw.Body, 4<<10))
		return nil, fmt.Errorf("ollama API error: %d - %s", raw.StatusCode, strings.TrimSpace(string(msg)))
	}
	return raw, nil
}
