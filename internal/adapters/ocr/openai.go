package ocr

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

const defaultOpenAIModel = "gpt-4o-mini"

type openAIModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine talks to any OpenAI-compatible chat completions endpoint
// that accepts image input.
func NewOpenAIEngine(opts Options, log zerolog.Logger) *Engine {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return newEngine("openai", &openAIModel{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, opts, log)
}

func (m *openAIModel) extract(ctx context.Context, img domain.Image, cfg domain.RecognitionConfig) (string, error) {
	mime, data, err := modelPayload(img)
	if err != nil {
		return "", err
	}

	detail := openai.ImageURLDetailHigh
	if cfg.Level != domain.RecognitionAccurate {
		detail = openai.ImageURLDetailLow
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildPrompt(cfg)},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
						Detail: detail,
					},
				}},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
