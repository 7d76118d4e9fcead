package docfill

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GenerateOption represents options for a single generation call
type GenerateOption func(*generateConfig)

type generateConfig struct {
	ModelName       string
	Messages        []*Message
	Temperature     *float32
	MaxOutputTokens int32
}

// WithModelName sets the model name
func WithModelName(name string) GenerateOption {
	return func(cfg *generateConfig) { cfg.ModelName = name }
}

// WithMessages sets the messages
func WithMessages(messages ...*Message) GenerateOption {
	return func(cfg *generateConfig) { cfg.Messages = messages }
}

// WithGenTemperature pins the sampling temperature for this call
func WithGenTemperature(t *float32) GenerateOption {
	return func(cfg *generateConfig) { cfg.Temperature = t }
}

// WithGenMaxOutputTokens caps the response length for this call
func WithGenMaxOutputTokens(n int32) GenerateOption {
	return func(cfg *generateConfig) { cfg.MaxOutputTokens = n }
}

// GenerateBytes generates a raw JSON payload using the GenAI API.
func GenerateBytes(ctx context.Context, client *genai.Client, log *slog.Logger, opts ...GenerateOption) ([]byte, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if client == nil {
		return nil, fmt.Errorf("client not initialized")
	}
	if cfg.ModelName == "" {
		return nil, ErrModelMissing
	}

	var contents []*genai.Content
	for _, msg := range cfg.Messages {
		var parts []*genai.Part
		for _, part := range msg.Parts {
			switch part.Type {
			case "text":
				parts = append(parts, genai.NewPartFromText(part.Text))
			case "data":
				parts = append(parts, genai.NewPartFromBytes(part.Data, part.MimeType))
			}
		}
		if len(parts) > 0 {
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("no valid content provided")
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if cfg.Temperature != nil {
		config.Temperature = cfg.Temperature
	}
	if cfg.MaxOutputTokens > 0 {
		config.MaxOutputTokens = cfg.MaxOutputTokens
	}

	log.Debug("generating content", "model", cfg.ModelName, "content_count", len(contents))

	resp, err := client.Models.GenerateContent(ctx, cfg.ModelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no parts in candidate content")
	}
	part := candidate.Content.Parts[0]
	if part.Text == "" {
		return nil, fmt.Errorf("no text in first part of response")
	}

	log.Debug("generated content", "response_length", len(part.Text))
	return []byte(part.Text), nil
}

// genaiInvoker implements the Invoker interface using Google GenAI
type genaiInvoker struct {
	client *genai.Client
	log    *slog.Logger
}

func (gv *genaiInvoker) Generate(
	ctx context.Context,
	model Model,
	prompt string,
	media []*Part,
) ([]byte, error) {
	gv.log.Debug("starting generation", "model", string(model), "prompt_length", len(prompt), "media_count", len(media))

	if gv.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}

	return GenerateBytes(ctx, gv.client, gv.log,
		WithModelName(string(model)),
		WithMessages(NewUserMessage(
			append([]*Part{NewTextPart(prompt)}, media...)...,
		)),
	)
}
