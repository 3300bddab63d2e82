package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"axom-backend/internal/logger"
	"axom-backend/internal/models"
)

// GeminiProvider re-sends the full recorded history to Gemini on every call.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string, temperature *float32) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	if temperature != nil {
		model.SetTemperature(*temperature)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) Generate(ctx context.Context, history []models.Turn, message string) (string, error) {
	contents, pending := toContents(history)

	cs := p.model.StartChat()
	cs.History = contents

	parts := make([]genai.Part, 0, len(pending)+1)
	for _, text := range pending {
		parts = append(parts, genai.Text(text))
	}
	parts = append(parts, genai.Text(message))

	resp, err := cs.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			logger.Warnw("Gemini stopped early", "candidate", i, "finish_reason", cand.FinishReason.String())
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("Gemini returned an empty reply")
	}
	return text, nil
}

// toContents converts recorded turns into Gemini contents. Consecutive turns with the same
// role are merged so the request alternates. Trailing user turns (sent earlier but never
// answered) are returned as pending parts to go out with the next message.
func toContents(turns []models.Turn) ([]*genai.Content, []string) {
	var contents []*genai.Content
	for _, t := range turns {
		role := string(t.Role)
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			for _, part := range t.Parts {
				contents[n-1].Parts = append(contents[n-1].Parts, genai.Text(part))
			}
			continue
		}
		c := &genai.Content{Role: role}
		for _, part := range t.Parts {
			c.Parts = append(c.Parts, genai.Text(part))
		}
		contents = append(contents, c)
	}

	var pending []string
	if n := len(contents); n > 0 && contents[n-1].Role == string(models.RoleUser) {
		for _, part := range contents[n-1].Parts {
			if t, ok := part.(genai.Text); ok {
				pending = append(pending, string(t))
			}
		}
		contents = contents[:n-1]
	}
	return contents, pending
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// UnavailableProvider fails every call with Err. Used when Gemini cannot be configured
// so the server still starts and reports the problem per request.
type UnavailableProvider struct {
	Err error
}

func (p UnavailableProvider) Generate(ctx context.Context, history []models.Turn, message string) (string, error) {
	return "", p.Err
}
