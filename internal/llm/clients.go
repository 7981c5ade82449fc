package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ChatClient abstracts the model-call boundary needed by domain services:
// a (system prompt, user prompt) pair in, free text out. The reply is
// expected (not guaranteed) to parse as a single JSON object.
type ChatClient interface {
	GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// GeminiChatClient adapts the genai SDK to the ChatClient interface.
type GeminiChatClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiChatClient creates a ChatClient backed by Gemini. Replies are
// forced into JSON mode so the caller's schema validation sees as little
// surrounding prose as possible.
func NewGeminiChatClient(ctx context.Context, apiKey, model string, temperature float32) (*GeminiChatClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiChatClient{client: client, model: model, temperature: temperature}, nil
}

func (g *GeminiChatClient) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		ResponseMIMEType: "application/json",
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no candidate text in model response")
	}
	return text.String(), nil
}

func (g *GeminiChatClient) Model() string {
	return g.model
}
