package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini implements Client against the hosted Gemini API.
type Gemini struct {
	client    *genai.Client
	modelName string
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		modelName: modelName,
	}, nil
}

// mapRole translates transcript roles into the model's vocabulary. Kept
// separate so a provider swap only touches this function.
func mapRole(role string) genai.Role {
	if role == RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Converse sends the full history and returns the generated reply text.
// No retries; any transport or provider error is returned as-is.
func (g *Gemini) Converse(ctx context.Context, history []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Content, mapRole(m.Role)))
	}
	// Trailing blank user turn; the mapped history carries the prompt.
	contents = append(contents, genai.NewContentFromText("", genai.RoleUser))

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}
