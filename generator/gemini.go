package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiBackend sends requests to the Gemini API with a structured-output
// schema that mirrors Draft.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a backend for the Gemini Developer API.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiBackend{client: client, model: model}, nil
}

// Generate issues a single GenerateContent call and returns the response text.
func (b *GeminiBackend) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// ResponseSchema describes the object the model must return: four required
// string properties.
func ResponseSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(RequiredFields))
	for _, name := range RequiredFields {
		props[name] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         append([]string(nil), RequiredFields...),
		PropertyOrdering: append([]string(nil), RequiredFields...),
	}
}
