package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// Gemini completes prompts with Google's Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini builds a Gemini client. An empty baseURL uses the public endpoint.
func NewGemini(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{client: client}, nil
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	temperature := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("genai returned no candidates")
	}

	return resp.Text(), nil
}
