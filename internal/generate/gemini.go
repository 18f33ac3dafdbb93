package generate

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ContentGenerator is one configured model. Each call is a single request.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

// Gemini owns the API client shared by every configured model.
type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Model returns a generator bound to name. configure may adjust the
// generation config (response schema, temperature) before first use.
func (g *Gemini) Model(name string, configure func(*genai.GenerativeModel)) ContentGenerator {
	m := g.client.GenerativeModel(name)
	if configure != nil {
		configure(m)
	}
	return &geminiModel{name: name, m: m}
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

type geminiModel struct {
	name string
	m    *genai.GenerativeModel
}

func (g *geminiModel) Generate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	log.Printf("[Generate] request to %s", g.name)
	resp, err := g.m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", g.name, err)
	}
	return resp, nil
}

func parts(resp *genai.GenerateContentResponse) []genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}
