package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const MaxSuggestions = 5

type Suggestion struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason string `json:"reason"`
}

type suggestionOutput struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// SuggestionSchema constrains model output to {suggestions:[{title,author,reason}]}.
var SuggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestions": {
			Type:        genai.TypeArray,
			Description: "3-5 personalized reading suggestions",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":  {Type: genai.TypeString, Description: "The title of the suggested book."},
					"author": {Type: genai.TypeString, Description: "The author of the suggested book."},
					"reason": {Type: genai.TypeString, Description: "A short, compelling reason why the user would enjoy this book."},
				},
				Required: []string{"title", "author", "reason"},
			},
		},
	},
	Required: []string{"suggestions"},
}

// ConfigureSuggestions requests JSON matching SuggestionSchema.
func ConfigureSuggestions(m *genai.GenerativeModel) {
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = SuggestionSchema
}

type Suggester struct {
	model  ContentGenerator
	tracer trace.Tracer
}

func NewSuggester(model ContentGenerator) *Suggester {
	return &Suggester{model: model, tracer: otel.Tracer("earthy-reads/generate")}
}

// Suggest asks the model for reading suggestions based on readingList.
// A blank list never reaches the model.
func (s *Suggester) Suggest(ctx context.Context, readingList string) ([]Suggestion, error) {
	readingList = strings.TrimSpace(readingList)
	if readingList == "" {
		return nil, ErrEmptyReadingList
	}
	if s == nil || s.model == nil {
		return nil, ErrNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "generate.suggest",
		trace.WithAttributes(attribute.Int("reading_list.length", len(readingList))))
	defer span.End()

	resp, err := s.model.Generate(ctx, suggestionPrompt(readingList))
	if err != nil {
		log.Printf("[Generate] suggest: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, errors.Join(ErrUpstream, err)
	}

	out, err := decodeSuggestions(resp)
	if err != nil {
		log.Printf("[Generate] suggest: %v", err)
		span.SetStatus(codes.Error, "no suggestions")
		return nil, ErrNoSuggestions
	}
	span.SetAttributes(attribute.Int("suggestion.count", len(out)))
	return out, nil
}

func decodeSuggestions(resp *genai.GenerateContentResponse) ([]Suggestion, error) {
	var text strings.Builder
	for _, p := range parts(resp) {
		if t, ok := p.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	raw := strings.TrimSpace(text.String())
	if raw == "" {
		return nil, errors.New("empty model output")
	}

	var parsed suggestionOutput
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(parsed.Suggestions))
	for _, sg := range parsed.Suggestions {
		sg.Title = strings.TrimSpace(sg.Title)
		sg.Author = strings.TrimSpace(sg.Author)
		sg.Reason = strings.TrimSpace(sg.Reason)
		if sg.Title == "" {
			continue
		}
		out = append(out, sg)
		if len(out) == MaxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil, errors.New("model returned zero suggestions")
	}
	return out, nil
}
