package generate

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/vincent-petithory/dataurl"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type CoverArtist struct {
	model  ContentGenerator
	tracer trace.Tracer
}

func NewCoverArtist(model ContentGenerator) *CoverArtist {
	return &CoverArtist{model: model, tracer: otel.Tracer("earthy-reads/generate")}
}

// Cover generates artwork for a book and returns it as a data URI.
func (c *CoverArtist) Cover(ctx context.Context, title, synopsis string) (string, error) {
	if c == nil || c.model == nil {
		return "", ErrNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, "generate.cover")
	defer span.End()

	resp, err := c.model.Generate(ctx, coverPrompt(strings.TrimSpace(title), strings.TrimSpace(synopsis)))
	if err != nil {
		log.Printf("[Generate] cover: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return "", errors.Join(ErrNoImage, err)
	}

	uri, ok := firstImage(resp)
	if !ok {
		span.SetStatus(codes.Error, "no image part")
		return "", ErrNoImage
	}
	return uri, nil
}

func firstImage(resp *genai.GenerateContentResponse) (string, bool) {
	for _, p := range parts(resp) {
		b, ok := p.(genai.Blob)
		if !ok || len(b.Data) == 0 {
			continue
		}
		mime, _, _ := strings.Cut(b.MIMEType, ";")
		mime = strings.TrimSpace(mime)
		if !strings.HasPrefix(mime, "image/") || strings.Count(mime, "/") != 1 {
			continue
		}
		return dataurl.New(b.Data, mime).String(), true
	}
	return "", false
}
