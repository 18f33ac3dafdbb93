package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vincent-petithory/dataurl"
)

type fakeModel struct {
	calls   int
	prompts []string
	resp    *genai.GenerateContentResponse
	err     error
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.resp, f.err
}

func respond(ps ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: ps, Role: "model"}}},
	}
}

func TestSuggest_EmptyListMakesNoCall(t *testing.T) {
	m := &fakeModel{}
	s := NewSuggester(m)
	for _, in := range []string{"", "   \n"} {
		_, err := s.Suggest(t.Context(), in)
		require.ErrorIs(t, err, ErrEmptyReadingList)
	}
	assert.Zero(t, m.calls)
	assert.Equal(t, "Your reading list is empty. Add some books to get suggestions.", Message(ErrEmptyReadingList))
}

func TestSuggest_ParsesAndTruncates(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"suggestions":[`)
	for i := 0; i < 7; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"title":"Book ` + string(rune('A'+i)) + `","author":"Someone","reason":"Because."}`)
	}
	b.WriteString(`]}`)
	m := &fakeModel{resp: respond(genai.Text(b.String()))}

	got, err := NewSuggester(m).Suggest(t.Context(), "Dune by Frank Herbert")
	require.NoError(t, err)
	assert.Len(t, got, MaxSuggestions)
	assert.Equal(t, "Book A", got[0].Title)
	assert.Equal(t, 1, m.calls)
	assert.Contains(t, m.prompts[0], "Reading List: Dune by Frank Herbert")
}

func TestSuggest_NoSuggestions(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"no candidates": {},
		"bad json":      respond(genai.Text("here are some books")),
		"empty list":    respond(genai.Text(`{"suggestions":[]}`)),
		"blank titles":  respond(genai.Text(`{"suggestions":[{"title":" ","author":"x","reason":"y"}]}`)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewSuggester(&fakeModel{resp: resp}).Suggest(t.Context(), "Emma by Jane Austen")
			assert.ErrorIs(t, err, ErrNoSuggestions)
		})
	}
}

func TestSuggest_UpstreamError(t *testing.T) {
	m := &fakeModel{err: errors.New("quota")}
	_, err := NewSuggester(m).Suggest(t.Context(), "Emma by Jane Austen")
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, "Sorry, I couldn't generate suggestions at this time. Please try again later.", Message(err))
	assert.Equal(t, 1, m.calls, "no retry")
}

func TestSuggest_Unconfigured(t *testing.T) {
	var s *Suggester
	_, err := s.Suggest(t.Context(), "Dune by Frank Herbert")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCover_ReturnsDataURI(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	m := &fakeModel{resp: respond(
		genai.Text("Here is your cover"),
		genai.Blob{MIMEType: "image/png", Data: png},
	)}

	uri, err := NewCoverArtist(m).Cover(t.Context(), "Dune", "Spice and sand.")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	du, err := dataurl.DecodeString(uri)
	require.NoError(t, err)
	assert.Equal(t, png, du.Data)

	assert.Contains(t, m.prompts[0], `book titled "Dune"`)
	assert.Contains(t, m.prompts[0], "Do not include any text or words on the cover.")
}

func TestCover_NoImage(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"text only":  respond(genai.Text("sorry")),
		"empty blob": respond(genai.Blob{MIMEType: "image/png"}),
		"not image":  respond(genai.Blob{MIMEType: "application/pdf", Data: []byte("x")}),
		"nothing":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewCoverArtist(&fakeModel{resp: resp}).Cover(t.Context(), "t", "s")
			assert.ErrorIs(t, err, ErrNoImage)
			assert.Equal(t, "Image generation failed.", Message(err))
		})
	}
}

func TestCover_ModelError(t *testing.T) {
	_, err := NewCoverArtist(&fakeModel{err: errors.New("boom")}).Cover(t.Context(), "t", "s")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestConfigureSuggestions(t *testing.T) {
	m := &genai.GenerativeModel{}
	ConfigureSuggestions(m)
	assert.Equal(t, "application/json", m.ResponseMIMEType)
	assert.Same(t, SuggestionSchema, m.ResponseSchema)
}
