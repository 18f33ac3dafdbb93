package generate

import "errors"

var (
	ErrEmptyReadingList = errors.New("reading list is empty")
	ErrNoSuggestions    = errors.New("model returned no suggestions")
	ErrUpstream         = errors.New("generator upstream failed")
	ErrNoImage          = errors.New("model returned no image")
	ErrNotConfigured    = errors.New("generator not configured")
)

// Message is the reader-facing text for a generator error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrEmptyReadingList):
		return "Your reading list is empty. Add some books to get suggestions."
	case errors.Is(err, ErrNoSuggestions):
		return "I couldn't come up with any suggestions right now. Try again in a moment."
	case errors.Is(err, ErrNoImage):
		return "Image generation failed."
	case errors.Is(err, ErrNotConfigured):
		return "generator not configured"
	default:
		return "Sorry, I couldn't generate suggestions at this time. Please try again later."
	}
}
