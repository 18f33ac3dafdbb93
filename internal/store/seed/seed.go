// Package seed provides the initial book list the store starts from. The
// list is read once at startup; nothing is ever written back.
package seed

import (
	"context"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/models"
)

type Source interface {
	Books(ctx context.Context) ([]models.Book, error)
}

// Static is the built-in seed.
type Static struct {
	Now func() time.Time
}

func (s Static) Books(context.Context) ([]models.Book, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return Default(now), nil
}

// Default returns the fixed five-book seed relative to now.
func Default(now time.Time) []models.Book {
	lastYear := now.AddDate(-1, 0, 0)
	today := now
	return []models.Book{
		{
			ID:           "1",
			Title:        "The Silent Patient",
			Author:       "Alex Michaelides",
			Synopsis:     "A shocking psychological thriller of a woman's act of violence against her husband, and of the therapist obsessed with uncovering her motive.",
			Status:       models.StatusRead,
			FinishedDate: &lastYear,
		},
		{
			ID:           "2",
			Title:        "Dune",
			Author:       "Frank Herbert",
			Synopsis:     "Set on the desert planet Arrakis, Dune is the story of the boy Paul Atreides, heir to a noble family tasked with ruling an inhospitable world where the only thing of value is the \"spice\" melange, a drug capable of extending life and enhancing consciousness.",
			Status:       models.StatusRead,
			FinishedDate: &today,
		},
		{
			ID:       "3",
			Title:    "Project Hail Mary",
			Author:   "Andy Weir",
			Synopsis: "Ryland Grace is the sole survivor on a desperate, last-chance mission, and if he fails, humanity and the earth itself will perish. Except that right now, he doesn't know that. He can't even remember his own name, let alone the nature of his assignment or how to complete it.",
			Status:   models.StatusCurrentlyReading,
		},
		{
			ID:       "4",
			Title:    "The Four Winds",
			Author:   "Kristin Hannah",
			Synopsis: "An epic novel of love and heroism and hope, set against the backdrop of one of America's most defining eras, the Great Depression.",
			Status:   models.StatusToRead,
		},
		{
			ID:       "5",
			Title:    "Klara and the Sun",
			Author:   "Kazuo Ishiguro",
			Synopsis: "Here is the story of Klara, an Artificial Friend with outstanding observational qualities, who, from her place in the store, keenly observes the behavior of those who come in to browse, and of those who pass on the street outside.",
			Status:   models.StatusToRead,
		},
	}
}
