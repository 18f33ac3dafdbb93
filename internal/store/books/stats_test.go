package books_test

import (
	"testing"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/models"
	"github.com/5w1tchy/earthy-reads/internal/store/books"
	"github.com/5w1tchy/earthy-reads/internal/store/seed"
	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestComputeStats_DefaultSeed(t *testing.T) {
	st := books.ComputeStats(seed.Default(fixedNow), fixedNow)

	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 2, st.TotalRead)
	assert.Equal(t, 1, st.ReadThisYear)
	assert.Equal(t, 1, st.CurrentlyReading)
	assert.Equal(t, 2, st.ToRead)
	assert.Equal(t, 2026, st.Year)
	assert.Empty(t, st.FavoriteGenre)
	assert.NotNil(t, st.Genres)
	assert.Empty(t, st.Genres)
}

func TestComputeStats_GenresFoldCaseAndAccents(t *testing.T) {
	list := []models.Book{
		{ID: "1", Status: models.StatusRead, Genre: "Fantasy", FinishedDate: ptr(fixedNow)},
		{ID: "2", Status: models.StatusToRead, Genre: "Sci-Fi"},
		{ID: "3", Status: models.StatusToRead, Genre: "sci-fi "},
		{ID: "4", Status: models.StatusRead, Genre: "SCI-FÍ", FinishedDate: ptr(fixedNow.AddDate(-2, 0, 0))},
		{ID: "5", Status: models.StatusCurrentlyReading},
		{ID: "6", Status: models.StatusRead, Genre: "fantasy"},
	}

	st := books.ComputeStats(list, fixedNow)

	assert.Equal(t, 3, st.TotalRead)
	assert.Equal(t, 1, st.ReadThisYear, "missing or old finish dates do not count this year")
	assert.Equal(t, "Sci-Fi", st.FavoriteGenre)
	assert.Equal(t, []books.GenreCount{
		{Genre: "Sci-Fi", Count: 3},
		{Genre: "Fantasy", Count: 2},
	}, st.Genres)
}

func TestComputeStats_TieKeepsFirstSeen(t *testing.T) {
	list := []models.Book{
		{ID: "1", Status: models.StatusToRead, Genre: "Poetry"},
		{ID: "2", Status: models.StatusToRead, Genre: "History"},
	}
	st := books.ComputeStats(list, fixedNow)
	assert.Equal(t, "Poetry", st.FavoriteGenre)
}

func TestComputeStats_Empty(t *testing.T) {
	st := books.ComputeStats(nil, fixedNow)
	assert.Zero(t, st.Total)
	assert.Zero(t, st.TotalRead)
	assert.Empty(t, st.Genres)
}
