package seed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/models"
	"github.com/5w1tchy/earthy-reads/internal/store/seed"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var seedCols = []string{"id", "title", "author", "synopsis", "status", "cover_image", "genre", "finished_date"}

func TestDefault_Shape(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	books := seed.Default(now)
	if len(books) != 5 {
		t.Fatalf("len=%d, want 5", len(books))
	}

	counts := map[models.Status]int{}
	for _, b := range books {
		counts[b.Status]++
		if b.Status != models.StatusRead && b.FinishedDate != nil {
			t.Errorf("%s: unread book has finished date", b.ID)
		}
	}
	if counts[models.StatusRead] != 2 || counts[models.StatusCurrentlyReading] != 1 || counts[models.StatusToRead] != 2 {
		t.Fatalf("unexpected status mix: %v", counts)
	}
	if books[0].FinishedDate.Year() != 2025 || books[1].FinishedDate.Year() != 2026 {
		t.Fatalf("finished dates: %v %v", books[0].FinishedDate, books[1].FinishedDate)
	}
}

func TestSQL_Books(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	done := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, title, author, synopsis, status, cover_image, genre, finished_date\s+FROM seed_books`).
		WillReturnRows(sqlmock.NewRows(seedCols).
			AddRow("a", "Dune", "Frank Herbert", "Spice.", "Read", nil, "Sci-Fi", done).
			AddRow("b", "Emma", "Jane Austen", "Matchmaking.", "to_read", "https://c/emma.jpg", nil, nil).
			AddRow("c", "Bad", "Nobody", "x", "Abandoned", nil, nil, nil).
			AddRow("a", "Dup", "Nobody", "x", "Read", nil, nil, nil))

	got, err := seed.SQL{DB: db}.Books(t.Context())
	if err != nil {
		t.Fatalf("Books: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2 (bad status and duplicate skipped)", len(got))
	}
	if got[0].Status != models.StatusRead || got[0].FinishedDate == nil || !got[0].FinishedDate.Equal(done) {
		t.Errorf("row a: %+v", got[0])
	}
	if got[0].Genre != "Sci-Fi" || got[0].CoverImage != "" {
		t.Errorf("row a optional fields: %+v", got[0])
	}
	if got[1].Status != models.StatusToRead || got[1].FinishedDate != nil || got[1].CoverImage != "https://c/emma.jpg" {
		t.Errorf("row b: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQL_MissingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM seed_books`).WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "seed_books" does not exist`})

	_, err = seed.SQL{DB: db}.Books(t.Context())
	if !errors.Is(err, seed.ErrNoSeedTable) {
		t.Fatalf("err=%v, want ErrNoSeedTable", err)
	}
}

type failing struct{}

func (failing) Books(context.Context) ([]models.Book, error) { return nil, errors.New("boom") }

func TestFallback(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	f := seed.Fallback{Primary: failing{}, Secondary: seed.Static{Now: func() time.Time { return now }}}
	got, err := f.Books(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("len=%d, want built-in seed", len(got))
	}

	ok := seed.Fallback{Primary: seed.Static{Now: func() time.Time { return now }}, Secondary: failing{}}
	if _, err := ok.Books(t.Context()); err != nil {
		t.Fatalf("primary success should not touch secondary: %v", err)
	}
}
