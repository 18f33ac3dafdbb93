package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/5w1tchy/earthy-reads/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoSeedTable means the database is reachable but has no seed_books table.
var ErrNoSeedTable = errors.New("seed table missing")

const selectSeed = `
	SELECT id, title, author, synopsis, status, cover_image, genre, finished_date
	FROM seed_books
	ORDER BY position ASC, id ASC`

// SQL reads the seed list from a Postgres table. Rows with an unknown status
// are skipped with a log line rather than failing the whole load.
type SQL struct {
	DB *sql.DB
}

func (s SQL) Books(ctx context.Context) ([]models.Book, error) {
	rows, err := s.DB.QueryContext(ctx, selectSeed)
	if err != nil {
		var pg *pgconn.PgError
		if errors.As(err, &pg) && pg.Code == "42P01" { // undefined_table
			return nil, ErrNoSeedTable
		}
		return nil, fmt.Errorf("seed: query: %w", err)
	}
	defer rows.Close()

	seen := map[string]struct{}{}
	out := []models.Book{}
	for rows.Next() {
		var (
			b        models.Book
			status   string
			cover    sql.NullString
			genre    sql.NullString
			finished sql.NullTime
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Synopsis, &status, &cover, &genre, &finished); err != nil {
			return nil, fmt.Errorf("seed: scan: %w", err)
		}
		st, err := models.ParseStatus(strings.TrimSpace(status))
		if err != nil {
			log.Printf("[Seed] skipping %q: %v", b.ID, err)
			continue
		}
		if _, dup := seen[b.ID]; dup {
			log.Printf("[Seed] skipping duplicate id %q", b.ID)
			continue
		}
		seen[b.ID] = struct{}{}
		b.Status = st
		b.CoverImage = cover.String
		b.Genre = genre.String
		if finished.Valid {
			t := finished.Time
			b.FinishedDate = &t
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("seed: rows: %w", err)
	}
	return out, nil
}

// Fallback tries Primary and uses Secondary when it fails.
type Fallback struct {
	Primary   Source
	Secondary Source
}

func (f Fallback) Books(ctx context.Context) ([]models.Book, error) {
	books, err := f.Primary.Books(ctx)
	if err == nil {
		return books, nil
	}
	log.Printf("[Seed] primary source failed (%v); using built-in seed", err)
	return f.Secondary.Books(ctx)
}
