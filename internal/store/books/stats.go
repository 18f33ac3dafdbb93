package books

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/5w1tchy/earthy-reads/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type Stats struct {
	Total            int          `json:"total"`
	ToRead           int          `json:"toRead"`
	CurrentlyReading int          `json:"currentlyReading"`
	TotalRead        int          `json:"totalRead"`
	ReadThisYear     int          `json:"readThisYear"`
	Year             int          `json:"year"`
	FavoriteGenre    string       `json:"favoriteGenre,omitempty"`
	Genres           []GenreCount `json:"genres"`
}

// ComputeStats summarises books as of now. Books without a genre are counted
// everywhere except the genre breakdown.
func ComputeStats(books []models.Book, now time.Time) Stats {
	st := Stats{Total: len(books), Year: now.Year(), Genres: []GenreCount{}}

	type bucket struct {
		name  string
		count int
		first int
	}
	byKey := map[string]*bucket{}

	for i, b := range books {
		switch b.Status {
		case models.StatusToRead:
			st.ToRead++
		case models.StatusCurrentlyReading:
			st.CurrentlyReading++
		case models.StatusRead:
			st.TotalRead++
			if b.FinishedDate != nil && b.FinishedDate.In(now.Location()).Year() == now.Year() {
				st.ReadThisYear++
			}
		}

		name := strings.TrimSpace(b.Genre)
		if name == "" {
			continue
		}
		key := genreKey(name)
		if bk, ok := byKey[key]; ok {
			bk.count++
			continue
		}
		byKey[key] = &bucket{name: name, count: 1, first: i}
	}

	buckets := make([]*bucket, 0, len(byKey))
	for _, bk := range byKey {
		buckets = append(buckets, bk)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].first < buckets[j].first
	})
	for _, bk := range buckets {
		st.Genres = append(st.Genres, GenreCount{Genre: bk.name, Count: bk.count})
	}
	if len(buckets) > 0 {
		st.FavoriteGenre = buckets[0].name
	}
	return st
}

// genreKey folds case and strips accents so "Sci-Fi", "sci-fi" and "Sci-Fí"
// land in the same bucket.
func genreKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}
