package books

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/models"
	"github.com/google/uuid"
)

// Store is the in-memory book collection. Order is display order:
// most recently added first.
type Store struct {
	mu       sync.RWMutex
	books    []models.Book
	now      func() time.Time
	newID    func() string
	notifier Notifier
}

// Change is the outcome of a successful mutation.
type Change struct {
	Book   models.Book  `json:"book"`
	Notice Notification `json:"notice"`
}

type Option func(*Store)

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }
func WithIDFunc(fn func() string) Option    { return func(s *Store) { s.newID = fn } }
func WithNotifier(n Notifier) Option        { return func(s *Store) { s.notifier = n } }

// New builds a store holding a copy of initial.
func New(initial []models.Book, opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		newID:    uuid.NewString,
		notifier: LogNotifier{},
	}
	for _, o := range opts {
		o(s)
	}
	s.books = make([]models.Book, 0, len(initial))
	for _, b := range initial {
		s.books = append(s.books, clone(b))
	}
	return s
}

func (s *Store) List() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	for i, b := range s.books {
		out[i] = clone(b)
	}
	return out
}

func (s *Store) ListByStatus(st models.Status) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Book{}
	for _, b := range s.books {
		if b.Status == st {
			out = append(out, clone(b))
		}
	}
	return out
}

func (s *Store) Get(id string) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Book{}, ErrNotFound
	}
	return clone(s.books[i]), nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Add creates a ToRead book from d and puts it at the front.
func (s *Store) Add(d models.Draft) Change {
	b := models.Book{
		ID:         s.newID(),
		Title:      d.Title,
		Author:     d.Author,
		Synopsis:   d.Synopsis,
		Status:     models.StatusToRead,
		CoverImage: d.CoverImage,
		Genre:      d.Genre,
	}

	s.mu.Lock()
	s.books = append([]models.Book{b}, s.books...)
	s.mu.Unlock()

	return s.emit(b, Notification{
		Title:       "Book added!",
		Description: fmt.Sprintf("%q has been added to your '%s' list.", b.Title, models.StatusToRead),
		Variant:     VariantDefault,
	})
}

// Update replaces the stored record with the same id. Unknown ids are an
// error and leave the collection untouched.
func (s *Store) Update(b models.Book) (Change, error) {
	if !b.Status.Valid() {
		return Change{}, ErrInvalidStatus
	}
	b = clone(b)

	s.mu.Lock()
	i := s.indexOf(b.ID)
	if i < 0 {
		s.mu.Unlock()
		return Change{}, fmt.Errorf("update %q: %w", b.ID, ErrNotFound)
	}
	s.books[i] = b
	s.mu.Unlock()

	return s.emit(b, Notification{
		Title:       "Book updated!",
		Description: fmt.Sprintf("%q has been updated.", b.Title),
		Variant:     VariantDefault,
	}), nil
}

// Delete removes the book with id. It reports whether anything was removed.
func (s *Store) Delete(id string) (Change, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Change{}, false
	}
	b := s.books[i]
	s.books = append(s.books[:i:i], s.books[i+1:]...)
	s.mu.Unlock()

	return s.emit(b, Notification{
		Title:       "Book deleted",
		Description: fmt.Sprintf("%q has been removed.", b.Title),
		Variant:     VariantDestructive,
	}), true
}

// SetStatus moves a book to st. Entering Read from another status stamps
// finishedDate with the current time; a book that is already Read keeps its
// date. Leaving Read never clears it.
func (s *Store) SetStatus(id string, st models.Status) (Change, error) {
	if !st.Valid() {
		return Change{}, ErrInvalidStatus
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Change{}, fmt.Errorf("set status %q: %w", id, ErrNotFound)
	}
	b := s.books[i]
	if st == models.StatusRead && (b.Status != models.StatusRead || b.FinishedDate == nil) {
		now := s.now()
		b.FinishedDate = &now
	}
	b.Status = st
	s.books[i] = b
	s.mu.Unlock()

	return s.emit(b, Notification{
		Title:       "Status updated!",
		Description: fmt.Sprintf("%q moved to '%s'.", b.Title, st),
		Variant:     VariantDefault,
	}), nil
}

// ReadingList renders the collection as "Title by Author, ..." which is the
// form the suggestion prompt expects. Empty when there are no books.
func (s *Store) ReadingList() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parts := make([]string, 0, len(s.books))
	for _, b := range s.books {
		parts = append(parts, b.Title+" by "+b.Author)
	}
	return strings.Join(parts, ", ")
}

func (s *Store) emit(b models.Book, n Notification) Change {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
	return Change{Book: clone(b), Notice: n}
}

// caller holds mu
func (s *Store) indexOf(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(b models.Book) models.Book {
	if b.FinishedDate != nil {
		t := *b.FinishedDate
		b.FinishedDate = &t
	}
	return b
}
