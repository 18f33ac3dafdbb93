package books

import (
	"log"
	"sync"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification describes a successful mutation in user-facing terms.
// It is informational only.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	log.Printf("[Store] %s %s", n.Title, n.Description)
}

// Recorder keeps every notification in memory. Useful in tests.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}
