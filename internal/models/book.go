package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the reading state of a book. Wire values match the ones the
// front-end has always used.
type Status string

const (
	StatusToRead           Status = "To Read"
	StatusCurrentlyReading Status = "Currently Reading"
	StatusRead             Status = "Read"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusToRead, StatusCurrentlyReading, StatusRead}

func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusCurrentlyReading, StatusRead:
		return true
	}
	return false
}

// ParseStatus accepts the wire value ("Currently Reading") as well as the
// compact identifiers used in query strings ("currently_reading", "ToRead").
func ParseStatus(raw string) (Status, error) {
	switch raw {
	case string(StatusToRead), "ToRead", "to_read", "to-read":
		return StatusToRead, nil
	case string(StatusCurrentlyReading), "CurrentlyReading", "currently_reading", "currently-reading", "reading":
		return StatusCurrentlyReading, nil
	case string(StatusRead), "read":
		return StatusRead, nil
	}
	return "", fmt.Errorf("invalid status %q", raw)
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

type Book struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Synopsis     string     `json:"synopsis"`
	Status       Status     `json:"status"`
	CoverImage   string     `json:"coverImage,omitempty"`
	Genre        string     `json:"genre,omitempty"`
	FinishedDate *time.Time `json:"finishedDate"`
}

// Draft is the creation shape: everything a caller may supply before the
// store assigns id, status and finishedDate.
type Draft struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Synopsis   string `json:"synopsis"`
	CoverImage string `json:"coverImage,omitempty"`
	Genre      string `json:"genre,omitempty"`
}
