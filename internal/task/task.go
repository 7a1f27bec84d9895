// Package task holds the task record, the repository that owns the record
// set, and the orderings both views render from.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Done  bool   `json:"done"`
	// CreatedAt is epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// Patch carries the fields Update merges into a record. Nil fields are left alone.
type Patch struct {
	Title *string `json:"title,omitempty"`
	Date  *string `json:"date,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

// Status selects which tasks the list view shows.
type Status string

const (
	StatusAll  Status = "all"
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

func ParseStatus(v string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(v))); s {
	case "":
		return StatusAll, nil
	case StatusAll, StatusOpen, StatusDone:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status %q (want all, open or done)", v)
	}
}

// Next cycles all -> open -> done -> all.
func (s Status) Next() Status {
	switch s {
	case StatusAll:
		return StatusOpen
	case StatusOpen:
		return StatusDone
	default:
		return StatusAll
	}
}

func (s Status) Matches(t Task) bool {
	switch s {
	case StatusOpen:
		return !t.Done
	case StatusDone:
		return t.Done
	default:
		return true
	}
}

// ParseDate validates a YYYY-MM-DD key. Dates that do not exist on the
// calendar (2024-02-30) are rejected.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if len(v) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	d, err := time.ParseInLocation(DateLayout, v, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DisplayDate renders a date key as YYYY.MM.DD. Unparseable keys are returned as is.
func DisplayDate(key string) string {
	d, err := ParseDate(key)
	if err != nil {
		return key
	}
	return d.Format("2006.01.02")
}

func normalizeTitle(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ErrEmptyTitle
	}
	return v, nil
}

func StringPtr(v string) *string { return &v }

func BoolPtr(v bool) *bool { return &v }
