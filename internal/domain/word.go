package domain

import (
	"strconv"
	"strings"
	"time"
)

// DefaultListTitle is used when a list is saved without a title
const DefaultListTitle = "My list"

// LocalIDPrefix marks ids of lists that only exist in client storage
const LocalIDPrefix = "local-"

// Word is a single term with its meaning
type Word struct {
	Term     string `json:"term"`
	Meaning  string `json:"meaning"`
	Favorite bool   `json:"favorite"`
}

// List is a saved flashcard set
type List struct {
	ID        string    `json:"id"`
	Owner     *string   `json:"owner"`
	Title     string    `json:"listTitle"`
	Words     []Word    `json:"words"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsLocal reports whether the list was persisted client-side only
func (l *List) IsLocal() bool {
	return IsLocalID(l.ID)
}

// IsLocalID reports whether id carries the local marker
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// NewLocalID builds a local list id from a timestamp
func NewLocalID(t time.Time) string {
	return LocalIDPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// ListTitle returns title or the default one when blank
func ListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultListTitle
	}
	return title
}

// CopyWords returns a detached copy of words
func CopyWords(words []Word) []Word {
	out := make([]Word, len(words))
	copy(out, words)
	return out
}

// ValidateWords checks that a list can be saved
func ValidateWords(words []Word) error {
	if len(words) == 0 {
		return NewValidationError("words required")
	}
	return nil
}
