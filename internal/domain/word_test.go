package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLocalID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{name: "local id", id: "local-1700000000000", expected: true},
		{name: "uuid", id: "5f0c2a9e-8a43-4c39-9c1b-0f3f1c9d2e11", expected: false},
		{name: "empty", id: "", expected: false},
		{name: "marker not at start", id: "x-local-1", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalID(tt.id))
		})
	}
}

func TestNewLocalID(t *testing.T) {
	ts := time.UnixMilli(1700000000123)

	id := NewLocalID(ts)

	assert.Equal(t, "local-1700000000123", id)
	assert.True(t, IsLocalID(id))
}

func TestListTitle(t *testing.T) {
	assert.Equal(t, "Animals", ListTitle("Animals"))
	assert.Equal(t, DefaultListTitle, ListTitle(""))
	assert.Equal(t, DefaultListTitle, ListTitle("   "))
}

func TestValidateWords(t *testing.T) {
	err := ValidateWords(nil)
	assert.Error(t, err)
	assert.True(t, IsValidation(err))

	assert.NoError(t, ValidateWords([]Word{{Term: "cat"}}))
}

func TestCopyWords(t *testing.T) {
	words := []Word{{Term: "cat", Meaning: "고양이"}}

	cp := CopyWords(words)
	cp[0].Favorite = true

	assert.False(t, words[0].Favorite)
}

func TestErrors(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", ErrUsernameTaken)
	assert.True(t, errors.Is(wrapped, ErrUsernameTaken))

	var authErr *AuthError
	assert.True(t, errors.As(wrapped, &authErr))
	assert.Equal(t, "username taken", authErr.Error())

	netErr := &NetworkError{Op: "translate", Err: errors.New("connection refused")}
	assert.True(t, IsNetwork(fmt.Errorf("add term: %w", netErr)))
	assert.Equal(t, "translate: connection refused", netErr.Error())

	assert.True(t, IsValidation(ErrInvalidIndex))
	assert.False(t, IsValidation(ErrNotFound))
}

func TestSession(t *testing.T) {
	assert.False(t, Session{}.Valid())
	assert.False(t, Session{Token: "t"}.Valid())
	assert.True(t, Session{Token: "t", Username: "alice"}.Valid())
	assert.True(t, Session{Token: "local-abc", Username: "alice"}.IsLocal())
	assert.False(t, Session{Token: "eyJhbGciOi", Username: "alice"}.IsLocal())
}
