package testutil

import (
	"time"

	"wordflip/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(id, username, passwordHash string) *domain.User {
	return &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

// NewTestList creates a saved test list from terms and meanings given in pairs
func NewTestList(id, title string, pairs ...string) domain.List {
	list := domain.List{
		ID:        id,
		Title:     title,
		CreatedAt: time.Now(),
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		list.Words = append(list.Words, domain.Word{Term: pairs[i], Meaning: pairs[i+1]})
	}
	return list
}
