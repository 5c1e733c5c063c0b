package repository

import (
	"context"

	"wordflip/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ListRepository defines flashcard list data operations
type ListRepository interface {
	CreateList(ctx context.Context, list *domain.List) error
	GetLists(ctx context.Context, ownerID *string) ([]domain.List, error)
	ToggleFavorite(ctx context.Context, listID string, index int) (bool, error)
}
