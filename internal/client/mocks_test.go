package client

import (
	"context"
	"errors"

	"wordflip/internal/domain"

	"github.com/stretchr/testify/mock"
)

var errRefused = &domain.NetworkError{Op: "/words/translate", Err: errors.New("connection refused")}

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockAPI) Translate(ctx context.Context, text, target string) (string, error) {
	args := m.Called(ctx, text, target)
	return args.String(0), args.Error(1)
}

func (m *mockAPI) Register(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *mockAPI) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *mockAPI) SaveList(ctx context.Context, token, title string, words []domain.Word) (*domain.List, error) {
	args := m.Called(ctx, token, title, words)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.List), args.Error(1)
}

func (m *mockAPI) GetLists(ctx context.Context, token string) ([]domain.List, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.List), args.Error(1)
}

func (m *mockAPI) ToggleFavorite(ctx context.Context, listID string, index int) (bool, error) {
	args := m.Called(ctx, listID, index)
	return args.Bool(0), args.Error(1)
}

type mockToggler struct {
	mock.Mock
}

func (m *mockToggler) ToggleWordFavorite(ctx context.Context, listID string, index int) (bool, error) {
	args := m.Called(ctx, listID, index)
	return args.Bool(0), args.Error(1)
}

type stubTranslator struct {
	translate func(ctx context.Context, text, target string) string
}

func (s stubTranslator) Translate(ctx context.Context, text, target string) string {
	return s.translate(ctx, text, target)
}
