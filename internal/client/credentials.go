package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"wordflip/internal/domain"
	"wordflip/internal/storage"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const keyLocalUsers = "local_users"

// CredentialStore registers and authenticates users
type CredentialStore interface {
	Register(ctx context.Context, username, password string) (domain.Session, error)
	Login(ctx context.Context, username, password string) (domain.Session, error)
}

// AuthAPI is the part of the API client used for remote credentials
type AuthAPI interface {
	Register(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Login(ctx context.Context, username, password string) (*domain.AuthResult, error)
}

// RemoteCredentials authenticates against the server registry
type RemoteCredentials struct {
	api AuthAPI
}

func NewRemoteCredentials(api AuthAPI) *RemoteCredentials {
	return &RemoteCredentials{api: api}
}

func (r *RemoteCredentials) Register(ctx context.Context, username, password string) (domain.Session, error) {
	result, err := r.api.Register(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: result.Token, Username: result.User.Username}, nil
}

func (r *RemoteCredentials) Login(ctx context.Context, username, password string) (domain.Session, error) {
	result, err := r.api.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: result.Token, Username: result.User.Username}, nil
}

// LocalCredentials keeps a username to password map in client storage.
// Passwords are stored in plain text.
type LocalCredentials struct {
	store storage.Storage
	mu    sync.Mutex
}

func NewLocalCredentials(store storage.Storage) *LocalCredentials {
	return &LocalCredentials{store: store}
}

func (l *LocalCredentials) Register(ctx context.Context, username, password string) (domain.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if _, ok := users[username]; ok {
		return domain.Session{}, domain.ErrUsernameTaken
	}

	users[username] = password
	raw, err := json.Marshal(users)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode local users: %w", err)
	}
	if err := storage.Set(ctx, l.store, keyLocalUsers, string(raw)); err != nil {
		return domain.Session{}, fmt.Errorf("save local users: %w", err)
	}

	return newLocalSession(username)
}

func (l *LocalCredentials) Login(ctx context.Context, username, password string) (domain.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.users(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if stored, ok := users[username]; !ok || stored != password {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	return newLocalSession(username)
}

func (l *LocalCredentials) users(ctx context.Context) (map[string]string, error) {
	users := make(map[string]string)

	raw, ok, err := l.store.Get(ctx, keyLocalUsers)
	if err != nil {
		return nil, fmt.Errorf("load local users: %w", err)
	}
	if !ok || raw == "" {
		return users, nil
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode local users: %w", err)
	}
	return users, nil
}

func newLocalSession(username string) (domain.Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate token: %w", err)
	}
	return domain.Session{Token: domain.LocalIDPrefix + id, Username: username}, nil
}
