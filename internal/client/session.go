package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"wordflip/internal/domain"
	"wordflip/internal/storage"

	"go.uber.org/zap"
)

const (
	keyToken    = "token"
	keyUsername = "username"
)

// SessionManager owns the persisted session and routes credential
// actions to the remote or local registry
type SessionManager struct {
	conn   *Connectivity
	remote CredentialStore
	local  CredentialStore
	store  storage.Storage
	logger *zap.Logger
	mu     sync.Mutex
}

func NewSessionManager(conn *Connectivity, remote, local CredentialStore, store storage.Storage, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		conn:   conn,
		remote: remote,
		local:  local,
		store:  store,
		logger: logger,
	}
}

// Register creates an account and logs in with it
func (m *SessionManager) Register(ctx context.Context, username, password string) (domain.Session, error) {
	return m.authenticate(ctx, "register", username, password, CredentialStore.Register)
}

// Login authenticates an existing account
func (m *SessionManager) Login(ctx context.Context, username, password string) (domain.Session, error) {
	return m.authenticate(ctx, "login", username, password, CredentialStore.Login)
}

type credentialAction func(CredentialStore, context.Context, string, string) (domain.Session, error)

func (m *SessionManager) authenticate(ctx context.Context, op, username, password string, action credentialAction) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, domain.NewValidationError("username/password required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn.Connected() {
		sess, err := action(m.remote, ctx, username, password)
		switch {
		case err == nil:
			return m.persist(ctx, sess)
		case domain.IsNetwork(err):
			m.conn.MarkUnreachable(err)
			m.logger.Info("Retrying against local registry", zap.String("op", op), zap.String("username", username))
		default:
			return domain.Session{}, err
		}
	}

	sess, err := action(m.local, ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	return m.persist(ctx, sess)
}

func (m *SessionManager) persist(ctx context.Context, sess domain.Session) (domain.Session, error) {
	err := m.store.SetAll(ctx, map[string]string{
		keyToken:    sess.Token,
		keyUsername: sess.Username,
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Logout clears both halves of the session
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(ctx, keyToken, keyUsername); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the persisted session, or an empty one
func (m *SessionManager) Current(ctx context.Context) (domain.Session, error) {
	token, _, err := m.store.Get(ctx, keyToken)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	username, _, err := m.store.Get(ctx, keyUsername)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	sess := domain.Session{Token: token, Username: username}
	if !sess.Valid() {
		return domain.Session{}, nil
	}
	return sess, nil
}
