package client

import (
	"context"
	"testing"

	"wordflip/internal/domain"
	"wordflip/internal/storage"
	"wordflip/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSessions(api *mockAPI, store storage.Storage) (*SessionManager, *Connectivity) {
	logger := testutil.NewTestLogger()
	conn := NewConnectivity(api, logger)
	return NewSessionManager(conn, NewRemoteCredentials(api), NewLocalCredentials(store), store, logger), conn
}

func TestSessionManager_LocalScenario(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	store := storage.NewMemory()
	sessions, conn := newTestSessions(api, store)
	conn.MarkUnreachable(errRefused)

	sess, err := sessions.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	assert.True(t, sess.IsLocal())

	current, err := sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, current)

	require.NoError(t, sessions.Logout(ctx))
	current, err = sessions.Current(ctx)
	require.NoError(t, err)
	assert.False(t, current.Valid())

	_, err = sessions.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	current, _ = sessions.Current(ctx)
	assert.False(t, current.Valid())

	sess, err = sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.True(t, sess.IsLocal())

	_, err = sessions.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionManager_LocalTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	sessions, conn := newTestSessions(new(mockAPI), storage.NewMemory())
	conn.MarkUnreachable(errRefused)

	first, err := sessions.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	second, err := sessions.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestSessionManager_RemoteLogin(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	api.On("Login", mock.Anything, "alice", "pw1").Return(&domain.AuthResult{
		Token: "eyJ.remote",
		User:  domain.UserInfo{ID: "u1", Username: "alice"},
	}, nil)

	store := storage.NewMemory()
	sessions, conn := newTestSessions(api, store)

	sess, err := sessions.Login(ctx, "  alice ", "pw1")

	require.NoError(t, err)
	assert.Equal(t, domain.Session{Token: "eyJ.remote", Username: "alice"}, sess)
	assert.True(t, conn.Connected())

	token, _, _ := store.Get(ctx, "token")
	assert.Equal(t, "eyJ.remote", token)
}

func TestSessionManager_RemoteAuthErrorDoesNotFlip(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	api.On("Register", mock.Anything, "alice", "pw1").Return(nil, domain.ErrUsernameTaken)

	sessions, conn := newTestSessions(api, storage.NewMemory())

	_, err := sessions.Register(ctx, "alice", "pw1")

	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.True(t, conn.Connected())
	current, _ := sessions.Current(ctx)
	assert.False(t, current.Valid())
}

func TestSessionManager_NetworkFailureRetriesLocally(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	api.On("Register", mock.Anything, "bob", "pw").Return(nil, errRefused).Once()

	sessions, conn := newTestSessions(api, storage.NewMemory())

	sess, err := sessions.Register(ctx, "bob", "pw")

	require.NoError(t, err)
	assert.True(t, sess.IsLocal())
	assert.False(t, conn.Connected())

	// the account now exists in the local registry
	_, err = sessions.Login(ctx, "bob", "pw")
	assert.NoError(t, err)
	api.AssertExpectations(t)
}

func TestSessionManager_Validation(t *testing.T) {
	api := new(mockAPI)
	sessions, _ := newTestSessions(api, storage.NewMemory())

	_, err := sessions.Register(context.Background(), " ", "pw")
	assert.True(t, domain.IsValidation(err))

	_, err = sessions.Login(context.Background(), "alice", "")
	assert.True(t, domain.IsValidation(err))

	api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}
