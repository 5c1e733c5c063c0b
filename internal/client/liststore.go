package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"wordflip/internal/domain"
	"wordflip/internal/storage"

	"go.uber.org/zap"
)

const keyLocalLists = "local_lists"

var errOffline = errors.New("server unreachable")

// PersistenceBackend stores saved lists
type PersistenceBackend interface {
	Save(ctx context.Context, sess domain.Session, title string, words []domain.Word) (*domain.List, error)
	// LoadMostRecent returns nil when nothing is stored
	LoadMostRecent(ctx context.Context, sess domain.Session) (*domain.List, error)
	ToggleFavorite(ctx context.Context, listID string, index int) (bool, error)
}

// SessionSource provides the current session
type SessionSource interface {
	Current(ctx context.Context) (domain.Session, error)
}

// ListAPI is the part of the API client used for remote lists
type ListAPI interface {
	SaveList(ctx context.Context, token, title string, words []domain.Word) (*domain.List, error)
	GetLists(ctx context.Context, token string) ([]domain.List, error)
	ToggleFavorite(ctx context.Context, listID string, index int) (bool, error)
}

// RemoteBackend persists through the API server
type RemoteBackend struct {
	api ListAPI
}

func NewRemoteBackend(api ListAPI) *RemoteBackend {
	return &RemoteBackend{api: api}
}

func (r *RemoteBackend) Save(ctx context.Context, sess domain.Session, title string, words []domain.Word) (*domain.List, error) {
	return r.api.SaveList(ctx, sess.Token, title, words)
}

func (r *RemoteBackend) LoadMostRecent(ctx context.Context, sess domain.Session) (*domain.List, error) {
	lists, err := r.api.GetLists(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, nil
	}
	return &lists[0], nil
}

func (r *RemoteBackend) ToggleFavorite(ctx context.Context, listID string, index int) (bool, error) {
	return r.api.ToggleFavorite(ctx, listID, index)
}

// LocalBackend keeps lists in client storage, most recent first
type LocalBackend struct {
	store storage.Storage
	now   func() time.Time
	mu    sync.Mutex
}

func NewLocalBackend(store storage.Storage) *LocalBackend {
	return &LocalBackend{store: store, now: time.Now}
}

func (l *LocalBackend) Save(ctx context.Context, sess domain.Session, title string, words []domain.Word) (*domain.List, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lists, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	created := l.now()
	id := domain.NewLocalID(created)
	for containsID(lists, id) {
		created = created.Add(time.Millisecond)
		id = domain.NewLocalID(created)
	}

	var owner *string
	if sess.Username != "" {
		name := sess.Username
		owner = &name
	}

	list := domain.List{
		ID:        id,
		Owner:     owner,
		Title:     title,
		Words:     domain.CopyWords(words),
		CreatedAt: created.UTC(),
	}

	lists = append([]domain.List{list}, lists...)
	if err := l.write(ctx, lists); err != nil {
		return nil, err
	}
	return &list, nil
}

func (l *LocalBackend) LoadMostRecent(ctx context.Context, sess domain.Session) (*domain.List, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lists, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, nil
	}
	return &lists[0], nil
}

func (l *LocalBackend) ToggleFavorite(ctx context.Context, listID string, index int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lists, err := l.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		if index < 0 || index >= len(lists[i].Words) {
			return false, domain.ErrInvalidIndex
		}

		word := &lists[i].Words[index]
		word.Favorite = !word.Favorite
		if err := l.write(ctx, lists); err != nil {
			return false, err
		}
		return word.Favorite, nil
	}
	return false, domain.ErrNotFound
}

func (l *LocalBackend) load(ctx context.Context) ([]domain.List, error) {
	raw, ok, err := l.store.Get(ctx, keyLocalLists)
	if err != nil {
		return nil, fmt.Errorf("load local lists: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var lists []domain.List
	if err := json.Unmarshal([]byte(raw), &lists); err != nil {
		return nil, fmt.Errorf("decode local lists: %w", err)
	}
	return lists, nil
}

func (l *LocalBackend) write(ctx context.Context, lists []domain.List) error {
	raw, err := json.Marshal(lists)
	if err != nil {
		return fmt.Errorf("encode local lists: %w", err)
	}
	if err := storage.Set(ctx, l.store, keyLocalLists, string(raw)); err != nil {
		return fmt.Errorf("save local lists: %w", err)
	}
	return nil
}

func containsID(lists []domain.List, id string) bool {
	for _, l := range lists {
		if l.ID == id {
			return true
		}
	}
	return false
}

// ListStore routes each list operation to the remote or local backend
type ListStore struct {
	conn     *Connectivity
	remote   PersistenceBackend
	local    PersistenceBackend
	sessions SessionSource
	logger   *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewListStore(conn *Connectivity, remote, local PersistenceBackend, sessions SessionSource, logger *zap.Logger) *ListStore {
	return &ListStore{
		conn:     conn,
		remote:   remote,
		local:    local,
		sessions: sessions,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Save persists a new list. A failed remote save lands in local storage.
func (s *ListStore) Save(ctx context.Context, title string, words []domain.Word) (*domain.List, error) {
	words = normalizeWords(words)
	if err := domain.ValidateWords(words); err != nil {
		return nil, err
	}
	title = domain.ListTitle(title)

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	if s.conn.Connected() {
		list, err := s.remote.Save(ctx, sess, title, words)
		if err == nil {
			s.logger.Info("List saved remotely", zap.String("list_id", list.ID), zap.Int("words", len(list.Words)))
			return list, nil
		}
		s.conn.MarkUnreachable(err)
		s.logger.Warn("Remote save failed, saving locally", zap.Error(err))
	}

	list, err := s.local.Save(ctx, sess, title, words)
	if err != nil {
		return nil, err
	}
	s.logger.Info("List saved locally", zap.String("list_id", list.ID), zap.Int("words", len(list.Words)))
	return list, nil
}

// LoadMostRecent returns the newest list, or nil. Remote answers are not
// merged with local ones.
func (s *ListStore) LoadMostRecent(ctx context.Context) (*domain.List, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	if s.conn.Connected() {
		list, err := s.remote.LoadMostRecent(ctx, sess)
		if err != nil {
			s.conn.MarkUnreachable(err)
			s.logger.Warn("Remote load failed, reading local lists", zap.Error(err))
		} else if list != nil {
			return list, nil
		}
	}

	return s.local.LoadMostRecent(ctx, sess)
}

// ToggleWordFavorite flips the favorite flag of one word. Calls for the
// same list are serialized.
func (s *ListStore) ToggleWordFavorite(ctx context.Context, listID string, index int) (bool, error) {
	lock := s.lockFor(listID)
	lock.Lock()
	defer lock.Unlock()

	if domain.IsLocalID(listID) {
		return s.local.ToggleFavorite(ctx, listID, index)
	}

	if !s.conn.Connected() {
		return false, &domain.NetworkError{Op: "toggle favorite", Err: errOffline}
	}

	favorite, err := s.remote.ToggleFavorite(ctx, listID, index)
	if err != nil {
		if domain.IsNetwork(err) {
			s.conn.MarkUnreachable(err)
		}
		return false, err
	}
	return favorite, nil
}

func (s *ListStore) lockFor(listID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[listID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[listID] = lock
	}
	return lock
}

func normalizeWords(words []domain.Word) []domain.Word {
	out := make([]domain.Word, 0, len(words))
	for _, w := range words {
		term := strings.TrimSpace(w.Term)
		if term == "" {
			continue
		}
		out = append(out, domain.Word{Term: term, Meaning: w.Meaning, Favorite: w.Favorite})
	}
	return out
}
