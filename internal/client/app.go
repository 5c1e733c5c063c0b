package client

import (
	"context"
	"fmt"

	"wordflip/internal/domain"
	"wordflip/internal/storage"

	"go.uber.org/zap"
)

const keyDemoPopulated = "demo_populated"

var demoWords = []domain.Word{
	{Term: "apple", Meaning: "사과"},
	{Term: "book", Meaning: "책"},
}

// API is everything the client needs from the server
type API interface {
	AuthAPI
	ListAPI
	RemoteTranslator
}

// App is one user's client session
type App struct {
	Sessions   *SessionManager
	Lists      *ListStore
	Draft      *Draft
	Translator *Translator

	conn   *Connectivity
	store  storage.Storage
	logger *zap.Logger
}

// NewApp wires a client session over store. conn is shared between apps.
func NewApp(api API, conn *Connectivity, store storage.Storage, target string, logger *zap.Logger) *App {
	translator := NewTranslator(conn, api, logger)
	sessions := NewSessionManager(conn, NewRemoteCredentials(api), NewLocalCredentials(store), store, logger)
	lists := NewListStore(conn, NewRemoteBackend(api), NewLocalBackend(store), sessions, logger)

	return &App{
		Sessions:   sessions,
		Lists:      lists,
		Draft:      NewDraft(translator, lists, target),
		Translator: translator,
		conn:       conn,
		store:      store,
		logger:     logger,
	}
}

// Connected reports the shared mode flag
func (a *App) Connected() bool {
	return a.conn.Connected()
}

// PopulateDemo fills an empty draft with sample words, once per storage
func (a *App) PopulateDemo(ctx context.Context) (bool, error) {
	_, done, err := a.store.Get(ctx, keyDemoPopulated)
	if err != nil {
		return false, fmt.Errorf("check demo flag: %w", err)
	}
	if done || a.Draft.Len() > 0 {
		return false, nil
	}

	a.Draft.Replace("", demoWords)
	if err := storage.Set(ctx, a.store, keyDemoPopulated, "1"); err != nil {
		return false, fmt.Errorf("set demo flag: %w", err)
	}
	return true, nil
}

// LoadIntoDraft replaces the draft with the most recent saved list
func (a *App) LoadIntoDraft(ctx context.Context) (*domain.List, error) {
	list, err := a.Lists.LoadMostRecent(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}

	a.Draft.Replace(list.Title, list.Words)
	return list, nil
}

// Commit saves the draft and opens the result in a viewer
func (a *App) Commit(ctx context.Context, title string) (*Viewer, error) {
	list, err := a.Draft.Commit(ctx, title)
	if err != nil {
		return nil, err
	}
	return a.OpenViewer(list), nil
}

// OpenViewer shows list as flashcards, persisting through the list store
func (a *App) OpenViewer(list *domain.List) *Viewer {
	return NewViewer(list, a.Lists, a.logger)
}
