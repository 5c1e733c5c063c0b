package handler

import (
	"sync"

	"wordflip/internal/client"
	"wordflip/internal/domain"
	"wordflip/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot    *tele.Bot
	apps   *client.Registry
	conn   *client.Connectivity
	logger *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Open flashcard viewers
	viewers   map[int64]*client.Viewer
	viewerMux sync.RWMutex

	// Current keyboard page per user
	pages   map[int64]*pagePosition
	pageMux sync.Mutex

	// Per-user locks for callbacks that edit the same message
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex

	routes map[string]payloadHandler
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	apps *client.Registry,
	conn *client.Connectivity,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		bot:           bot,
		apps:          apps,
		conn:          conn,
		logger:        logger,
		states:        make(map[int64]*domain.StateData),
		viewers:       make(map[int64]*client.Viewer),
		pages:         make(map[int64]*pagePosition),
		callbackLocks: make(map[int64]*sync.Mutex),
	}

	h.routes = map[string]payloadHandler{
		cbDraftFav:   h.handleDraftFavorite,
		cbDraftEdit:  h.handleDraftEdit,
		cbDraftDel:   h.handleDraftDelete,
		cbGenerate:   h.handleGenerateButton,
		cbLoad:       h.handleLoadButton,
		cbCardFlip:   h.handleCardFlip,
		cbCardFav:    h.handleCardFavorite,
		cbFlipAll:    h.handleFlipAll,
		cbFavFilter:  h.handleFavoritesFilter,
		cbBackEditor: h.handleBackToEditor,
		cbCancel:     h.handleCancel,
		cbDraftPage:  h.handleDraftPage,
		cbCardPage:   h.handleCardPage,
	}
	return h
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.LoggingMiddleware(h.logger), middleware.SessionMiddleware(h.apps, h.logger))

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/help", h.handleHelp)
	h.bot.Handle("/status", h.handleStatus)
	h.bot.Handle("/translate", h.handleTranslate)
	h.bot.Handle("/generate", h.handleGenerate)
	h.bot.Handle("/load", h.handleLoad)
	h.bot.Handle("/clear", h.handleClear)
	h.bot.Handle("/lang", h.handleLang)
	h.bot.Handle("/title", h.handleTitle)
	h.bot.Handle("/cards", h.handleCards)
	h.bot.Handle("/register", h.handleRegister)
	h.bot.Handle("/login", h.handleLogin)
	h.bot.Handle("/logout", h.handleLogout)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	for unique, route := range h.routes {
		h.bot.Handle(&tele.Btn{Unique: unique}, h.withPayload(route))
	}

	// Generic callback handler for data that did not match a button
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// app returns the sender's client session
func (h *Handler) app(c tele.Context) *client.App {
	if app, ok := c.Get(middleware.AppKey).(*client.App); ok {
		return app
	}
	return h.apps.Get(middleware.UserKey(c.Sender().ID))
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

type pagePosition struct {
	draft int
	cards int
}

// page returns the user's page position, creating it on first use
func (h *Handler) page(userID int64, update func(p *pagePosition)) pagePosition {
	h.pageMux.Lock()
	defer h.pageMux.Unlock()

	p, ok := h.pages[userID]
	if !ok {
		p = &pagePosition{}
		h.pages[userID] = p
	}
	if update != nil {
		update(p)
	}
	return *p
}

func (h *Handler) viewer(userID int64) *client.Viewer {
	h.viewerMux.RLock()
	defer h.viewerMux.RUnlock()
	return h.viewers[userID]
}

func (h *Handler) setViewer(userID int64, v *client.Viewer) {
	h.viewerMux.Lock()
	defer h.viewerMux.Unlock()
	h.viewers[userID] = v
}

// userLock returns the callback lock of a user
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}
