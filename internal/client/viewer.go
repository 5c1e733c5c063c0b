package client

import (
	"context"
	"sync"
	"time"

	"wordflip/internal/domain"

	"go.uber.org/zap"
)

const persistTimeout = 15 * time.Second

// FavoriteToggler persists favorite flips
type FavoriteToggler interface {
	ToggleWordFavorite(ctx context.Context, listID string, index int) (bool, error)
}

// Card is one flashcard as displayed
type Card struct {
	Index int
	Word  domain.Word
	Back  bool
}

// Viewer shows a saved list as flip cards
type Viewer struct {
	listID string
	title  string
	store  FavoriteToggler
	logger *zap.Logger

	mu            sync.RWMutex
	words         []domain.Word
	back          []bool
	pending       []int
	showBack      bool
	favoritesOnly bool
	onError       func(index int, err error)

	// persistMu serializes persists so the last answer is the one shown
	persistMu sync.Mutex
	wg        sync.WaitGroup
}

// NewViewer opens list in the viewer, all cards front side up
func NewViewer(list *domain.List, store FavoriteToggler, logger *zap.Logger) *Viewer {
	return &Viewer{
		listID:  list.ID,
		title:   list.Title,
		store:   store,
		logger:  logger,
		words:   domain.CopyWords(list.Words),
		back:    make([]bool, len(list.Words)),
		pending: make([]int, len(list.Words)),
	}
}

func (v *Viewer) ListID() string { return v.listID }

func (v *Viewer) Title() string { return v.title }

// OnError registers a callback for failed persists
func (v *Viewer) OnError(fn func(index int, err error)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onError = fn
}

// Flip turns card i over
func (v *Viewer) Flip(i int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i < 0 || i >= len(v.back) {
		return domain.ErrInvalidIndex
	}
	v.back[i] = !v.back[i]
	return nil
}

// FlipAll toggles the global side and forces every card to it
func (v *Viewer) FlipAll() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.showBack = !v.showBack
	for i := range v.back {
		v.back[i] = v.showBack
	}
	return v.showBack
}

func (v *Viewer) SetFavoritesOnly(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.favoritesOnly = on
}

func (v *Viewer) FavoritesOnly() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.favoritesOnly
}

// Cards returns every card regardless of the filter
func (v *Viewer) Cards() []Card {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cards(false)
}

// Visible returns the cards that pass the favorites filter
func (v *Viewer) Visible() []Card {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cards(v.favoritesOnly)
}

func (v *Viewer) cards(favoritesOnly bool) []Card {
	out := make([]Card, 0, len(v.words))
	for i, w := range v.words {
		if favoritesOnly && !w.Favorite {
			continue
		}
		out = append(out, Card{Index: i, Word: w, Back: v.back[i]})
	}
	return out
}

// ToggleFavorite flips word i in the view immediately and persists the
// change in the background. The view is never rolled back.
func (v *Viewer) ToggleFavorite(i int) (bool, error) {
	v.mu.Lock()
	if i < 0 || i >= len(v.words) {
		v.mu.Unlock()
		return false, domain.ErrInvalidIndex
	}
	v.words[i].Favorite = !v.words[i].Favorite
	v.pending[i]++
	favorite := v.words[i].Favorite
	v.mu.Unlock()

	v.wg.Add(1)
	go v.persist(i)

	return favorite, nil
}

func (v *Viewer) persist(i int) {
	defer v.wg.Done()

	v.persistMu.Lock()
	defer v.persistMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	favorite, err := v.store.ToggleWordFavorite(ctx, v.listID, i)

	v.mu.Lock()
	v.pending[i]--
	settled := v.pending[i] == 0
	if err == nil && settled {
		v.words[i].Favorite = favorite
	}
	onError := v.onError
	v.mu.Unlock()

	if err != nil {
		v.logger.Warn("Failed to persist favorite",
			zap.String("list_id", v.listID),
			zap.Int("index", i),
			zap.Error(err),
		)
		if onError != nil {
			onError(i, err)
		}
	}
}

// Wait blocks until all background persists have finished
func (v *Viewer) Wait() {
	v.wg.Wait()
}
