package client

import (
	"context"
	"strings"
	"sync"

	"wordflip/internal/domain"
	"wordflip/internal/translate"
)

// TextTranslator translates without failing
type TextTranslator interface {
	Translate(ctx context.Context, text, target string) string
}

// ListSaver persists a finished draft
type ListSaver interface {
	Save(ctx context.Context, title string, words []domain.Word) (*domain.List, error)
}

// Draft is the in-memory list being edited before it is saved
type Draft struct {
	translator TextTranslator
	lists      ListSaver

	// addMu is held across the translation so adds land in call order
	addMu sync.Mutex

	mu         sync.RWMutex
	words      []domain.Word
	title      string
	target     string
	generation uint64
}

func NewDraft(translator TextTranslator, lists ListSaver, target string) *Draft {
	if target == "" {
		target = translate.DefaultTarget
	}
	return &Draft{
		translator: translator,
		lists:      lists,
		target:     target,
	}
}

// AddTerm translates term and appends it. added is false when the draft
// was reset or replaced while the translation was running.
func (d *Draft) AddTerm(ctx context.Context, term string) (word domain.Word, added bool, err error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return domain.Word{}, false, domain.NewValidationError("term required")
	}

	d.addMu.Lock()
	defer d.addMu.Unlock()

	d.mu.RLock()
	generation, target := d.generation, d.target
	d.mu.RUnlock()

	meaning := d.translator.Translate(ctx, term, target)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.generation != generation {
		return domain.Word{}, false, nil
	}

	word = domain.Word{Term: term, Meaning: meaning}
	d.words = append(d.words, word)
	return word, true, nil
}

// Translate only translates text into the draft's target language
func (d *Draft) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewValidationError("text required")
	}
	return d.translator.Translate(ctx, text, d.Target()), nil
}

func (d *Draft) EditMeaning(i int, meaning string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inRange(i) {
		return domain.ErrInvalidIndex
	}
	d.words[i].Meaning = meaning
	return nil
}

// ToggleFavorite flips word i and returns the new value
func (d *Draft) ToggleFavorite(i int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inRange(i) {
		return false, domain.ErrInvalidIndex
	}
	d.words[i].Favorite = !d.words[i].Favorite
	return d.words[i].Favorite, nil
}

func (d *Draft) RemoveAt(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inRange(i) {
		return domain.ErrInvalidIndex
	}
	d.words = append(d.words[:i], d.words[i+1:]...)
	return nil
}

// Commit saves the draft as a new list. An empty title falls back to the
// draft title, then to the default one.
func (d *Draft) Commit(ctx context.Context, title string) (*domain.List, error) {
	d.mu.RLock()
	words := domain.CopyWords(d.words)
	if strings.TrimSpace(title) == "" {
		title = d.title
	}
	d.mu.RUnlock()

	if len(words) == 0 {
		return nil, domain.NewValidationError("no words added")
	}
	return d.lists.Save(ctx, title, words)
}

// Words returns a copy of the current words
func (d *Draft) Words() []domain.Word {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return domain.CopyWords(d.words)
}

func (d *Draft) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words)
}

func (d *Draft) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.title
}

func (d *Draft) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = strings.TrimSpace(title)
}

func (d *Draft) Target() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.target
}

func (d *Draft) SetTarget(lang string) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.target = lang
}

// Replace loads title and words into the editor, dropping in-flight adds
func (d *Draft) Replace(title string, words []domain.Word) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.title = title
	d.words = domain.CopyWords(words)
	d.generation++
}

// Reset empties the draft, dropping in-flight adds
func (d *Draft) Reset() {
	d.Replace("", nil)
}

func (d *Draft) inRange(i int) bool {
	return i >= 0 && i < len(d.words)
}
