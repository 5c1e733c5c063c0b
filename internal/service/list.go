package service

import (
	"context"
	"strings"
	"time"

	"wordflip/internal/domain"
	"wordflip/internal/repository"
	"wordflip/internal/translate"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Translator is the upstream translation gateway
type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

// ListService handles flashcard list logic
type ListService struct {
	listRepo    repository.ListRepository
	translator  Translator
	concurrency int
	logger      *zap.Logger
}

// NewListService creates a new list service
func NewListService(listRepo repository.ListRepository, translator Translator, concurrency int, logger *zap.Logger) *ListService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ListService{
		listRepo:    listRepo,
		translator:  translator,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Translate translates a single text
func (s *ListService) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.NewValidationError("text required")
	}
	if target == "" {
		target = translate.DefaultTarget
	}
	return s.translator.Translate(ctx, text, target), nil
}

// SaveList stores a list. Words without a meaning are translated first;
// a word whose translation fails is saved with an empty meaning.
func (s *ListService) SaveList(ctx context.Context, ownerID *string, title string, words []domain.Word) (*domain.List, error) {
	if err := domain.ValidateWords(words); err != nil {
		return nil, err
	}
	for _, w := range words {
		if strings.TrimSpace(w.Term) == "" {
			return nil, domain.NewValidationError("term required")
		}
	}

	list := &domain.List{
		ID:        uuid.NewString(),
		Owner:     ownerID,
		Title:     domain.ListTitle(title),
		Words:     s.enrich(ctx, words),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.listRepo.CreateList(ctx, list); err != nil {
		return nil, err
	}

	s.logger.Info("List saved",
		zap.String("list_id", list.ID),
		zap.Int("words", len(list.Words)),
		zap.Bool("anonymous", ownerID == nil),
	)

	return list, nil
}

func (s *ListService) enrich(ctx context.Context, words []domain.Word) []domain.Word {
	out := make([]domain.Word, len(words))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, w := range words {
		i, w := i, w
		w.Term = strings.TrimSpace(w.Term)
		if strings.TrimSpace(w.Meaning) != "" {
			out[i] = domain.Word{Term: w.Term, Meaning: w.Meaning, Favorite: w.Favorite}
			continue
		}

		g.Go(func() error {
			meaning := s.translator.Translate(gctx, w.Term, translate.DefaultTarget)
			if meaning == "" {
				s.logger.Debug("Word left without meaning", zap.String("term", w.Term))
			}
			out[i] = domain.Word{Term: w.Term, Meaning: meaning, Favorite: w.Favorite}
			return nil
		})
	}

	// translation failures degrade per word, so Wait never fails
	_ = g.Wait()

	return out
}

// GetLists returns lists newest first, filtered by owner when ownerID is set
func (s *ListService) GetLists(ctx context.Context, ownerID *string) ([]domain.List, error) {
	lists, err := s.listRepo.GetLists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []domain.List{}
	}
	return lists, nil
}

// ToggleFavorite flips the favorite flag of a word and returns the new value
func (s *ListService) ToggleFavorite(ctx context.Context, listID string, index int) (bool, error) {
	if _, err := uuid.Parse(listID); err != nil {
		return false, domain.ErrNotFound
	}
	return s.listRepo.ToggleFavorite(ctx, listID, index)
}
