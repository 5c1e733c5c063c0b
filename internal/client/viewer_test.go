package client

import (
	"errors"
	"sync"
	"testing"

	"wordflip/internal/domain"
	"wordflip/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testList() *domain.List {
	return &domain.List{
		ID:    "7d1c9f4a-5b2e-4a8c-9e61-3f0a2b7c8d90",
		Title: "Animals",
		Words: []domain.Word{
			{Term: "cat", Meaning: "고양이"},
			{Term: "dog", Meaning: "개", Favorite: true},
			{Term: "sun", Meaning: "태양"},
		},
	}
}

func TestViewer_Flip(t *testing.T) {
	viewer := NewViewer(testList(), new(mockToggler), testutil.NewTestLogger())

	require.NoError(t, viewer.Flip(1))
	cards := viewer.Cards()
	assert.False(t, cards[0].Back)
	assert.True(t, cards[1].Back)

	assert.ErrorIs(t, viewer.Flip(3), domain.ErrInvalidIndex)

	// flip all forces every card to the global side
	assert.True(t, viewer.FlipAll())
	for _, c := range viewer.Cards() {
		assert.True(t, c.Back)
	}
	assert.False(t, viewer.FlipAll())
	for _, c := range viewer.Cards() {
		assert.False(t, c.Back)
	}
}

func TestViewer_FavoritesFilter(t *testing.T) {
	viewer := NewViewer(testList(), new(mockToggler), testutil.NewTestLogger())

	assert.Len(t, viewer.Visible(), 3)

	viewer.SetFavoritesOnly(true)
	visible := viewer.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, 1, visible[0].Index)
	assert.Len(t, viewer.Cards(), 3)
}

func TestViewer_ToggleFavoriteAdoptsServerValue(t *testing.T) {
	list := testList()
	store := new(mockToggler)
	store.On("ToggleWordFavorite", mock.Anything, list.ID, 0).Return(true, nil).Once()

	viewer := NewViewer(list, store, testutil.NewTestLogger())

	fav, err := viewer.ToggleFavorite(0)
	require.NoError(t, err)
	assert.True(t, fav)

	viewer.Wait()
	assert.True(t, viewer.Cards()[0].Word.Favorite)
	store.AssertExpectations(t)
}

func TestViewer_OptimisticToggleSurvivesFailure(t *testing.T) {
	list := testList()
	store := new(mockToggler)
	store.On("ToggleWordFavorite", mock.Anything, list.ID, 2).
		Return(false, &domain.NetworkError{Op: "toggle favorite", Err: errors.New("server unreachable")})

	viewer := NewViewer(list, store, testutil.NewTestLogger())

	var (
		mu       sync.Mutex
		reported []int
	)
	viewer.OnError(func(index int, err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, index)
	})

	_, err := viewer.ToggleFavorite(2)
	require.NoError(t, err)
	viewer.Wait()

	assert.True(t, viewer.Cards()[2].Word.Favorite)
	mu.Lock()
	assert.Equal(t, []int{2}, reported)
	mu.Unlock()

	viewer.SetFavoritesOnly(true)
	assert.Len(t, viewer.Visible(), 2)
}

func TestViewer_ToggleFavoriteTwiceRestores(t *testing.T) {
	list := testList()
	store := new(mockToggler)
	store.On("ToggleWordFavorite", mock.Anything, list.ID, 1).Return(false, nil).Once()
	store.On("ToggleWordFavorite", mock.Anything, list.ID, 1).Return(true, nil).Once()

	viewer := NewViewer(list, store, testutil.NewTestLogger())

	_, err := viewer.ToggleFavorite(1)
	require.NoError(t, err)
	_, err = viewer.ToggleFavorite(1)
	require.NoError(t, err)
	viewer.Wait()

	assert.True(t, viewer.Cards()[1].Word.Favorite)
	store.AssertNumberOfCalls(t, "ToggleWordFavorite", 2)
}

func TestViewer_ToggleFavoriteBadIndex(t *testing.T) {
	store := new(mockToggler)
	viewer := NewViewer(testList(), store, testutil.NewTestLogger())

	_, err := viewer.ToggleFavorite(-1)

	assert.ErrorIs(t, err, domain.ErrInvalidIndex)
	store.AssertNotCalled(t, "ToggleWordFavorite", mock.Anything, mock.Anything, mock.Anything)
}
