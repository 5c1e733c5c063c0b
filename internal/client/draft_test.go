package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"wordflip/internal/domain"
	"wordflip/internal/storage"
	"wordflip/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineDraft(t *testing.T) (*Draft, *ListStore) {
	t.Helper()
	logger := testutil.NewTestLogger()
	api := new(mockAPI)
	store := storage.NewMemory()

	conn := NewConnectivity(api, logger)
	conn.MarkUnreachable(errRefused)

	sessions := NewSessionManager(conn, NewRemoteCredentials(api), NewLocalCredentials(store), store, logger)
	lists := NewListStore(conn, NewRemoteBackend(api), NewLocalBackend(store), sessions, logger)
	return NewDraft(NewTranslator(conn, api, logger), lists, "ko"), lists
}

func TestDraft_AddTerm(t *testing.T) {
	draft, _ := offlineDraft(t)

	word, added, err := draft.AddTerm(context.Background(), "  apple ")

	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, domain.Word{Term: "apple", Meaning: "사과"}, word)

	_, _, err = draft.AddTerm(context.Background(), "unknownword")
	require.NoError(t, err)

	words := draft.Words()
	require.Len(t, words, 2)
	assert.Equal(t, "unknownword (번역)", words[1].Meaning)
	assert.False(t, words[1].Favorite)
}

func TestDraft_AddTerm_Blank(t *testing.T) {
	draft, _ := offlineDraft(t)

	_, added, err := draft.AddTerm(context.Background(), "   ")

	assert.False(t, added)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, draft.Len())
}

func TestDraft_AddTerm_TargetLanguage(t *testing.T) {
	draft, _ := offlineDraft(t)
	draft.SetTarget("ja")

	word, _, err := draft.AddTerm(context.Background(), "apple")

	require.NoError(t, err)
	assert.Equal(t, "apple (translated)", word.Meaning)
}

func TestDraft_ResetDropsInFlightAdd(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	draft := NewDraft(stubTranslator{translate: func(ctx context.Context, text, target string) string {
		close(started)
		<-release
		return "late"
	}}, nil, "ko")

	var (
		wg    sync.WaitGroup
		added bool
		err   error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, added, err = draft.AddTerm(context.Background(), "cat")
	}()

	<-started
	draft.Reset()
	close(release)
	wg.Wait()

	assert.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, draft.Words())
}

func TestDraft_ConcurrentAddsKeepCallOrder(t *testing.T) {
	firstStarted := make(chan struct{})
	secondStarted := make(chan struct{})
	release := make(chan struct{})

	draft := NewDraft(stubTranslator{translate: func(ctx context.Context, text, target string) string {
		if text == "first" {
			close(firstStarted)
			<-release
		} else {
			close(secondStarted)
		}
		return text + "-meaning"
	}}, nil, "ko")

	var wg sync.WaitGroup
	add := func(term string) {
		defer wg.Done()
		_, added, err := draft.AddTerm(context.Background(), term)
		assert.NoError(t, err)
		assert.True(t, added)
	}

	wg.Add(2)
	go add("first")
	<-firstStarted
	go add("second")

	select {
	case <-secondStarted:
		t.Fatal("second add translated while the first was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()

	assert.Equal(t, []domain.Word{
		{Term: "first", Meaning: "first-meaning"},
		{Term: "second", Meaning: "second-meaning"},
	}, draft.Words())
}

func TestDraft_IndexOperations(t *testing.T) {
	draft, _ := offlineDraft(t)
	draft.Replace("Fruits", []domain.Word{
		{Term: "apple", Meaning: "사과"},
		{Term: "book", Meaning: "책"},
	})

	fav, err := draft.ToggleFavorite(0)
	require.NoError(t, err)
	assert.True(t, fav)
	fav, err = draft.ToggleFavorite(0)
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, draft.EditMeaning(1, "도서"))
	require.NoError(t, draft.RemoveAt(0))

	assert.Equal(t, []domain.Word{{Term: "book", Meaning: "도서"}}, draft.Words())
	assert.Equal(t, "Fruits", draft.Title())

	for _, i := range []int{-1, 1, 7} {
		assert.ErrorIs(t, draft.EditMeaning(i, "x"), domain.ErrInvalidIndex)
		assert.ErrorIs(t, draft.RemoveAt(i), domain.ErrInvalidIndex)
		_, err := draft.ToggleFavorite(i)
		assert.ErrorIs(t, err, domain.ErrInvalidIndex)
	}
}

func TestDraft_Commit(t *testing.T) {
	ctx := context.Background()
	draft, lists := offlineDraft(t)

	_, err := draft.Commit(ctx, "")
	assert.True(t, domain.IsValidation(err))

	_, _, err = draft.AddTerm(ctx, "cat")
	require.NoError(t, err)
	_, _, err = draft.AddTerm(ctx, "dog")
	require.NoError(t, err)
	draft.SetTitle("Animals")

	saved, err := draft.Commit(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Animals", saved.Title)
	assert.True(t, saved.IsLocal())

	loaded, err := lists.LoadMostRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, draft.Words(), loaded.Words)
}

func TestDraft_Translate(t *testing.T) {
	draft, _ := offlineDraft(t)

	out, err := draft.Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", out)
	assert.Equal(t, 0, draft.Len())

	_, err = draft.Translate(context.Background(), "")
	assert.True(t, domain.IsValidation(err))
}
