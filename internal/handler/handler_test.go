package handler

import (
	"fmt"
	"strings"
	"testing"

	"wordflip/internal/client"
	"wordflip/internal/domain"
	"wordflip/internal/storage"
	"wordflip/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func newTestHandler() *Handler {
	logger := testutil.NewTestLogger()
	api := client.NewAPIClient("http://127.0.0.1:0", 0)
	conn := client.NewConnectivity(api, logger)
	apps := client.NewRegistry(func(key string) *client.App {
		return client.NewApp(api, conn, storage.NewMemory(), "ko", logger)
	})
	return NewHandler(nil, apps, conn, logger)
}

func TestHandler_States(t *testing.T) {
	h := newTestHandler()

	assert.Equal(t, domain.StateIdle, h.GetState(1).State)

	h.SetState(1, &domain.StateData{State: domain.StateWaitingPassword, AuthMode: domain.AuthLogin, Username: "alice"})
	state := h.GetState(1)
	assert.Equal(t, domain.StateWaitingPassword, state.State)
	assert.Equal(t, "alice", state.Username)
	assert.Equal(t, domain.StateIdle, h.GetState(2).State)

	h.ResetState(1)
	assert.Equal(t, domain.StateIdle, h.GetState(1).State)
}

func TestHandler_UserLock(t *testing.T) {
	h := newTestHandler()

	assert.Same(t, h.userLock(1), h.userLock(1))
	assert.NotSame(t, h.userLock(1), h.userLock(2))
}

func TestHandler_RoutesCoverButtons(t *testing.T) {
	h := newTestHandler()

	for _, unique := range []string{
		cbDraftFav, cbDraftEdit, cbDraftDel, cbGenerate, cbLoad,
		cbCardFlip, cbCardFav, cbFlipAll, cbFavFilter, cbBackEditor, cbCancel,
		cbDraftPage, cbCardPage,
	} {
		assert.Contains(t, h.routes, unique)
	}
}

// buttonData lists buttons as unique|payload
func buttonData(markup *tele.ReplyMarkup) [][]string {
	var out [][]string
	for _, row := range markup.InlineKeyboard {
		var line []string
		for _, btn := range row {
			if btn.Data == "" {
				line = append(line, btn.Unique)
			} else {
				line = append(line, btn.Unique+"|"+btn.Data)
			}
		}
		out = append(out, line)
	}
	return out
}

func TestRenderDraft(t *testing.T) {
	words := []domain.Word{
		{Term: "apple", Meaning: "사과"},
		{Term: "zzz", Favorite: true},
	}

	text, markup := renderDraft("", "ko", words, false, 0)

	assert.Contains(t, text, domain.DefaultListTitle)
	assert.Contains(t, text, "offline")
	assert.Contains(t, text, "1. ☆ apple — 사과")
	assert.Contains(t, text, "2. ★ zzz — (no meaning)")

	data := buttonData(markup)
	require.Len(t, data, 3)
	assert.Equal(t, []string{"draft_edit|0", "draft_fav|0", "draft_del|0"}, data[0])
	assert.Equal(t, []string{"draft_edit|1", "draft_fav|1", "draft_del|1"}, data[1])
	assert.Equal(t, []string{"generate", "load"}, data[2])
}

func TestRenderDraft_Empty(t *testing.T) {
	text, markup := renderDraft("Animals", "ja", nil, true, 0)

	assert.Contains(t, text, "Animals")
	assert.Contains(t, text, "online")
	assert.Contains(t, text, "No words yet")
	assert.Equal(t, [][]string{{"load"}}, buttonData(markup))
}

func TestRenderCards(t *testing.T) {
	cards := []client.Card{
		{Index: 0, Word: domain.Word{Term: "cat", Meaning: "고양이"}},
		{Index: 2, Word: domain.Word{Term: "sun", Meaning: "태양", Favorite: true}, Back: true},
	}

	text, markup := renderCards("Animals", cards, true, 0)

	assert.Contains(t, text, "Animals")
	assert.Contains(t, text, "favorites only")

	require.Len(t, markup.InlineKeyboard, 4)
	assert.Equal(t, "cat", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "↩ 태양", markup.InlineKeyboard[1][0].Text)
	assert.Equal(t, "★", markup.InlineKeyboard[1][1].Text)
	assert.Equal(t, "card_fav", markup.InlineKeyboard[1][1].Unique)
	assert.Equal(t, "2", markup.InlineKeyboard[1][1].Data)
	assert.Equal(t, "📋 Show all", markup.InlineKeyboard[2][1].Text)
	assert.Equal(t, "back_editor", markup.InlineKeyboard[3][0].Unique)
}

func TestRenderCards_Empty(t *testing.T) {
	text, markup := renderCards("Empty", nil, true, 0)

	assert.Contains(t, text, "No cards to show")
	assert.Len(t, markup.InlineKeyboard, 2)
}

func numberedWords(n int) []domain.Word {
	words := make([]domain.Word, n)
	for i := range words {
		words[i] = domain.Word{Term: fmt.Sprintf("w%d", i), Meaning: "m"}
	}
	return words
}

func buttonCount(markup *tele.ReplyMarkup) int {
	n := 0
	for _, row := range markup.InlineKeyboard {
		n += len(row)
	}
	return n
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name                            string
		total, page, size               int
		start, end, expectedPage, pages int
	}{
		{name: "empty", total: 0, page: 0, size: 10, start: 0, end: 0, expectedPage: 0, pages: 1},
		{name: "single page", total: 7, page: 0, size: 10, start: 0, end: 7, expectedPage: 0, pages: 1},
		{name: "exact fit", total: 20, page: 1, size: 10, start: 10, end: 20, expectedPage: 1, pages: 2},
		{name: "partial last page", total: 45, page: 4, size: 10, start: 40, end: 45, expectedPage: 4, pages: 5},
		{name: "page past the end clamps", total: 45, page: 9, size: 10, start: 40, end: 45, expectedPage: 4, pages: 5},
		{name: "negative page clamps", total: 45, page: -1, size: 10, start: 0, end: 10, expectedPage: 0, pages: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, page, pages := pageBounds(tt.total, tt.page, tt.size)

			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.pages, pages)
		})
	}
}

func TestRenderDraft_Pages(t *testing.T) {
	words := numberedWords(45)

	text, markup := renderDraft("Big", "ko", words, true, 2)

	assert.Contains(t, text, "45 words · page 3/5")
	assert.Contains(t, text, "21. ☆ w20 — m")
	assert.Contains(t, text, "30. ☆ w29 — m")
	assert.NotContains(t, text, "w19 —")
	assert.NotContains(t, text, "w30 —")

	data := buttonData(markup)
	require.Len(t, data, draftPageSize+2)
	assert.Equal(t, []string{"draft_edit|20", "draft_fav|20", "draft_del|20"}, data[0])
	assert.Equal(t, []string{"draft_page|1", "draft_page|2", "draft_page|3"}, data[draftPageSize])
	assert.Equal(t, []string{"generate", "load"}, data[draftPageSize+1])

	// a page left behind by deletions shows the last page
	_, markup = renderDraft("Big", "ko", words, true, 7)
	data = buttonData(markup)
	require.Len(t, data, 5+2)
	assert.Equal(t, []string{"draft_edit|40", "draft_fav|40", "draft_del|40"}, data[0])
	assert.Equal(t, []string{"draft_page|3", "draft_page|4"}, data[5])
}

func TestRender_KeyboardLimit(t *testing.T) {
	for _, n := range []int{1, 33, 34, 100, 500} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			words := numberedWords(n)
			cards := make([]client.Card, n)
			for i, w := range words {
				cards[i] = client.Card{Index: i, Word: w}
			}

			pages := (n + draftPageSize - 1) / draftPageSize
			for page := 0; page < pages; page++ {
				_, markup := renderDraft("", "ko", words, true, page)
				assert.LessOrEqual(t, buttonCount(markup), 100)
			}

			_, markup := renderCards("", cards, false, 0)
			assert.LessOrEqual(t, buttonCount(markup), 100)
		})
	}
}

func TestRenderCards_Pages(t *testing.T) {
	cards := make([]client.Card, 50)
	for i := range cards {
		cards[i] = client.Card{Index: i, Word: domain.Word{Term: fmt.Sprintf("c%d", i)}}
	}

	text, markup := renderCards("Deck", cards, false, 1)

	assert.Contains(t, text, "50 cards · page 2/3")
	require.Len(t, markup.InlineKeyboard, cardPageSize+3)
	assert.Equal(t, "c20", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "20", markup.InlineKeyboard[0][1].Data)

	nav := markup.InlineKeyboard[cardPageSize]
	require.Len(t, nav, 3)
	assert.Equal(t, "card_page", nav[0].Unique)
	assert.Equal(t, "0", nav[0].Data)
	assert.Equal(t, "2", nav[2].Data)
}

func TestHandler_PagePosition(t *testing.T) {
	h := newTestHandler()

	assert.Equal(t, pagePosition{}, h.page(1, nil))

	h.page(1, func(p *pagePosition) { p.draft = lastPage(21, draftPageSize) })
	h.page(1, func(p *pagePosition) { p.cards = 3 })

	assert.Equal(t, pagePosition{draft: 2, cards: 3}, h.page(1, nil))
	assert.Equal(t, pagePosition{}, h.page(2, nil))
	assert.Equal(t, 0, lastPage(0, draftPageSize))
	assert.Equal(t, 0, lastPage(10, draftPageSize))
	assert.Equal(t, 1, lastPage(11, draftPageSize))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "stale index", err: domain.ErrInvalidIndex, expected: "That item no longer exists. The list has changed."},
		{name: "validation", err: domain.NewValidationError("term required"), expected: "term required"},
		{name: "auth", err: fmt.Errorf("login: %w", domain.ErrInvalidCredentials), expected: "invalid credentials"},
		{name: "not found", err: domain.ErrNotFound, expected: "List not found."},
		{name: "network", err: &domain.NetworkError{Op: "x", Err: fmt.Errorf("refused")}, expected: "Server unreachable."},
		{name: "internal", err: fmt.Errorf("decode local lists: boom"), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, userMessage(tt.err))
		})
	}
}

func TestHelpTextListsCommands(t *testing.T) {
	for _, cmd := range []string{"/translate", "/generate", "/cards", "/load", "/lang", "/login", "/status"} {
		assert.True(t, strings.Contains(helpText, cmd), cmd)
	}
}
