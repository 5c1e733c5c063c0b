package handler

import (
	"fmt"
	"strings"

	"wordflip/internal/client"
	"wordflip/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Callback uniques
const (
	cbDraftFav    = "draft_fav"
	cbDraftEdit   = "draft_edit"
	cbDraftDel    = "draft_del"
	cbGenerate    = "generate"
	cbLoad        = "load"
	cbCardFlip    = "card_flip"
	cbCardFav     = "card_fav"
	cbFlipAll     = "flip_all"
	cbFavFilter   = "fav_filter"
	cbBackEditor  = "back_editor"
	cbCancel      = "cancel"
	cbDraftPage   = "draft_page"
	cbCardPage    = "card_page"
	noMeaningText = "(no meaning)"
)

// Telegram rejects inline keyboards with more than 100 buttons
const (
	draftPageSize = 10
	cardPageSize  = 20
)

var (
	btnGenerate = tele.Btn{Unique: cbGenerate, Text: "🃏 Generate cards"}
	btnLoad     = tele.Btn{Unique: cbLoad, Text: "📂 Load last list"}
	btnFlipAll  = tele.Btn{Unique: cbFlipAll, Text: "🔄 Flip all"}
	btnBack     = tele.Btn{Unique: cbBackEditor, Text: "✏️ Back to editor"}
	btnCancel   = tele.Btn{Unique: cbCancel, Text: "❌ Cancel"}
)

func modeLabel(connected bool) string {
	if connected {
		return "🟢 server: online"
	}
	return "🟡 server: offline (local mode)"
}

func star(favorite bool) string {
	if favorite {
		return "★"
	}
	return "☆"
}

// pageBounds clamps page into range and returns the slice bounds it covers
func pageBounds(total, page, size int) (start, end, clamped, pages int) {
	pages = (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}
	start = page * size
	end = start + size
	if end > total {
		end = total
	}
	return start, end, page, pages
}

// lastPage is the page holding the final item
func lastPage(total, size int) int {
	if total == 0 {
		return 0
	}
	return (total - 1) / size
}

// pager returns the navigation row, or nil when everything fits on one page
func pager(markup *tele.ReplyMarkup, unique string, page, pages int) tele.Row {
	if pages <= 1 {
		return nil
	}
	row := tele.Row{}
	if page > 0 {
		row = append(row, markup.Data("◀", unique, fmt.Sprint(page-1)))
	}
	row = append(row, markup.Data(fmt.Sprintf("%d/%d", page+1, pages), unique, fmt.Sprint(page)))
	if page < pages-1 {
		row = append(row, markup.Data("▶", unique, fmt.Sprint(page+1)))
	}
	return row
}

// renderDraft builds the editor message and its inline keyboard for one page
func renderDraft(title, target string, words []domain.Word, connected bool, page int) (string, *tele.ReplyMarkup) {
	var b strings.Builder

	start, end, page, pages := pageBounds(len(words), page, draftPageSize)

	fmt.Fprintf(&b, "📝 %s\n", domain.ListTitle(title))
	fmt.Fprintf(&b, "%s · target: %s\n", modeLabel(connected), target)
	if pages > 1 {
		fmt.Fprintf(&b, "%d words · page %d/%d\n", len(words), page+1, pages)
	}
	b.WriteString("\n")

	if len(words) == 0 {
		b.WriteString("No words yet. Send a word to add it.")
	}
	for i := start; i < end; i++ {
		w := words[i]
		fmt.Fprintf(&b, "%d. %s %s — %s\n", i+1, star(w.Favorite), w.Term, meaningText(w.Meaning))
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, end-start+2)
	for i := start; i < end; i++ {
		w := words[i]
		idx := fmt.Sprint(i)
		rows = append(rows, markup.Row(
			markup.Data(fmt.Sprintf("%d. %s", i+1, w.Term), cbDraftEdit, idx),
			markup.Data(star(w.Favorite), cbDraftFav, idx),
			markup.Data("🗑", cbDraftDel, idx),
		))
	}
	if nav := pager(markup, cbDraftPage, page, pages); nav != nil {
		rows = append(rows, nav)
	}
	if len(words) > 0 {
		rows = append(rows, markup.Row(btnGenerate, btnLoad))
	} else {
		rows = append(rows, markup.Row(btnLoad))
	}
	markup.Inline(rows...)

	return b.String(), markup
}

// renderCards builds the flashcard message for one page of the visible cards
func renderCards(title string, cards []client.Card, favoritesOnly bool, page int) (string, *tele.ReplyMarkup) {
	var b strings.Builder

	start, end, page, pages := pageBounds(len(cards), page, cardPageSize)

	fmt.Fprintf(&b, "🃏 %s\n", title)
	if pages > 1 {
		fmt.Fprintf(&b, "%d cards · page %d/%d\n", len(cards), page+1, pages)
	}
	if favoritesOnly {
		b.WriteString("Showing favorites only\n")
	}
	b.WriteString("\nTap a card to flip it.")
	if len(cards) == 0 {
		b.WriteString("\n\nNo cards to show.")
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, end-start+3)
	for _, card := range cards[start:end] {
		idx := fmt.Sprint(card.Index)
		face := card.Word.Term
		if card.Back {
			face = "↩ " + meaningText(card.Word.Meaning)
		}
		rows = append(rows, markup.Row(
			markup.Data(face, cbCardFlip, idx),
			markup.Data(star(card.Word.Favorite), cbCardFav, idx),
		))
	}

	if nav := pager(markup, cbCardPage, page, pages); nav != nil {
		rows = append(rows, nav)
	}

	filter := "⭐ Favorites only"
	if favoritesOnly {
		filter = "📋 Show all"
	}
	rows = append(rows,
		markup.Row(btnFlipAll, markup.Data(filter, cbFavFilter)),
		markup.Row(btnBack),
	)
	markup.Inline(rows...)

	return b.String(), markup
}

func meaningText(meaning string) string {
	if strings.TrimSpace(meaning) == "" {
		return noMeaningText
	}
	return meaning
}
