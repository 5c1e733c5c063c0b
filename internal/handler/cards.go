package handler

import (
	"wordflip/internal/client"

	tele "gopkg.in/telebot.v3"
)

func (h *Handler) showCards(c tele.Context, v *client.Viewer) error {
	pos := h.page(c.Sender().ID, nil)
	text, markup := renderCards(v.Title(), v.Visible(), v.FavoritesOnly(), pos.cards)
	return h.show(c, text, markup)
}

// openViewer returns the user's viewer or answers that none is open
func (h *Handler) openViewer(c tele.Context) (*client.Viewer, bool) {
	v := h.viewer(c.Sender().ID)
	if v == nil {
		if c.Callback() != nil {
			c.Respond(&tele.CallbackResponse{Text: "No flashcards open. Use /generate.", ShowAlert: true})
		} else {
			c.Send("No flashcards open. Use /generate.")
		}
		return nil, false
	}
	return v, true
}

// handleCards shows the last generated flashcards again
func (h *Handler) handleCards(c tele.Context) error {
	v, ok := h.openViewer(c)
	if !ok {
		return nil
	}
	return h.showCards(c, v)
}

func (h *Handler) handleCardFlip(c tele.Context, payload string) error {
	v, ok := h.openViewer(c)
	if !ok {
		return nil
	}
	i, valid := parseIndex(payload)
	if !valid {
		return c.Respond()
	}
	if err := v.Flip(i); err != nil {
		return h.replyError(c, err)
	}
	return h.showCards(c, v)
}

// handleCardFavorite updates the view at once; persistence runs in the background
func (h *Handler) handleCardFavorite(c tele.Context, payload string) error {
	v, ok := h.openViewer(c)
	if !ok {
		return nil
	}
	i, valid := parseIndex(payload)
	if !valid {
		return c.Respond()
	}
	if _, err := v.ToggleFavorite(i); err != nil {
		return h.replyError(c, err)
	}
	return h.showCards(c, v)
}

func (h *Handler) handleFlipAll(c tele.Context, _ string) error {
	v, ok := h.openViewer(c)
	if !ok {
		return nil
	}
	v.FlipAll()
	return h.showCards(c, v)
}

func (h *Handler) handleFavoritesFilter(c tele.Context, _ string) error {
	v, ok := h.openViewer(c)
	if !ok {
		return nil
	}
	v.SetFavoritesOnly(!v.FavoritesOnly())
	h.page(c.Sender().ID, func(p *pagePosition) { p.cards = 0 })
	return h.showCards(c, v)
}

func (h *Handler) handleBackToEditor(c tele.Context, _ string) error {
	return h.showDraft(c)
}

func (h *Handler) handleCardPage(c tele.Context, payload string) error {
	v, ok := h.openViewer(c)
	if !ok {
		return nil
	}
	page, valid := parseIndex(payload)
	if !valid {
		return c.Respond()
	}
	h.page(c.Sender().ID, func(p *pagePosition) { p.cards = page })
	return h.showCards(c, v)
}
