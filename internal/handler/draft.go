package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"wordflip/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	requestTimeout = 30 * time.Second
	probeTimeout   = 10 * time.Second
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// showDraft renders the editor
func (h *Handler) showDraft(c tele.Context) error {
	draft := h.app(c).Draft
	pos := h.page(c.Sender().ID, nil)
	text, markup := renderDraft(draft.Title(), draft.Target(), draft.Words(), h.conn.Connected(), pos.draft)
	return h.show(c, text, markup)
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingMeaning:
		h.ResetState(userID)
		if err := h.app(c).Draft.EditMeaning(state.WordIndex, text); err != nil {
			return h.replyError(c, err)
		}
		return h.showDraft(c)

	case domain.StateWaitingTitle:
		h.ResetState(userID)
		if text == "-" {
			text = ""
		}
		return h.generate(c, text)

	case domain.StateWaitingUsername:
		h.SetState(userID, &domain.StateData{
			State:    domain.StateWaitingPassword,
			AuthMode: state.AuthMode,
			Username: text,
		})
		return c.Send("🔑 Now send your password.", cancelMarkup())

	case domain.StateWaitingPassword:
		h.ResetState(userID)
		return h.authenticate(c, state.AuthMode, state.Username, c.Text())

	default:
		return h.addTerm(c, text)
	}
}

func (h *Handler) addTerm(c tele.Context, term string) error {
	ctx, cancel := requestContext()
	defer cancel()

	word, added, err := h.app(c).Draft.AddTerm(ctx, term)
	if err != nil {
		return h.replyError(c, err)
	}
	if !added {
		return nil
	}

	h.logger.Info("Term added",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("term", word.Term),
	)
	total := h.app(c).Draft.Len()
	h.page(c.Sender().ID, func(p *pagePosition) { p.draft = lastPage(total, draftPageSize) })
	return h.showDraft(c)
}

// handleTranslate translates the command payload without adding it
func (h *Handler) handleTranslate(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	translated, err := h.app(c).Draft.Translate(ctx, c.Message().Payload)
	if err != nil {
		return c.Send("Usage: /translate <text>")
	}
	return c.Send("🔤 " + translated)
}

// handleGenerate saves the draft, asking for a title when none was given
func (h *Handler) handleGenerate(c tele.Context) error {
	title := strings.TrimSpace(c.Message().Payload)
	app := h.app(c)

	if app.Draft.Len() == 0 {
		return c.Send("No words added yet.")
	}
	if title == "" && app.Draft.Title() == "" {
		h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingTitle})
		return c.Send("📝 Send a title for the list, or - for \""+domain.DefaultListTitle+"\".", cancelMarkup())
	}
	return h.generate(c, title)
}

func (h *Handler) handleGenerateButton(c tele.Context, _ string) error {
	app := h.app(c)
	if app.Draft.Len() == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "No words added yet.", ShowAlert: true})
	}
	return h.generate(c, "")
}

func (h *Handler) generate(c tele.Context, title string) error {
	ctx, cancel := requestContext()
	defer cancel()

	userID := c.Sender().ID
	viewer, err := h.app(c).Commit(ctx, title)
	if err != nil {
		return h.replyError(c, err)
	}

	recipient := c.Recipient()
	viewer.OnError(func(index int, err error) {
		if h.bot == nil {
			return
		}
		if _, sendErr := h.bot.Send(recipient, "⚠️ Favorite could not be saved: "+userMessage(err)); sendErr != nil {
			h.logger.Warn("Failed to report favorite error", zap.Error(sendErr))
		}
	})
	h.setViewer(userID, viewer)
	h.page(userID, func(p *pagePosition) { p.cards = 0 })

	h.logger.Info("List saved",
		zap.Int64("user_id", userID),
		zap.String("list_id", viewer.ListID()),
		zap.Bool("local", domain.IsLocalID(viewer.ListID())),
	)
	return h.showCards(c, viewer)
}

// handleLoad replaces the editor with the most recent saved list
func (h *Handler) handleLoad(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	list, err := h.app(c).LoadIntoDraft(ctx)
	if err != nil {
		return h.replyError(c, err)
	}
	if list == nil {
		return c.Send("You have no saved lists yet.")
	}
	h.page(c.Sender().ID, func(p *pagePosition) { p.draft = 0 })
	return h.showDraft(c)
}

func (h *Handler) handleLoadButton(c tele.Context, _ string) error {
	ctx, cancel := requestContext()
	defer cancel()

	list, err := h.app(c).LoadIntoDraft(ctx)
	if err != nil {
		return h.replyError(c, err)
	}
	if list == nil {
		return c.Respond(&tele.CallbackResponse{Text: "You have no saved lists yet.", ShowAlert: true})
	}
	h.page(c.Sender().ID, func(p *pagePosition) { p.draft = 0 })
	return h.showDraft(c)
}

func (h *Handler) handleClear(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	h.app(c).Draft.Reset()
	h.page(c.Sender().ID, func(p *pagePosition) { p.draft = 0 })
	return h.showDraft(c)
}

func (h *Handler) handleLang(c tele.Context) error {
	lang := strings.ToLower(strings.TrimSpace(c.Message().Payload))
	if lang == "" {
		return c.Send("Target language: " + h.app(c).Draft.Target() + "\nUsage: /lang <code>")
	}
	h.app(c).Draft.SetTarget(lang)
	return c.Send("🌐 Target language set to " + lang)
}

func (h *Handler) handleTitle(c tele.Context) error {
	h.app(c).Draft.SetTitle(c.Message().Payload)
	return h.showDraft(c)
}

func (h *Handler) handleDraftFavorite(c tele.Context, payload string) error {
	i, ok := parseIndex(payload)
	if !ok {
		return c.Respond()
	}
	if _, err := h.app(c).Draft.ToggleFavorite(i); err != nil {
		return h.replyError(c, err)
	}
	return h.showDraft(c)
}

func (h *Handler) handleDraftDelete(c tele.Context, payload string) error {
	i, ok := parseIndex(payload)
	if !ok {
		return c.Respond()
	}
	if err := h.app(c).Draft.RemoveAt(i); err != nil {
		return h.replyError(c, err)
	}
	return h.showDraft(c)
}

func (h *Handler) handleDraftEdit(c tele.Context, payload string) error {
	i, ok := parseIndex(payload)
	if !ok {
		return c.Respond()
	}

	words := h.app(c).Draft.Words()
	if i >= len(words) {
		return h.replyError(c, domain.ErrInvalidIndex)
	}

	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingMeaning, WordIndex: i})
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return c.Send("✏️ Send a new meaning for \""+words[i].Term+"\".", cancelMarkup())
}

// replyError reports a user-facing error as an alert or a message
func (h *Handler) replyError(c tele.Context, err error) error {
	msg := userMessage(err)
	if msg == "" {
		h.logger.Error("Request failed", zap.Error(err), zap.Int64("user_id", c.Sender().ID))
		msg = "Something went wrong. Please try again."
	}

	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: msg, ShowAlert: true})
	}
	return c.Send("⚠️ " + msg)
}

// userMessage returns the text shown for known errors, or "" for internal ones
func userMessage(err error) string {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthError

	switch {
	case errors.Is(err, domain.ErrInvalidIndex):
		return "That item no longer exists. The list has changed."
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.Is(err, domain.ErrNotFound):
		return "List not found."
	case domain.IsNetwork(err):
		return "Server unreachable."
	default:
		return ""
	}
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}

func (h *Handler) handleDraftPage(c tele.Context, payload string) error {
	page, ok := parseIndex(payload)
	if !ok {
		return c.Respond()
	}
	h.page(c.Sender().ID, func(p *pagePosition) { p.draft = page })
	return h.showDraft(c)
}
