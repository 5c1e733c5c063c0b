package handler

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// payloadHandler handles a button press with the button's payload
type payloadHandler func(c tele.Context, payload string) error

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseCallback splits raw callback data into the button unique and payload
func parseCallback(data string) (unique, payload string) {
	data = cleanCallbackData(data)
	unique, payload, _ = strings.Cut(data, "|")
	return unique, payload
}

// parseIndex reads a card or word index from a payload
func parseIndex(payload string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// withPayload adapts a payloadHandler to a button handler, serialized per user
func (h *Handler) withPayload(next payloadHandler) tele.HandlerFunc {
	return func(c tele.Context) error {
		lock := h.userLock(c.Sender().ID)
		lock.Lock()
		defer lock.Unlock()

		return next(c, c.Callback().Data)
	}
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Message already shows this content
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already up to date, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the message behind a callback, or sends a new one for commands
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil || c.Message() == nil {
		return c.Send(text, markup)
	}

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleCallback handles callback queries no button handler claimed
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	unique, payload := callback.Unique, callback.Data
	if unique == "" {
		unique, payload = parseCallback(callback.Data)
	}

	h.logger.Info("handleCallback: Processing callback",
		zap.String("unique", unique),
		zap.String("payload", payload),
		zap.String("data_raw", callback.Data),
		zap.Int64("user_id", c.Sender().ID),
	)

	if route, ok := h.routes[unique]; ok {
		return h.withPayload(func(c tele.Context, _ string) error {
			return route(c, payload)
		})(c)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("unique", unique),
		zap.String("data", callback.Data),
	)
	return c.Respond()
}

// handleCancel cancels the current dialog and shows the editor
func (h *Handler) handleCancel(c tele.Context, _ string) error {
	h.ResetState(c.Sender().ID)
	return h.showDraft(c)
}
