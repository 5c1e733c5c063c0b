package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const helpText = `Send any word to add it to your list. It gets translated automatically.

/translate <text> - translate without adding
/generate [title] - save the list and show flashcards
/cards - show the last flashcards again
/load - load your most recent list into the editor
/title <title> - set the list title
/lang <code> - set the target language (default ko)
/clear - empty the editor
/register, /login, /logout - manage your account
/status - check the server connection`

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	h.ResetState(userID)

	app := h.app(c)
	if _, err := app.PopulateDemo(context.Background()); err != nil {
		h.logger.Error("Failed to prefill demo words", zap.Error(err), zap.Int64("user_id", userID))
	}

	greeting := "👋 Welcome to wordflip!"
	if sess, err := app.Sessions.Current(context.Background()); err == nil && sess.Valid() {
		greeting = fmt.Sprintf("👋 Welcome back, %s!", sess.Username)
	}

	if err := c.Send(greeting + "\n\n" + helpText); err != nil {
		return err
	}
	return h.showDraft(c)
}

func (h *Handler) handleHelp(c tele.Context) error {
	return c.Send(helpText)
}

// handleStatus probes the server and reports the mode
func (h *Handler) handleStatus(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	connected := h.conn.Probe(ctx)
	return c.Send(modeLabel(connected))
}
