package handler

import (
	"context"

	"wordflip/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func (h *Handler) handleRegister(c tele.Context) error {
	return h.startAuth(c, domain.AuthRegister)
}

func (h *Handler) handleLogin(c tele.Context) error {
	return h.startAuth(c, domain.AuthLogin)
}

func (h *Handler) startAuth(c tele.Context, mode domain.AuthMode) error {
	h.SetState(c.Sender().ID, &domain.StateData{
		State:    domain.StateWaitingUsername,
		AuthMode: mode,
	})

	prompt := "👤 Log in: send your username."
	if mode == domain.AuthRegister {
		prompt = "👤 Sign up: choose a username."
	}
	return c.Send(prompt, cancelMarkup())
}

// authenticate finishes the username/password dialog
func (h *Handler) authenticate(c tele.Context, mode domain.AuthMode, username, password string) error {
	// the password should not stay in the chat history
	if err := c.Delete(); err != nil {
		h.logger.Debug("Failed to delete password message", zap.Error(err))
	}

	ctx, cancel := requestContext()
	defer cancel()

	sessions := h.app(c).Sessions

	var (
		sess domain.Session
		err  error
	)
	if mode == domain.AuthRegister {
		sess, err = sessions.Register(ctx, username, password)
	} else {
		sess, err = sessions.Login(ctx, username, password)
	}
	if err != nil {
		return h.replyError(c, err)
	}

	h.logger.Info("User authenticated",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("mode", string(mode)),
		zap.String("username", sess.Username),
		zap.Bool("local", sess.IsLocal()),
	)

	msg := "✅ Logged in as " + sess.Username
	if sess.IsLocal() {
		msg += " (local account)"
	}
	return c.Send(msg)
}

func (h *Handler) handleLogout(c tele.Context) error {
	if err := h.app(c).Sessions.Logout(context.Background()); err != nil {
		return h.replyError(c, err)
	}
	h.ResetState(c.Sender().ID)
	return c.Send("👋 Logged out.")
}
