package client

import (
	"context"

	"wordflip/internal/translate"

	"go.uber.org/zap"
)

// RemoteTranslator is the server side of translation
type RemoteTranslator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Translator picks remote or offline translation from the mode flag
type Translator struct {
	conn   *Connectivity
	remote RemoteTranslator
	logger *zap.Logger
}

func NewTranslator(conn *Connectivity, remote RemoteTranslator, logger *zap.Logger) *Translator {
	return &Translator{conn: conn, remote: remote, logger: logger}
}

// Translate never fails: anything the server cannot answer falls back
// to the offline dictionary.
func (t *Translator) Translate(ctx context.Context, text, target string) string {
	if !t.conn.Connected() {
		return translate.Offline(text, target)
	}

	translated, err := t.remote.Translate(ctx, text, target)
	if err != nil {
		t.logger.Debug("Remote translation failed", zap.String("text", text), zap.Error(err))
		t.conn.MarkUnreachable(err)
		return translate.Offline(text, target)
	}
	if translated == "" {
		return translate.Offline(text, target)
	}
	return translated
}
