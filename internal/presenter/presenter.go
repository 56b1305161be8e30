// Package presenter maintains the single interface message per chat.
//
// The bot drives the whole dialog through one message that is edited in
// place. Show reconciles the desired view against that message: it edits
// when the message still exists, tolerates no-op edits, and falls back to
// sending a fresh message when the old one is gone or the edit fails.
package presenter

import (
	"context"
	"log/slog"

	"github.com/vilarso/cropservicebot/core/logger"
	"github.com/vilarso/cropservicebot/internal/session"
)

// Button is one inline keyboard button. Unique routes the callback and
// Data carries its argument.
type Button struct {
	Text   string
	Unique string
	Data   string
}

// View is the desired state of the interface message.
type View struct {
	Text     string
	Keyboard [][]Button
}

// EditStatus is the outcome of an edit attempt.
type EditStatus int

const (
	// Edited means the message was updated.
	Edited EditStatus = iota
	// Unchanged means the message already had the desired content.
	Unchanged
	// Missing means the message no longer exists or cannot be edited.
	Missing
	// Failed means any other transport error.
	Failed
)

// Transport delivers views to a chat. Implemented over the bot API in
// production and by a fake in tests.
type Transport interface {
	Send(ctx context.Context, chatID int64, v View) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, v View) (EditStatus, error)
	Delete(ctx context.Context, chatID int64, messageID int) error
}

// Presenter reconciles views against the session's interface message.
type Presenter struct {
	transport Transport
}

// New builds a presenter over the given transport.
func New(t Transport) *Presenter {
	return &Presenter{transport: t}
}

// Show makes the interface message display v, updating
// sess.LastMessageID when a new message had to be sent. Safe to call with
// the same view twice; the second call is a no-op.
func (p *Presenter) Show(ctx context.Context, sess *session.Session, v View) error {
	if sess.LastMessageID != 0 {
		status, err := p.transport.Edit(ctx, sess.ChatID, sess.LastMessageID, v)
		switch status {
		case Edited, Unchanged:
			return nil
		case Missing:
			logger.TWire.Debug("interface message gone, resending",
				slog.String("event", "present.resend"),
				slog.Int64("chat", sess.ChatID),
				slog.Int("message_id", sess.LastMessageID),
			)
		case Failed:
			logger.TWire.Warn("interface message edit failed, resending",
				slog.String("event", "present.resend"),
				slog.Int64("chat", sess.ChatID),
				slog.Int("message_id", sess.LastMessageID),
				slog.Any("err", err),
			)
		}
	}
	id, err := p.transport.Send(ctx, sess.ChatID, v)
	if err != nil {
		return err
	}
	sess.LastMessageID = id
	return nil
}

// Refresh discards the current interface message and sends v as a new one.
// Used on /start so the menu lands at the bottom of the chat.
func (p *Presenter) Refresh(ctx context.Context, sess *session.Session, v View) error {
	if sess.LastMessageID != 0 {
		if err := p.transport.Delete(ctx, sess.ChatID, sess.LastMessageID); err != nil {
			logger.TWire.Debug("stale interface message delete failed",
				slog.String("event", "present.delete"),
				slog.Int64("chat", sess.ChatID),
				slog.Int("message_id", sess.LastMessageID),
				slog.String("err", err.Error()),
			)
		}
		sess.LastMessageID = 0
	}
	return p.Show(ctx, sess, v)
}
