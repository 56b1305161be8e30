package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/vilarso/cropservicebot/core/logger"
	"github.com/vilarso/cropservicebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func runAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// DeleteAsync removes the sender's message through the dispatcher.
// Missing messages are treated as already deleted.
func DeleteAsync(c tele.Context, msg *tele.Message) error {
	if msg == nil {
		return nil
	}
	bot := c.Bot()
	return runAsync(c, "delete.message", "deleteMessage", func() error {
		if err := bot.Delete(msg); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		return nil
	})
}

func isNotFound(err error) bool {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 400 || apiErr.Code == 404
	}
	return false
}
