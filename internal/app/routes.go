package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/vilarso/cropservicebot/core/logger"
	coretelegram "github.com/vilarso/cropservicebot/core/telegram"
	"github.com/vilarso/cropservicebot/core/telegram/callbacks"
	"github.com/vilarso/cropservicebot/core/telegram/commands"
	tghelpers "github.com/vilarso/cropservicebot/core/telegram/helpers"
	"github.com/vilarso/cropservicebot/internal/flow"
	"github.com/vilarso/cropservicebot/internal/session"
	"github.com/vilarso/cropservicebot/internal/store"
)

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.onStart,
		Description: "Open the job board",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.onHelp,
		Description: "How the board works",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.onStats,
		Description: "Board statistics",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.SetTextFallback(a.onText)
}

var flowUniques = []string{
	flow.UniqueMenuAdd,
	flow.UniqueMenuSearch,
	flow.UniqueMenuMy,
	flow.UniqueMenuHelp,
	flow.UniqueNavBack,
	flow.UniqueNavMain,
	flow.UniquePickType,
	flow.UniqueCreateCat,
	flow.UniqueBrowseCat,
	flow.UniqueSkipContact,
	flow.UniqueConfirm,
	flow.UniqueBrowsePage,
	flow.UniqueMyPage,
	flow.UniqueEdit,
	flow.UniqueDelete,
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) error {
	for _, unique := range flowUniques {
		unique := unique
		err := reg.RegisterCallback(unique, func(c tele.Context) error {
			return a.onAction(c, unique)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// InProgress reports whether the user's dialog step consumes free text.
// Part of the router.FSM contract.
func (a *App) InProgress(userID int64) bool {
	sess, err := a.sessions.Get(context.Background(), userID)
	return err == nil && sess.Step.ExpectsText()
}

// ManagerHandler feeds a text update into the dialog. Part of the
// router.FSM contract.
func (a *App) ManagerHandler(c tele.Context) error {
	return a.onText(c)
}

func (a *App) onStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sess, err := a.session(ctx, c)
	if err != nil {
		return err
	}
	if err := a.flow.Start(ctx, sess); err != nil {
		return err
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return err
	}
	// Drop the /start command itself; the menu is the whole interface.
	if msg := c.Message(); msg != nil {
		_ = tghelpers.DeleteAsync(c, msg)
	}
	return nil
}

func (a *App) onHelp(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sess, err := a.session(ctx, c)
	if err != nil {
		return err
	}
	_, err = a.flow.HandleAction(ctx, sess, flow.Action{Unique: flow.UniqueMenuHelp}, senderUsername(c))
	if err != nil {
		return err
	}
	return a.sessions.Save(ctx, sess)
}

func (a *App) onStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	total, err := a.listings.CountAll(ctx)
	if err != nil {
		return err
	}
	return c.Send(fmt.Sprintf("📊 Listings on the board: %d", total))
}

func (a *App) onAction(c tele.Context, unique string) error {
	ctx := tghelpers.BuildContext(c)
	sess, err := a.session(ctx, c)
	if err != nil {
		return err
	}

	act := flow.Action{Unique: unique, Data: callbacks.CallbackPayload(c)}
	res, err := a.flow.HandleAction(ctx, sess, act, senderUsername(c))
	if err != nil {
		a.resetSession(ctx, sess)
		_ = c.Respond(&tele.CallbackResponse{Text: "Something went wrong, back to the menu"})
		return err
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{Text: res.Notice})
}

func (a *App) onText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sess, err := a.session(ctx, c)
	if err != nil {
		return err
	}

	_, err = a.flow.HandleText(ctx, sess, c.Text())
	if err != nil {
		a.resetSession(ctx, sess)
		return err
	}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return err
	}

	// The dialog lives in a single interface message; drop the user's
	// input to keep the chat clean.
	if msg := c.Message(); msg != nil {
		_ = tghelpers.DeleteAsync(c, msg)
	}
	return nil
}

// resetSession parks a failed dialog back at the main menu so the next
// event starts from a known state.
func (a *App) resetSession(ctx context.Context, sess *session.Session) {
	sess.ToMainMenu()
	if err := a.sessions.Save(ctx, sess); err != nil {
		logger.SVCSessions.Warn("session reset not persisted",
			slog.String("event", "session.reset"),
			slog.Int64("user", sess.UserID),
			slog.String("err", err.Error()),
		)
	}
}

// session loads the user's session, or starts a fresh one at the main menu.
func (a *App) session(ctx context.Context, c tele.Context) (*session.Session, error) {
	sender := c.Sender()
	if sender == nil {
		return nil, errors.New("update has no sender")
	}
	sess, err := a.sessions.Get(ctx, sender.ID)
	if errors.Is(err, store.ErrNotFound) {
		return session.New(sender.ID, c.Chat().ID), nil
	}
	if err != nil {
		return nil, err
	}
	if chat := c.Chat(); chat != nil {
		sess.ChatID = chat.ID
	}
	return sess, nil
}

func senderUsername(c tele.Context) string {
	if s := c.Sender(); s != nil {
		return s.Username
	}
	return ""
}
