package app

import (
	"context"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/vilarso/cropservicebot/core/telegram/keyboard"
	"github.com/vilarso/cropservicebot/internal/presenter"
)

// botAPI is the slice of *tele.Bot the transport needs.
type botAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Transport delivers presenter views over the Telegram bot API.
// The bot handle is injected on startup, before any update is handled.
type Transport struct {
	bot botAPI
}

// SetBot installs the bot handle. Must be called before the poller starts.
func (t *Transport) SetBot(b botAPI) { t.bot = b }

func markupFor(v presenter.View) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, len(v.Keyboard))
	for i, row := range v.Keyboard {
		r := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			r[j] = keyboard.InlineBtn{Text: b.Text, Unique: b.Unique, Data: b.Data}
		}
		rows[i] = r
	}
	return keyboard.InlineButtonsRows(rows...)
}

func stored(chatID int64, messageID int) *tele.StoredMessage {
	return &tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}
}

func (t *Transport) Send(_ context.Context, chatID int64, v presenter.View) (int, error) {
	m, err := t.bot.Send(tele.ChatID(chatID), v.Text, markupFor(v), tele.ModeMarkdownV2)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (t *Transport) Edit(_ context.Context, chatID int64, messageID int, v presenter.View) (presenter.EditStatus, error) {
	_, err := t.bot.Edit(stored(chatID, messageID), v.Text, markupFor(v), tele.ModeMarkdownV2)
	return classifyEdit(err), err
}

func (t *Transport) Delete(_ context.Context, chatID int64, messageID int) error {
	err := t.bot.Delete(stored(chatID, messageID))
	if err != nil && isMissing(err) {
		return nil
	}
	return err
}

func classifyEdit(err error) presenter.EditStatus {
	if err == nil {
		return presenter.Edited
	}
	desc := errDescription(err)
	switch {
	case strings.Contains(desc, "message is not modified"):
		return presenter.Unchanged
	case isMissingDesc(desc):
		return presenter.Missing
	}
	return presenter.Failed
}

func isMissing(err error) bool {
	return err != nil && isMissingDesc(errDescription(err))
}

func isMissingDesc(desc string) bool {
	return strings.Contains(desc, "message to edit not found") ||
		strings.Contains(desc, "message to delete not found") ||
		strings.Contains(desc, "message can't be edited") ||
		strings.Contains(desc, "message_id_invalid")
}

func errDescription(err error) string {
	if apiErr, ok := err.(*tele.Error); ok {
		return strings.ToLower(apiErr.Description)
	}
	return strings.ToLower(err.Error())
}
