package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"

	"github.com/vilarso/cropservicebot/internal/presenter"
)

func TestClassifyEdit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want presenter.EditStatus
	}{
		{"nil is edited", nil, presenter.Edited},
		{
			"same content is unchanged",
			&tele.Error{Code: 400, Description: "Bad Request: message is not modified"},
			presenter.Unchanged,
		},
		{
			"deleted message is missing",
			&tele.Error{Code: 400, Description: "Bad Request: message to edit not found"},
			presenter.Missing,
		},
		{
			"uneditable message is missing",
			&tele.Error{Code: 400, Description: "Bad Request: message can't be edited"},
			presenter.Missing,
		},
		{"anything else is failed", errors.New("connection reset"), presenter.Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyEdit(tt.err))
		})
	}
}

func TestDeleteIgnoresMissing(t *testing.T) {
	assert.True(t, isMissing(&tele.Error{Code: 400, Description: "Bad Request: message to delete not found"}))
	assert.False(t, isMissing(errors.New("connection reset")))
	assert.False(t, isMissing(nil))
}
