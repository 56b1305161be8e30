package presenter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilarso/cropservicebot/internal/session"
)

type fakeTransport struct {
	nextID   int
	editStat EditStatus
	editErr  error
	sendErr  error

	sent    []View
	edited  []View
	deleted []int
}

func (f *fakeTransport) Send(_ context.Context, _ int64, v View) (int, error) {
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, v)
	return f.nextID, nil
}

func (f *fakeTransport) Edit(_ context.Context, _ int64, _ int, v View) (EditStatus, error) {
	f.edited = append(f.edited, v)
	return f.editStat, f.editErr
}

func (f *fakeTransport) Delete(_ context.Context, _ int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func TestShowSendsWhenNoMessage(t *testing.T) {
	tr := &fakeTransport{}
	p := New(tr)
	sess := session.New(1, 10)

	require.NoError(t, p.Show(context.Background(), sess, View{Text: "menu"}))
	assert.Equal(t, 1, sess.LastMessageID)
	assert.Len(t, tr.sent, 1)
	assert.Empty(t, tr.edited)
}

func TestShowEditsExistingMessage(t *testing.T) {
	tr := &fakeTransport{editStat: Edited}
	p := New(tr)
	sess := session.New(1, 10)
	sess.LastMessageID = 5

	require.NoError(t, p.Show(context.Background(), sess, View{Text: "next"}))
	assert.Equal(t, 5, sess.LastMessageID)
	assert.Len(t, tr.edited, 1)
	assert.Empty(t, tr.sent)
}

func TestShowTreatsUnchangedAsSuccess(t *testing.T) {
	tr := &fakeTransport{editStat: Unchanged, editErr: errors.New("message is not modified")}
	p := New(tr)
	sess := session.New(1, 10)
	sess.LastMessageID = 5

	require.NoError(t, p.Show(context.Background(), sess, View{Text: "same"}))
	assert.Empty(t, tr.sent)
}

func TestShowResendsWhenMessageGone(t *testing.T) {
	tr := &fakeTransport{editStat: Missing, editErr: errors.New("message to edit not found")}
	p := New(tr)
	sess := session.New(1, 10)
	sess.LastMessageID = 5

	require.NoError(t, p.Show(context.Background(), sess, View{Text: "menu"}))
	assert.Equal(t, 1, sess.LastMessageID, "new message id replaces the stale one")
	assert.Len(t, tr.sent, 1)
}

func TestShowResendsOnEditFailure(t *testing.T) {
	tr := &fakeTransport{editStat: Failed, editErr: errors.New("boom")}
	p := New(tr)
	sess := session.New(1, 10)
	sess.LastMessageID = 5

	require.NoError(t, p.Show(context.Background(), sess, View{Text: "menu"}))
	assert.Equal(t, 1, sess.LastMessageID, "fallback message replaces the uneditable one")
	assert.Len(t, tr.sent, 1)
}

func TestShowPropagatesSendFailure(t *testing.T) {
	wantErr := errors.New("boom")
	tr := &fakeTransport{editStat: Failed, editErr: errors.New("edit refused"), sendErr: wantErr}
	p := New(tr)
	sess := session.New(1, 10)
	sess.LastMessageID = 5

	err := p.Show(context.Background(), sess, View{Text: "menu"})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 5, sess.LastMessageID, "stale id kept when nothing was delivered")
}

func TestRefreshDeletesThenSends(t *testing.T) {
	tr := &fakeTransport{}
	p := New(tr)
	sess := session.New(1, 10)
	sess.LastMessageID = 5

	require.NoError(t, p.Refresh(context.Background(), sess, View{Text: "menu"}))
	assert.Equal(t, []int{5}, tr.deleted)
	assert.Len(t, tr.sent, 1)
	assert.Equal(t, 1, sess.LastMessageID)
}
