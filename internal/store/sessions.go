package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/session"
)

// Sessions is the Postgres-backed SessionStore. The session is flattened
// into one row per user and upserted wholesale on every save.
type Sessions struct {
	db *sqlx.DB
}

// NewSessions wraps an open database handle.
func NewSessions(db *sqlx.DB) *Sessions {
	return &Sessions{db: db}
}

type sessionRow struct {
	UserID           int64     `db:"user_id"`
	ChatID           int64     `db:"chat_id"`
	Step             string    `db:"step"`
	DraftKind        string    `db:"draft_kind"`
	DraftCategory    string    `db:"draft_category"`
	DraftDescription string    `db:"draft_description"`
	DraftContact     string    `db:"draft_contact"`
	BrowseCategory   string    `db:"browse_category"`
	PageOffset       int       `db:"page_offset"`
	EditListingID    int64     `db:"edit_listing_id"`
	LastMessageID    int       `db:"last_message_id"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r sessionRow) toSession() *session.Session {
	return &session.Session{
		UserID: r.UserID,
		ChatID: r.ChatID,
		Step:   session.Step(r.Step),
		Draft: session.Draft{
			Kind:        listing.Kind(r.DraftKind),
			Category:    r.DraftCategory,
			Description: r.DraftDescription,
			Contact:     r.DraftContact,
		},
		BrowseCategory: r.BrowseCategory,
		Offset:         r.PageOffset,
		EditListingID:  r.EditListingID,
		LastMessageID:  r.LastMessageID,
	}
}

func toRow(s *session.Session) sessionRow {
	return sessionRow{
		UserID:           s.UserID,
		ChatID:           s.ChatID,
		Step:             string(s.Step),
		DraftKind:        string(s.Draft.Kind),
		DraftCategory:    s.Draft.Category,
		DraftDescription: s.Draft.Description,
		DraftContact:     s.Draft.Contact,
		BrowseCategory:   s.BrowseCategory,
		PageOffset:       s.Offset,
		EditListingID:    s.EditListingID,
		LastMessageID:    s.LastMessageID,
		UpdatedAt:        time.Now().UTC(),
	}
}

func (s *Sessions) Get(ctx context.Context, userID int64) (*session.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM sessions WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", userID, err)
	}
	return row.toSession(), nil
}

func (s *Sessions) Save(ctx context.Context, sess *session.Session) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sessions
			(user_id, chat_id, step, draft_kind, draft_category, draft_description,
			 draft_contact, browse_category, page_offset, edit_listing_id,
			 last_message_id, updated_at)
		VALUES
			(:user_id, :chat_id, :step, :draft_kind, :draft_category, :draft_description,
			 :draft_contact, :browse_category, :page_offset, :edit_listing_id,
			 :last_message_id, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			step = EXCLUDED.step,
			draft_kind = EXCLUDED.draft_kind,
			draft_category = EXCLUDED.draft_category,
			draft_description = EXCLUDED.draft_description,
			draft_contact = EXCLUDED.draft_contact,
			browse_category = EXCLUDED.browse_category,
			page_offset = EXCLUDED.page_offset,
			edit_listing_id = EXCLUDED.edit_listing_id,
			last_message_id = EXCLUDED.last_message_id,
			updated_at = EXCLUDED.updated_at
	`, toRow(sess))
	if err != nil {
		return fmt.Errorf("save session %d: %w", sess.UserID, err)
	}
	return nil
}

func (s *Sessions) Delete(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete session %d: %w", userID, err)
	}
	return nil
}
