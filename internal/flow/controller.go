package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/vilarso/cropservicebot/core/logger"
	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/presenter"
	"github.com/vilarso/cropservicebot/internal/session"
	"github.com/vilarso/cropservicebot/internal/store"
)

// DefaultPageSize is how many listings a page shows.
const DefaultPageSize = 5

const (
	noticeGone        = "That ad is gone"
	noticeExpired     = "⏳ The 15-minute edit window has closed"
	noticeDeleted     = "🗑 Ad deleted"
	noticeStaleButton = "That button has expired, use the menu"
)

// Controller applies dialog events to a session. It owns no transport and
// no session persistence; callers load the session, invoke one handler,
// and save the session afterwards.
type Controller struct {
	listings store.ListingStore
	seq      store.SequenceStore
	present  *presenter.Presenter
	pageSize int
	now      func() time.Time
}

// NewController wires the stores and presenter together.
func NewController(listings store.ListingStore, seq store.SequenceStore, p *presenter.Presenter, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		listings: listings,
		seq:      seq,
		present:  p,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Start resets the dialog and replaces the interface message with a fresh
// main menu, so /start always lands at the bottom of the chat.
func (c *Controller) Start(ctx context.Context, sess *session.Session) error {
	sess.ToMainMenu()
	return c.present.Refresh(ctx, sess, screenMainMenu())
}

// HandleAction processes one button press. username is the sender's
// Telegram handle, recorded as the fallback contact on publish.
func (c *Controller) HandleAction(ctx context.Context, sess *session.Session, act Action, username string) (Result, error) {
	switch act.Unique {
	case UniqueNavMain:
		sess.ToMainMenu()
		return c.show(ctx, sess, screenMainMenu())

	case UniqueNavBack:
		return c.goBack(ctx, sess)

	case UniqueMenuHelp:
		sess.ToMainMenu()
		return c.show(ctx, sess, screenHelp())

	case UniqueMenuAdd:
		sess.StartCreation()
		return c.show(ctx, sess, screenChooseType())

	case UniquePickType:
		kind, ok := kindFromData(act.Data)
		if !ok {
			return Result{Notice: noticeStaleButton}, nil
		}
		sess.SetDraftKind(kind)
		return c.show(ctx, sess, screenChooseCategory(UniqueCreateCat))

	case UniqueCreateCat:
		category, ok := categoryFromData(act.Data)
		if !ok {
			return Result{Notice: noticeStaleButton}, nil
		}
		sess.SetDraftCategory(category)
		return c.show(ctx, sess, screenAskDescription(sess.Draft, ""))

	case UniqueSkipContact:
		sess.SetDraftContact("")
		return c.show(ctx, sess, screenConfirm(sess.Draft))

	case UniqueConfirm:
		return c.confirmCreate(ctx, sess, username)

	case UniqueMenuSearch:
		sess.StartBrowse()
		return c.show(ctx, sess, screenChooseCategory(UniqueBrowseCat))

	case UniqueBrowseCat:
		category, ok := categoryFromData(act.Data)
		if !ok {
			return Result{Notice: noticeStaleButton}, nil
		}
		sess.SetBrowseCategory(category)
		return c.showBrowse(ctx, sess)

	case UniqueBrowsePage:
		offset, err := strconv.Atoi(act.Data)
		if err != nil || offset < 0 || sess.Step != session.StepBrowseListings {
			return Result{Notice: noticeStaleButton}, nil
		}
		sess.Offset = offset
		return c.showBrowse(ctx, sess)

	case UniqueMenuMy:
		sess.ToMyListings(0)
		return c.showMyListings(ctx, sess, Result{})

	case UniqueMyPage:
		offset, err := strconv.Atoi(act.Data)
		if err != nil || offset < 0 {
			return Result{Notice: noticeStaleButton}, nil
		}
		sess.ToMyListings(offset)
		return c.showMyListings(ctx, sess, Result{})

	case UniqueEdit:
		return c.startEdit(ctx, sess, act.Data)

	case UniqueDelete:
		return c.deleteListing(ctx, sess, act.Data)
	}

	return Result{Notice: noticeStaleButton}, nil
}

// HandleText processes free text for the steps that expect it. Text sent
// at any other step re-renders the main menu as a nudge toward the buttons.
func (c *Controller) HandleText(ctx context.Context, sess *session.Session, text string) (Result, error) {
	switch sess.Step {
	case session.StepEnterDescription:
		normalized, err := listing.ValidateDescription(text)
		if err != nil {
			return c.show(ctx, sess, screenAskDescription(sess.Draft, describeInputError(err)))
		}
		sess.SetDraftDescription(normalized)
		return c.show(ctx, sess, screenAskContact(""))

	case session.StepEnterContact:
		contact, err := listing.ValidateContact(text)
		if err != nil {
			return c.show(ctx, sess, screenAskContact(describeInputError(err)))
		}
		sess.SetDraftContact(contact)
		return c.show(ctx, sess, screenConfirm(sess.Draft))

	case session.StepEditDescription:
		return c.applyEdit(ctx, sess, text)
	}

	sess.ToMainMenu()
	return c.show(ctx, sess, screenMainMenu())
}

func (c *Controller) show(ctx context.Context, sess *session.Session, v presenter.View) (Result, error) {
	return Result{}, c.present.Show(ctx, sess, v)
}

// goBack maps each step to its predecessor in the dialog.
func (c *Controller) goBack(ctx context.Context, sess *session.Session) (Result, error) {
	switch sess.Step {
	case session.StepChooseCategoryCreate:
		sess.Step = session.StepChooseType
		return c.show(ctx, sess, screenChooseType())
	case session.StepEnterDescription:
		sess.Step = session.StepChooseCategoryCreate
		return c.show(ctx, sess, screenChooseCategory(UniqueCreateCat))
	case session.StepEnterContact:
		sess.Step = session.StepEnterDescription
		return c.show(ctx, sess, screenAskDescription(sess.Draft, ""))
	case session.StepConfirmCreate:
		sess.Step = session.StepEnterContact
		return c.show(ctx, sess, screenAskContact(""))
	case session.StepBrowseListings:
		sess.StartBrowse()
		return c.show(ctx, sess, screenChooseCategory(UniqueBrowseCat))
	case session.StepEditDescription:
		sess.ToMyListings(sess.Offset)
		return c.showMyListings(ctx, sess, Result{})
	}
	// choose_type, choose_category_browse, my_listings and anything
	// unexpected all fall back to the main menu.
	sess.ToMainMenu()
	return c.show(ctx, sess, screenMainMenu())
}

func (c *Controller) confirmCreate(ctx context.Context, sess *session.Session, username string) (Result, error) {
	d := sess.Draft
	if !d.Kind.Valid() || !listing.ValidCategory(d.Category) || d.Description == "" {
		// Draft lost (restart mid-flow) or a stale confirm button.
		sess.ToMainMenu()
		if _, err := c.show(ctx, sess, screenMainMenu()); err != nil {
			return Result{}, err
		}
		return Result{Notice: noticeStaleButton}, nil
	}
	contact, err := listing.ValidateContact(d.Contact)
	if err != nil {
		sess.Step = session.StepEnterContact
		return c.show(ctx, sess, screenAskContact(describeInputError(err)))
	}

	id, err := c.seq.Next(ctx, store.SeqListings)
	if err != nil {
		return Result{}, err
	}
	l := &listing.Listing{
		ID:          id,
		OwnerID:     sess.UserID,
		Kind:        d.Kind,
		Category:    d.Category,
		Description: d.Description,
		Contact:     contact,
		CreatedAt:   c.now().UTC(),
	}
	if username != "" {
		l.OwnerHandle = &username
	}
	if err := c.listings.Insert(ctx, l); err != nil {
		return Result{}, err
	}

	logger.SVCListings.Info("listing published",
		slog.String("event", "listing.create"),
		slog.Int64("listing_id", l.ID),
		slog.String("kind", string(l.Kind)),
		slog.String("category", l.Category),
		slog.Int64("user", sess.UserID),
	)

	// The fresh ad lands on top of the owner's first page.
	sess.ToMyListings(0)
	return c.showMyListings(ctx, sess, Result{Notice: fmt.Sprintf("✅ Published as ad #%d", l.ID)})
}

func (c *Controller) showBrowse(ctx context.Context, sess *session.Session) (Result, error) {
	items, total, err := c.listings.FindByCategory(ctx, sess.BrowseCategory, sess.Offset, c.pageSize)
	if err != nil {
		return Result{}, err
	}
	if clamped := clampOffset(sess.Offset, c.pageSize, total); clamped != sess.Offset {
		sess.Offset = clamped
		items, total, err = c.listings.FindByCategory(ctx, sess.BrowseCategory, sess.Offset, c.pageSize)
		if err != nil {
			return Result{}, err
		}
	}
	return c.show(ctx, sess, screenBrowse(sess.BrowseCategory, items, Page{Offset: sess.Offset, Size: c.pageSize, Total: total}))
}

func (c *Controller) showMyListings(ctx context.Context, sess *session.Session, res Result) (Result, error) {
	items, total, err := c.listings.FindByOwner(ctx, sess.UserID, sess.Offset, c.pageSize)
	if err != nil {
		return Result{}, err
	}
	if clamped := clampOffset(sess.Offset, c.pageSize, total); clamped != sess.Offset {
		sess.Offset = clamped
		items, total, err = c.listings.FindByOwner(ctx, sess.UserID, sess.Offset, c.pageSize)
		if err != nil {
			return Result{}, err
		}
	}
	v := screenMyListings(items, Page{Offset: sess.Offset, Size: c.pageSize, Total: total}, c.now())
	if err := c.present.Show(ctx, sess, v); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (c *Controller) startEdit(ctx context.Context, sess *session.Session, data string) (Result, error) {
	id, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return Result{Notice: noticeStaleButton}, nil
	}
	l, err := c.listings.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.showMyListings(ctx, sess, Result{Notice: noticeGone})
	}
	if err != nil {
		return Result{}, err
	}
	if l.OwnerID != sess.UserID {
		// Only own ads are rendered with edit buttons, so this is a
		// crafted callback. Answer as if the ad does not exist.
		return Result{Notice: noticeGone}, nil
	}
	if !l.CanEdit(c.now()) {
		return c.showMyListings(ctx, sess, Result{Notice: noticeExpired})
	}
	sess.StartEdit(l.ID)
	return c.show(ctx, sess, screenEditPrompt(l, ""))
}

func (c *Controller) applyEdit(ctx context.Context, sess *session.Session, text string) (Result, error) {
	l, err := c.listings.FindByID(ctx, sess.EditListingID)
	if errors.Is(err, store.ErrNotFound) {
		sess.ToMyListings(sess.Offset)
		return c.showMyListings(ctx, sess, Result{Notice: noticeGone})
	}
	if err != nil {
		return Result{}, err
	}
	if l.OwnerID != sess.UserID || !l.CanEdit(c.now()) {
		sess.ToMyListings(sess.Offset)
		return c.showMyListings(ctx, sess, Result{Notice: noticeExpired})
	}

	normalized, err := listing.ValidateDescription(text)
	if err != nil {
		return c.show(ctx, sess, screenEditPrompt(l, describeInputError(err)))
	}

	updated, err := c.listings.UpdateDescription(ctx, l.ID, sess.UserID, normalized)
	if err != nil {
		return Result{}, err
	}
	if updated {
		logger.SVCListings.Info("listing edited",
			slog.String("event", "listing.edit"),
			slog.Int64("listing_id", l.ID),
			slog.Int64("user", sess.UserID),
		)
	}

	sess.ToMyListings(sess.Offset)
	return c.showMyListings(ctx, sess, Result{})
}

func (c *Controller) deleteListing(ctx context.Context, sess *session.Session, data string) (Result, error) {
	id, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return Result{Notice: noticeStaleButton}, nil
	}
	deleted, err := c.listings.DeleteOne(ctx, id, sess.UserID)
	if err != nil {
		return Result{}, err
	}
	res := Result{Notice: noticeDeleted}
	if !deleted {
		res.Notice = noticeGone
	} else {
		logger.SVCListings.Info("listing deleted",
			slog.String("event", "listing.delete"),
			slog.Int64("listing_id", id),
			slog.Int64("user", sess.UserID),
		)
	}
	sess.ToMyListings(sess.Offset)
	return c.showMyListings(ctx, sess, res)
}

func kindFromData(data string) (listing.Kind, bool) {
	switch data {
	case "offer":
		return listing.KindJobOffer, true
	case "request":
		return listing.KindJobRequest, true
	}
	return "", false
}

func categoryFromData(data string) (string, bool) {
	i, err := strconv.Atoi(data)
	if err != nil {
		return "", false
	}
	return listing.CategoryByIndex(i)
}

// describeInputError turns a validation error into the line shown above
// the re-rendered prompt.
func describeInputError(err error) string {
	var tooLong *listing.TooLongError
	switch {
	case errors.Is(err, listing.ErrDescriptionEmpty):
		return "The description cannot be empty"
	case errors.As(err, &tooLong):
		return "That is " + strconv.Itoa(tooLong.Length) + " characters, the limit is " + strconv.Itoa(listing.MaxDescriptionLen)
	case errors.Is(err, listing.ErrContactFormat):
		return "Use a phone number like 0991234567 or +380991234567, or an @handle"
	}
	return "That input did not work, try again"
}
