package flow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/presenter"
	"github.com/vilarso/cropservicebot/internal/session"
	"github.com/vilarso/cropservicebot/internal/store"
)

// recordTransport captures every view the presenter delivers. Edits always
// succeed, so the interface message id stays stable once sent.
type recordTransport struct {
	nextID int
	views  []presenter.View
}

func (r *recordTransport) Send(_ context.Context, _ int64, v presenter.View) (int, error) {
	r.nextID++
	r.views = append(r.views, v)
	return r.nextID, nil
}

func (r *recordTransport) Edit(_ context.Context, _ int64, _ int, v presenter.View) (presenter.EditStatus, error) {
	r.views = append(r.views, v)
	return presenter.Edited, nil
}

func (r *recordTransport) Delete(context.Context, int64, int) error { return nil }

func (r *recordTransport) last(t *testing.T) presenter.View {
	t.Helper()
	require.NotEmpty(t, r.views)
	return r.views[len(r.views)-1]
}

func uniques(v presenter.View) []string {
	var out []string
	for _, row := range v.Keyboard {
		for _, b := range row {
			out = append(out, b.Unique)
		}
	}
	return out
}

type fixture struct {
	ctrl     *Controller
	listings *store.MemoryListings
	tr       *recordTransport
	sess     *session.Session
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		listings: store.NewMemoryListings(),
		tr:       &recordTransport{},
		now:      time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		sess:     session.New(42, 100),
	}
	f.ctrl = NewController(f.listings, store.NewMemorySequences(), presenter.New(f.tr), DefaultPageSize)
	f.ctrl.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) press(t *testing.T, unique, data string) Result {
	t.Helper()
	res, err := f.ctrl.HandleAction(context.Background(), f.sess, Action{Unique: unique, Data: data}, "tester")
	require.NoError(t, err)
	return res
}

func (f *fixture) typeText(t *testing.T, text string) Result {
	t.Helper()
	res, err := f.ctrl.HandleText(context.Background(), f.sess, text)
	require.NoError(t, err)
	return res
}

func TestCreateFlowEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Start(ctx, f.sess))
	assert.Equal(t, session.StepMainMenu, f.sess.Step)
	assert.Equal(t, 1, f.sess.LastMessageID)

	f.press(t, UniqueMenuAdd, "")
	assert.Equal(t, session.StepChooseType, f.sess.Step)

	f.press(t, UniquePickType, "request")
	assert.Equal(t, session.StepChooseCategoryCreate, f.sess.Step)
	assert.Equal(t, listing.KindJobRequest, f.sess.Draft.Kind)

	f.press(t, UniqueCreateCat, "0")
	assert.Equal(t, session.StepEnterDescription, f.sess.Step)
	assert.Equal(t, listing.Categories[0].Name, f.sess.Draft.Category)

	f.typeText(t, "  I fix leaking taps  ")
	assert.Equal(t, session.StepEnterContact, f.sess.Step)
	assert.Equal(t, "I fix leaking taps", f.sess.Draft.Description)

	// A bad contact re-prompts without advancing.
	f.typeText(t, "call me maybe")
	assert.Equal(t, session.StepEnterContact, f.sess.Step)
	assert.Contains(t, f.tr.last(t).Text, "⚠️")

	f.typeText(t, "+380991234567")
	assert.Equal(t, session.StepConfirmCreate, f.sess.Step)

	res := f.press(t, UniqueConfirm, "")
	assert.Equal(t, session.StepMyListings, f.sess.Step, "confirm lands on the owner's first page")
	assert.Equal(t, 0, f.sess.Offset)
	assert.Equal(t, "✅ Published as ad #1", res.Notice)
	assert.Contains(t, f.tr.last(t).Text, `Ad \#1`)

	l, err := f.listings.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), l.OwnerID)
	assert.Equal(t, listing.KindJobRequest, l.Kind)
	assert.Equal(t, "I fix leaking taps", l.Description)
	assert.Equal(t, "+380991234567", l.Contact)
	require.NotNil(t, l.OwnerHandle)
	assert.Equal(t, "tester", *l.OwnerHandle)
	assert.Equal(t, f.now, l.CreatedAt)

	// The whole flow rode on a single interface message.
	assert.Equal(t, 1, f.sess.LastMessageID)
}

func TestCreateFlowSkipContact(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))

	f.press(t, UniqueMenuAdd, "")
	f.press(t, UniquePickType, "offer")
	f.press(t, UniqueCreateCat, "2")
	f.typeText(t, "need a courier tomorrow")
	f.press(t, UniqueSkipContact, "")
	assert.Equal(t, session.StepConfirmCreate, f.sess.Step)
	f.press(t, UniqueConfirm, "")

	l, err := f.listings.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, l.Contact)
}

func TestConfirmWithEmptyDraftIsStale(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))

	res := f.press(t, UniqueConfirm, "")
	assert.Equal(t, noticeStaleButton, res.Notice)
	assert.Equal(t, session.StepMainMenu, f.sess.Step)
	n, err := f.listings.CountAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBackNavigation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))

	// Walk to the confirmation step, then back out one step at a time.
	f.press(t, UniqueMenuAdd, "")
	f.press(t, UniquePickType, "offer")
	f.press(t, UniqueCreateCat, "1")
	f.typeText(t, "description")
	f.typeText(t, "0991234567")
	require.Equal(t, session.StepConfirmCreate, f.sess.Step)

	back := []session.Step{
		session.StepEnterContact,
		session.StepEnterDescription,
		session.StepChooseCategoryCreate,
		session.StepChooseType,
		session.StepMainMenu,
	}
	for _, want := range back {
		f.press(t, UniqueNavBack, "")
		assert.Equal(t, want, f.sess.Step)
	}

	// Browse: back from the page returns to categories, then to the menu.
	f.press(t, UniqueMenuSearch, "")
	f.press(t, UniqueBrowseCat, "0")
	require.Equal(t, session.StepBrowseListings, f.sess.Step)
	f.press(t, UniqueNavBack, "")
	assert.Equal(t, session.StepChooseCategoryBrowse, f.sess.Step)
	f.press(t, UniqueNavBack, "")
	assert.Equal(t, session.StepMainMenu, f.sess.Step)
}

func TestBrowsePagination(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	category := listing.Categories[0].Name
	base := f.now.Add(-time.Hour)
	for i := 0; i < 12; i++ {
		require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
			ID: int64(i + 1), OwnerID: 7, Kind: listing.KindJobOffer,
			Category: category, Description: fmt.Sprintf("ad %d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	f.press(t, UniqueMenuSearch, "")
	f.press(t, UniqueBrowseCat, "0")
	v := f.tr.last(t)
	assert.Contains(t, v.Text, "page 1 of 3")
	assert.Contains(t, v.Text, "12 ads")
	assert.Equal(t, 5, strings.Count(v.Text, "Ad \\#"))
	assert.NotContains(t, uniques(v), UniqueMyPage)

	f.press(t, UniqueBrowsePage, "5")
	assert.Contains(t, f.tr.last(t).Text, "page 2 of 3")

	f.press(t, UniqueBrowsePage, "10")
	v = f.tr.last(t)
	assert.Contains(t, v.Text, "page 3 of 3")
	assert.Equal(t, 2, strings.Count(v.Text, "Ad \\#"))

	// A stale offset past the end clamps to the last page.
	f.press(t, UniqueBrowsePage, "25")
	assert.Contains(t, f.tr.last(t).Text, "page 3 of 3")
	assert.Equal(t, 10, f.sess.Offset)
}

func TestBrowseEmptyCategory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))

	f.press(t, UniqueMenuSearch, "")
	f.press(t, UniqueBrowseCat, "4")
	assert.Contains(t, f.tr.last(t).Text, "No ads here yet")
}

func TestEditWithinWindow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
		ID: 9, OwnerID: 42, Kind: listing.KindJobOffer,
		Category: listing.Categories[0].Name, Description: "old text",
		CreatedAt: f.now.Add(-5 * time.Minute),
	}))

	f.press(t, UniqueMenuMy, "")
	v := f.tr.last(t)
	assert.Contains(t, uniques(v), UniqueEdit, "edit button present inside the window")

	f.press(t, UniqueEdit, "9")
	assert.Equal(t, session.StepEditDescription, f.sess.Step)
	assert.Equal(t, int64(9), f.sess.EditListingID)

	f.typeText(t, "new text")
	assert.Equal(t, session.StepMyListings, f.sess.Step)

	l, err := f.listings.FindByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "new text", l.Description)
}

func TestEditWindowExpired(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
		ID: 9, OwnerID: 42, Kind: listing.KindJobOffer,
		Category: listing.Categories[0].Name, Description: "old text",
		CreatedAt: f.now.Add(-16 * time.Minute),
	}))

	f.press(t, UniqueMenuMy, "")
	assert.NotContains(t, uniques(f.tr.last(t)), UniqueEdit, "no edit button past the window")

	res := f.press(t, UniqueEdit, "9")
	assert.Equal(t, noticeExpired, res.Notice)
	assert.Equal(t, session.StepMyListings, f.sess.Step)
}

func TestEditWindowClosesMidEdit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
		ID: 9, OwnerID: 42, Kind: listing.KindJobOffer,
		Category: listing.Categories[0].Name, Description: "old text",
		CreatedAt: f.now.Add(-14 * time.Minute),
	}))

	f.press(t, UniqueMenuMy, "")
	f.press(t, UniqueEdit, "9")
	require.Equal(t, session.StepEditDescription, f.sess.Step)

	// The user dawdles past the window boundary.
	f.now = f.now.Add(2 * time.Minute)
	res := f.typeText(t, "too late")

	assert.Equal(t, noticeExpired, res.Notice)
	assert.Equal(t, session.StepMyListings, f.sess.Step)
	l, err := f.listings.FindByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "old text", l.Description)
}

func TestEditForeignListingDenied(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
		ID: 5, OwnerID: 999, Kind: listing.KindJobOffer,
		Category: listing.Categories[0].Name, Description: "not yours",
		CreatedAt: f.now,
	}))

	res := f.press(t, UniqueEdit, "5")
	assert.Equal(t, noticeGone, res.Notice)
	assert.NotEqual(t, session.StepEditDescription, f.sess.Step)
}

func TestDeleteStepsBackWhenPageEmpties(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	// 6 own listings: page 1 holds five, page 2 holds one.
	for i := 0; i < 6; i++ {
		require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
			ID: int64(i + 1), OwnerID: 42, Kind: listing.KindJobOffer,
			Category: listing.Categories[0].Name, Description: fmt.Sprintf("mine %d", i+1),
			CreatedAt: f.now.Add(time.Duration(i) * time.Minute),
		}))
	}

	f.press(t, UniqueMenuMy, "")
	f.press(t, UniqueMyPage, "5")
	require.Equal(t, 5, f.sess.Offset)
	// Oldest listing (id 1) is the only one on page 2.
	res := f.press(t, UniqueDelete, "1")
	assert.Equal(t, noticeDeleted, res.Notice)
	assert.Equal(t, 0, f.sess.Offset, "page steps back after the last item goes")
	assert.Contains(t, f.tr.last(t).Text, "page 1 of 1")
}

func TestDeleteForeignListing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
		ID: 5, OwnerID: 999, Kind: listing.KindJobOffer,
		Category: listing.Categories[0].Name, Description: "not yours",
		CreatedAt: f.now,
	}))

	res := f.press(t, UniqueDelete, "5")
	assert.Equal(t, noticeGone, res.Notice)
	_, err := f.listings.FindByID(context.Background(), 5)
	assert.NoError(t, err, "foreign listing survives")
}

func TestStrayTextReturnsToMenu(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))

	f.typeText(t, "hello?")
	assert.Equal(t, session.StepMainMenu, f.sess.Step)
	assert.Contains(t, f.tr.last(t).Text, "Job board")
}

func TestUnknownActionIsStale(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))

	res := f.press(t, "bogus", "")
	assert.Equal(t, noticeStaleButton, res.Notice)
}

// Page buttons never carry negative offsets, so one arriving means
// forged callback data. It must not reach the store.
func TestNegativeOffsetIsStale(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Start(context.Background(), f.sess))
	require.NoError(t, f.listings.Insert(context.Background(), &listing.Listing{
		ID: 1, OwnerID: 42, Kind: listing.KindJobOffer,
		Category: listing.Categories[0].Name, Description: "mine",
		CreatedAt: f.now,
	}))

	f.press(t, UniqueMenuMy, "")
	res := f.press(t, UniqueMyPage, "-3")
	assert.Equal(t, noticeStaleButton, res.Notice)
	assert.Equal(t, 0, f.sess.Offset)

	f.press(t, UniqueMenuSearch, "")
	f.press(t, UniqueBrowseCat, "0")
	res = f.press(t, UniqueBrowsePage, "-5")
	assert.Equal(t, noticeStaleButton, res.Notice)
	assert.Equal(t, 0, f.sess.Offset)
}
