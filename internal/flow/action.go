// Package flow drives the conversational state machine of the board.
//
// Every inbound event is either an Action (an inline button press, routed
// by its callback unique) or free text consumed by the current step. The
// Controller applies the event to the session, talks to the stores, and
// hands the resulting screen to the presenter.
package flow

// Callback uniques. These are the routing keys baked into inline buttons;
// changing one invalidates buttons in already-rendered messages.
const (
	UniqueMenuAdd    = "menu_add"
	UniqueMenuSearch = "menu_search"
	UniqueMenuMy     = "menu_my"
	UniqueMenuHelp   = "menu_help"

	UniqueNavBack = "nav_back"
	UniqueNavMain = "nav_main"

	// UniquePickType carries "offer" or "request".
	UniquePickType = "pick_type"
	// UniqueCreateCat and UniqueBrowseCat carry a category index.
	UniqueCreateCat = "create_cat"
	UniqueBrowseCat = "browse_cat"

	UniqueSkipContact = "skip_contact"
	UniqueConfirm     = "confirm_create"

	// Page uniques carry the target offset.
	UniqueBrowsePage = "browse_page"
	UniqueMyPage     = "my_page"

	// Edit and delete carry the listing id.
	UniqueEdit   = "edit"
	UniqueDelete = "delete"
)

// Action is one decoded button press.
type Action struct {
	Unique string
	Data   string
}

// Result is what the transport layer needs after an event is handled.
// Notice, when set, is flashed to the user as a callback answer.
type Result struct {
	Notice string
}
