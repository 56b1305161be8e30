// Package session holds the durable per-user conversation state.
//
// A session records which step of the dialog the user is at, the draft
// accumulated during ad creation, the active browse filter and page offset,
// and the id of the single interface message the bot maintains in the chat.
// Sessions are persisted, so a restart resumes the dialog at the last
// committed step.
package session

import "github.com/vilarso/cropservicebot/internal/listing"

// Step identifies a state of the conversational flow.
type Step string

const (
	StepMainMenu             Step = "main_menu"
	StepChooseType           Step = "choose_type"
	StepChooseCategoryCreate Step = "choose_category_create"
	StepEnterDescription     Step = "enter_description"
	StepEnterContact         Step = "enter_contact"
	StepConfirmCreate        Step = "confirm_create"
	StepChooseCategoryBrowse Step = "choose_category_browse"
	StepBrowseListings       Step = "browse_listings"
	StepMyListings           Step = "my_listings"
	StepEditDescription      Step = "edit_description"
)

// ExpectsText reports whether the step consumes free-text input.
func (s Step) ExpectsText() bool {
	switch s {
	case StepEnterDescription, StepEnterContact, StepEditDescription:
		return true
	}
	return false
}

// Draft collects the fields gathered while creating a listing.
type Draft struct {
	Kind        listing.Kind
	Category    string
	Description string
	Contact     string
}

// Session is the per-user conversation state. Only the transition helpers
// below mutate the step-scoped fields, which keeps field combinations valid
// for the current step by construction.
type Session struct {
	UserID int64
	ChatID int64
	Step   Step

	Draft          Draft
	BrowseCategory string
	Offset         int
	EditListingID  int64

	// LastMessageID is the interface message reconciled in place by the
	// presenter; zero means none has been sent yet.
	LastMessageID int
}

// New returns a fresh session at the main menu.
func New(userID, chatID int64) *Session {
	return &Session{UserID: userID, ChatID: chatID, Step: StepMainMenu}
}

// ToMainMenu returns to the main menu and discards all step-scoped state.
func (s *Session) ToMainMenu() {
	s.Step = StepMainMenu
	s.Draft = Draft{}
	s.BrowseCategory = ""
	s.Offset = 0
	s.EditListingID = 0
}

// StartCreation enters the ad creation flow with an empty draft.
func (s *Session) StartCreation() {
	s.Draft = Draft{}
	s.Step = StepChooseType
}

// SetDraftKind stores the chosen listing type and advances to category choice.
func (s *Session) SetDraftKind(k listing.Kind) {
	s.Draft.Kind = k
	s.Step = StepChooseCategoryCreate
}

// SetDraftCategory stores the chosen category and advances to the description prompt.
func (s *Session) SetDraftCategory(category string) {
	s.Draft.Category = category
	s.Step = StepEnterDescription
}

// SetDraftDescription stores the validated description and advances to the contact prompt.
func (s *Session) SetDraftDescription(text string) {
	s.Draft.Description = text
	s.Step = StepEnterContact
}

// SetDraftContact stores the validated (possibly empty) contact and advances to confirmation.
func (s *Session) SetDraftContact(contact string) {
	s.Draft.Contact = contact
	s.Step = StepConfirmCreate
}

// StartBrowse enters the category picker of the browse flow.
func (s *Session) StartBrowse() {
	s.BrowseCategory = ""
	s.Offset = 0
	s.Step = StepChooseCategoryBrowse
}

// SetBrowseCategory stores the browse filter and opens the first page.
func (s *Session) SetBrowseCategory(category string) {
	s.BrowseCategory = category
	s.Offset = 0
	s.Step = StepBrowseListings
}

// ToMyListings opens the user's own listings at the given offset.
func (s *Session) ToMyListings(offset int) {
	s.Offset = offset
	s.EditListingID = 0
	s.Step = StepMyListings
}

// StartEdit enters the description edit prompt for the given listing,
// keeping the current my-listings offset for the way back.
func (s *Session) StartEdit(listingID int64) {
	s.EditListingID = listingID
	s.Step = StepEditDescription
}
