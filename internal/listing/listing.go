// Package listing defines the classified ad domain model and its validation rules.
package listing

import "time"

// Kind distinguishes the two classified ad types.
type Kind string

const (
	// KindJobOffer advertises work that needs doing.
	KindJobOffer Kind = "job_offer"
	// KindJobRequest advertises a service someone provides.
	KindJobRequest Kind = "job_request"
)

// Valid reports whether the kind is one of the two supported values.
func (k Kind) Valid() bool {
	return k == KindJobOffer || k == KindJobRequest
}

// Emoji returns the marker shown next to the kind in rendered listings.
func (k Kind) Emoji() string {
	switch k {
	case KindJobOffer:
		return "💼"
	case KindJobRequest:
		return "🤝"
	}
	return ""
}

// Label returns the human-readable kind name.
func (k Kind) Label() string {
	switch k {
	case KindJobOffer:
		return "Job offer"
	case KindJobRequest:
		return "Job request"
	}
	return string(k)
}

const (
	// EditWindow is how long after creation the owner may amend the description.
	EditWindow = 15 * time.Minute
	// RetentionAge is the age past which the sweep removes a listing.
	RetentionAge = 7 * 24 * time.Hour
)

// Listing is a single classified ad.
type Listing struct {
	ID          int64     `db:"id"`
	OwnerID     int64     `db:"owner_id"`
	OwnerHandle *string   `db:"owner_handle"`
	Kind        Kind      `db:"kind"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	Contact     string    `db:"contact"`
	CreatedAt   time.Time `db:"created_at"`
}

// CanEdit reports whether the edit window is still open at the given moment.
func (l *Listing) CanEdit(now time.Time) bool {
	return now.Sub(l.CreatedAt) < EditWindow
}
