package listing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLen bounds the description length in runes.
const MaxDescriptionLen = 300

// Accepted contact formats: a 10-digit local number starting with 0,
// an international number starting with +380, or an @handle of 5-32
// word characters. The whole input must match.
var contactPattern = regexp.MustCompile(`^(?:0\d{9}|\+380\d{9}|@[a-zA-Z0-9_]{5,32})$`)

var (
	// ErrDescriptionEmpty rejects descriptions that are empty after trimming.
	ErrDescriptionEmpty = errors.New("description is empty")
	// ErrContactFormat rejects contact strings matching none of the accepted formats.
	ErrContactFormat = errors.New("contact format not recognized")
)

// TooLongError reports an over-length description together with its actual size.
type TooLongError struct {
	Length int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("description too long: %d/%d", e.Length, MaxDescriptionLen)
}

// ValidateDescription trims the input and checks the 1..300 length bound.
// It returns the normalized text on success.
func ValidateDescription(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrDescriptionEmpty
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxDescriptionLen {
		return "", &TooLongError{Length: n}
	}
	return trimmed, nil
}

// ValidateContact checks the contact string. Empty means "not provided" and
// is accepted; anything else must fully match one of the accepted formats.
func ValidateContact(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}
	if !contactPattern.MatchString(trimmed) {
		return "", ErrContactFormat
	}
	return trimmed, nil
}
