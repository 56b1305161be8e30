package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDescription(t *testing.T) {
	t.Run("trims surrounding whitespace", func(t *testing.T) {
		got, err := ValidateDescription("  looking for a welder  ")
		require.NoError(t, err)
		assert.Equal(t, "looking for a welder", got)
	})

	t.Run("rejects empty and whitespace-only input", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\n\t"} {
			_, err := ValidateDescription(in)
			assert.ErrorIs(t, err, ErrDescriptionEmpty, "input %q", in)
		}
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		// 300 two-byte runes: valid despite 600 bytes.
		got, err := ValidateDescription(strings.Repeat("ф", MaxDescriptionLen))
		require.NoError(t, err)
		assert.Equal(t, MaxDescriptionLen, len([]rune(got)))
	})

	t.Run("rejects over the limit with length in error", func(t *testing.T) {
		_, err := ValidateDescription(strings.Repeat("a", MaxDescriptionLen+1))
		var tooLong *TooLongError
		require.ErrorAs(t, err, &tooLong)
		assert.Equal(t, MaxDescriptionLen+1, tooLong.Length)
	})
}

func TestValidateContact(t *testing.T) {
	valid := []string{
		"0991234567",
		"+380991234567",
		"@abc12",
		"@long_handle_with_underscores",
	}
	for _, in := range valid {
		got, err := ValidateContact(in)
		assert.NoError(t, err, "input %q", in)
		assert.Equal(t, in, got)
	}

	invalid := []string{
		"123",
		"0991234567890", // too many digits
		"380991234567",  // missing plus
		"+3809912345",   // too few digits
		"@abcd",         // handle shorter than 5
		"@" + strings.Repeat("a", 33),
		"@имя_юзера", // non-latin handle
		"call me",
	}
	for _, in := range invalid {
		_, err := ValidateContact(in)
		assert.ErrorIs(t, err, ErrContactFormat, "input %q", in)
	}
}

func TestValidateContactEmptyMeansSkip(t *testing.T) {
	got, err := ValidateContact("   ")
	assert.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestKind(t *testing.T) {
	assert.True(t, KindJobOffer.Valid())
	assert.True(t, KindJobRequest.Valid())
	assert.False(t, Kind("vacancy").Valid())
	assert.NotEmpty(t, KindJobOffer.Emoji())
	assert.NotEqual(t, KindJobOffer.Label(), KindJobRequest.Label())
}

func TestCategories(t *testing.T) {
	require.NotEmpty(t, Categories)
	for i, c := range Categories {
		got, ok := CategoryByIndex(i)
		require.True(t, ok)
		assert.Equal(t, c.Name, got)
		assert.True(t, ValidCategory(c.Name))
	}
	_, ok := CategoryByIndex(len(Categories))
	assert.False(t, ok)
	assert.False(t, ValidCategory("nope"))
}
