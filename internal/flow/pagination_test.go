package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindows(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		number   int
		count    int
		hasPrev  bool
		hasNext  bool
		nextOffs int
	}{
		{"first of three", Page{Offset: 0, Size: 5, Total: 12}, 1, 3, false, true, 5},
		{"middle", Page{Offset: 5, Size: 5, Total: 12}, 2, 3, true, true, 10},
		{"short last page", Page{Offset: 10, Size: 5, Total: 12}, 3, 3, true, false, 15},
		{"exact fit", Page{Offset: 5, Size: 5, Total: 10}, 2, 2, true, false, 10},
		{"single page", Page{Offset: 0, Size: 5, Total: 3}, 1, 1, false, false, 5},
		{"empty", Page{Offset: 0, Size: 5, Total: 0}, 1, 1, false, false, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.number, tt.page.Number())
			assert.Equal(t, tt.count, tt.page.Count())
			assert.Equal(t, tt.hasPrev, tt.page.HasPrev())
			assert.Equal(t, tt.hasNext, tt.page.HasNext())
			assert.Equal(t, tt.nextOffs, tt.page.NextOffset())
		})
	}
}

func TestPagePrevOffsetNeverNegative(t *testing.T) {
	assert.Equal(t, 0, Page{Offset: 3, Size: 5, Total: 12}.PrevOffset())
	assert.Equal(t, 5, Page{Offset: 10, Size: 5, Total: 12}.PrevOffset())
}

func TestClampOffset(t *testing.T) {
	// 11 items, size 5: pages start at 0, 5, 10.
	assert.Equal(t, 10, clampOffset(15, 5, 11))
	assert.Equal(t, 10, clampOffset(10, 5, 11))
	assert.Equal(t, 5, clampOffset(5, 5, 11))
	assert.Equal(t, 5, clampOffset(10, 5, 10), "offset past the shrunken set steps back a page")
	assert.Equal(t, 0, clampOffset(5, 5, 0))
	assert.Equal(t, 0, clampOffset(0, 5, 3))
	assert.Equal(t, 0, clampOffset(-3, 5, 11), "negative offsets floor to the first page")
}
