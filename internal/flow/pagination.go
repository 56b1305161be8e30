package flow

// Page describes one window into a result set.
type Page struct {
	Offset int
	Size   int
	Total  int
}

// Number is the 1-based page number.
func (p Page) Number() int {
	if p.Size <= 0 {
		return 1
	}
	return p.Offset/p.Size + 1
}

// Count is the number of pages, at least 1 so empty sets render as "1/1".
func (p Page) Count() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

func (p Page) HasPrev() bool { return p.Offset > 0 }

func (p Page) HasNext() bool { return p.Offset+p.Size < p.Total }

func (p Page) PrevOffset() int {
	prev := p.Offset - p.Size
	if prev < 0 {
		return 0
	}
	return prev
}

func (p Page) NextOffset() int { return p.Offset + p.Size }

// clampOffset pulls an offset that ran past either end of the result set
// back into range. Overruns happen when items are deleted out from under
// an open page; negatives only via forged callback data.
func clampOffset(offset, size, total int) int {
	if offset < 0 || total <= 0 || size <= 0 {
		return 0
	}
	last := ((total - 1) / size) * size
	if offset > last {
		return last
	}
	return offset
}
