package export

// Page is an ordered run of blocks with their running height
type Page struct {
	Blocks           []*Block
	CumulativeHeight float64
	// Overflow marks a page whose single block exceeds the budget. The
	// block is kept whole rather than truncated; callers should surface
	// the condition instead of silently clipping.
	Overflow bool
}

// Paginate greedily packs measured blocks into pages under budgetPx.
// Page order equals block order; no block is dropped, duplicated or split.
// A block taller than the budget is placed alone on its own page, which is
// then allowed to exceed the budget (content is never lost to fit a page).
// The partition is fully determined by the inputs.
func Paginate(blocks []*Block, budgetPx float64) []*Page {
	var pages []*Page
	current := &Page{}

	for _, b := range blocks {
		if current.CumulativeHeight+b.Height > budgetPx && len(current.Blocks) > 0 {
			pages = append(pages, current)
			current = &Page{Blocks: []*Block{b}, CumulativeHeight: b.Height}
			continue
		}
		current.Blocks = append(current.Blocks, b)
		current.CumulativeHeight += b.Height
	}
	if len(current.Blocks) > 0 {
		pages = append(pages, current)
	}

	for _, p := range pages {
		p.Overflow = p.CumulativeHeight > budgetPx
	}
	return pages
}
