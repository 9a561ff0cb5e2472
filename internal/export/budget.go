package export

// Geometry fixes the physical page layout for a whole export. One
// geometry per document; not user-exposed beyond configuration defaults.
type Geometry struct {
	PageWidthMm    float64
	PageHeightMm   float64
	TopMarginMm    float64
	BottomMarginMm float64
	LeftMarginMm   float64
	RightMarginMm  float64
	// SafetyMarginMm absorbs sub-pixel rounding and font-metric variance
	// between the measuring pass and the isolated re-render. Without it,
	// content can silently overflow into the bottom margin.
	SafetyMarginMm float64
	// ContentWidthPx is the rendered pixel width of the content area at
	// base scale; all measurement happens at this width.
	ContentWidthPx int
	// Scale is the raster oversampling factor for print quality
	Scale float64
}

// DefaultGeometry returns A4 portrait with the engine's fixed margins
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidthMm:    210,
		PageHeightMm:   297,
		TopMarginMm:    20,
		BottomMarginMm: 18,
		LeftMarginMm:   15,
		RightMarginMm:  15,
		SafetyMarginMm: 5,
		ContentWidthPx: 750,
		Scale:          2,
	}
}

// PixelsPerMm derives the pixel density from the rendered content width
func (g Geometry) PixelsPerMm() float64 {
	return float64(g.ContentWidthPx) / g.PageWidthMm
}

// BudgetPx is the maximum content height in pixels usable per page.
// Computed once per export job and reused for every page.
func (g Geometry) BudgetPx() float64 {
	usableMm := g.PageHeightMm - g.TopMarginMm - g.BottomMarginMm - g.SafetyMarginMm
	return usableMm * g.PixelsPerMm()
}

// ContentWidthMm is the printable width between the side margins
func (g Geometry) ContentWidthMm() float64 {
	return g.PageWidthMm - g.LeftMarginMm - g.RightMarginMm
}
