package export

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func renderTestPage(t *testing.T, r *Rasterizer, text string, suppress bool) *PageImage {
	t.Helper()
	m, err := NewMeasurer(r.fonts, r.geo.ContentWidthPx)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	blocks := []*Block{{Kind: KindParagraph, Lines: plainLine(text, false)}}
	if err := MeasureAll(m, blocks); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}
	pages := Paginate(blocks, 10000)
	img, err := r.RenderPage(pages[0], suppress)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	return img
}

func TestRenderPageDimensions(t *testing.T) {
	geo := DefaultGeometry()
	r := NewRasterizer(testFonts(t), geo)
	defer r.Close()

	img := renderTestPage(t, r, "hello world", false)
	if want := geo.ContentWidthPx * int(geo.Scale); img.WidthPx != want {
		t.Errorf("width %d, want %d", img.WidthPx, want)
	}
	if img.HeightPx <= 0 {
		t.Errorf("height %d", img.HeightPx)
	}

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != img.WidthPx || b.Dy() != img.HeightPx {
		t.Errorf("decoded %dx%d, reported %dx%d", b.Dx(), b.Dy(), img.WidthPx, img.HeightPx)
	}
}

func TestRenderPageDrawsInk(t *testing.T) {
	r := NewRasterizer(testFonts(t), DefaultGeometry())
	defer r.Close()

	img := renderTestPage(t, r, "ink", false)
	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	ink := false
	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !ink; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, g, bl, _ := decoded.At(x, y).RGBA(); r < 0xf000 || g < 0xf000 || bl < 0xf000 {
				ink = true
				break
			}
		}
	}
	if !ink {
		t.Error("rendered page is entirely white")
	}
}

// A tall first page must not bleed into a short second page rendered on
// the same reused surface.
func TestStagingClearedBetweenPages(t *testing.T) {
	r := NewRasterizer(testFonts(t), DefaultGeometry())
	defer r.Close()

	renderTestPage(t, r, "first page with plenty of text to leave marks high and low on the surface", false)
	short := renderTestPage(t, r, "x", true)

	decoded, err := png.Decode(bytes.NewReader(short.PNG))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	// the right half of a one-glyph page must be pure white
	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X + b.Dx()/2; x < b.Max.X; x++ {
			cr, cg, cb, _ := decoded.At(x, y).RGBA()
			if cr != 0xffff || cg != 0xffff || cb != 0xffff {
				t.Fatalf("stale pixel at (%d,%d): %v", x, y, color.RGBA64{R: uint16(cr), G: uint16(cg), B: uint16(cb)})
			}
		}
	}
}

func TestSuppressLeadingShrinksFirstBlock(t *testing.T) {
	r := NewRasterizer(testFonts(t), DefaultGeometry())
	defer r.Close()

	full := renderTestPage(t, r, "margin check", false)
	suppressed := renderTestPage(t, r, "margin check", true)

	st := styleFor(KindParagraph)
	wantDiff := int(st.marginTop * r.geo.Scale)
	if diff := full.HeightPx - suppressed.HeightPx; diff != wantDiff {
		t.Errorf("height difference %d, want %d", diff, wantDiff)
	}
}

// Line breaks are computed once at base scale. If the raster pass
// re-wrapped with the oversampled faces it could produce extra visual
// lines and push trailing content past the measured canvas, where it
// would be clipped silently. Wrapped headers across several styles
// must leave the final block's bottom margin untouched.
func TestRenderPageFitsMeasuredHeight(t *testing.T) {
	r := NewRasterizer(testFonts(t), DefaultGeometry())
	defer r.Close()

	m, err := NewMeasurer(r.fonts, r.geo.ContentWidthPx)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}

	long := strings.TrimSpace(strings.Repeat("interview readiness and escalation ownership across distributed teams ", 4))
	blocks := []*Block{
		{Kind: KindSectionHeader, Lines: plainLine(long, true)},
		{Kind: KindSubsectionHeader, Lines: plainLine(long, true)},
		{Kind: KindListItem, Lines: plainLine(long, false), Marker: "•"},
		{Kind: KindParagraph, Lines: plainLine(long, false)},
	}
	if err := MeasureAll(m, blocks); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}
	pages := Paginate(blocks, 100000)
	img, err := r.RenderPage(pages[0], false)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	// the last block's bottom margin is the end of the measured extent;
	// any ink there means the drawn text ran longer than measured
	strip := int(styleFor(KindParagraph).marginBottom * r.geo.Scale)
	b := decoded.Bounds()
	for y := b.Max.Y - strip; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := decoded.At(x, y).RGBA()
			if cr != 0xffff || cg != 0xffff || cb != 0xffff {
				t.Fatalf("ink in bottom margin at (%d,%d)", x, y)
			}
		}
	}
}

func TestRenderPageRuleAndSpacerOnly(t *testing.T) {
	r := NewRasterizer(testFonts(t), DefaultGeometry())
	defer r.Close()

	m, err := NewMeasurer(r.fonts, r.geo.ContentWidthPx)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	blocks := []*Block{{Kind: KindSpacer}, {Kind: KindRule}, {Kind: KindSpacer}}
	if err := MeasureAll(m, blocks); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}
	pages := Paginate(blocks, 10000)
	if _, err := r.RenderPage(pages[0], false); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
}
