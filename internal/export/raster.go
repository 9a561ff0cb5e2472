package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"hirescan/internal/errors"
)

var (
	ruleColor   = color.RGBA{R: 0xb4, G: 0xb4, B: 0xb4, A: 0xff}
	borderColor = color.RGBA{R: 0xd2, G: 0xd2, B: 0xd2, A: 0xff}
)

// PageImage is one page's block subset captured as a raster
type PageImage struct {
	PNG      []byte
	WidthPx  int
	HeightPx int
}

// canvas is the reusable off-screen staging surface. It is the only
// shared mutable resource in the pipeline: acquire clears it completely
// before a page renders, release frees it when the job ends. Never share
// one canvas between concurrent jobs.
type canvas struct {
	img *image.RGBA
}

func (c *canvas) acquire(w, h int) *image.RGBA {
	r := image.Rect(0, 0, w, h)
	if c.img == nil || !r.In(c.img.Bounds()) {
		c.img = image.NewRGBA(r)
	}
	target := c.img.SubImage(r).(*image.RGBA)
	draw.Draw(target, r, image.White, image.Point{}, draw.Src)
	return target
}

func (c *canvas) release() {
	c.img = nil
}

// Rasterizer renders one page's blocks in isolation, disconnected from
// surrounding pages, at the geometry's oversampling scale.
type Rasterizer struct {
	fonts   *FontSet
	geo     Geometry
	staging canvas
}

func NewRasterizer(fonts *FontSet, geo Geometry) *Rasterizer {
	return &Rasterizer{fonts: fonts, geo: geo}
}

// Close releases the staging surface. Called when the owning job
// completes or fails, including on the error path.
func (r *Rasterizer) Close() {
	r.staging.release()
}

// RenderPage rasterizes the page's block subset. suppressLeading drops
// the first block's own top margin so it does not double up with the
// page's top margin; it is set for every page except the document's first.
func (r *Rasterizer) RenderPage(page *Page, suppressLeading bool) (*PageImage, error) {
	scale := r.geo.Scale
	pageHeight := page.CumulativeHeight
	if suppressLeading && len(page.Blocks) > 0 {
		pageHeight -= page.Blocks[0].MarginTop
	}

	widthPx := int(math.Ceil(float64(r.geo.ContentWidthPx) * scale))
	heightPx := int(math.Ceil(pageHeight * scale))
	if heightPx < 1 {
		heightPx = 1
	}

	img := r.staging.acquire(widthPx, heightPx)

	y := 0.0
	for i, b := range page.Blocks {
		top := b.MarginTop
		if i == 0 && suppressLeading {
			top = 0
		}
		h, err := r.drawBlock(img, b, y+top*scale)
		if err != nil {
			return nil, errors.NewRasterError(errors.ErrCodeRasterFailed,
				fmt.Sprintf("cannot rasterize %s block", b.Kind), err)
		}
		y += (top + h + styleFor(b.Kind).marginBottom) * scale
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.NewRasterError(errors.ErrCodeRasterFailed, "cannot encode page image", err)
	}

	return &PageImage{PNG: buf.Bytes(), WidthPx: widthPx, HeightPx: heightPx}, nil
}

// drawBlock paints one block at vertical offset yPx (already scaled) and
// returns the block's body height at base scale (margins excluded).
func (r *Rasterizer) drawBlock(img *image.RGBA, b *Block, yPx float64) (float64, error) {
	st := styleFor(b.Kind)
	scale := r.geo.Scale

	switch b.Kind {
	case KindSpacer:
		return spacerBodyPx, nil
	case KindRule:
		fillRect(img, 0, int(yPx), img.Bounds().Dx(), int(yPx+ruleBodyPx*scale), ruleColor)
		return ruleBodyPx, nil
	}

	// Wrap at base scale with the same maxWidth the measurer used, so the
	// line count here matches the measured one exactly. Positions and faces
	// are scaled afterwards.
	maxWidth := fixed.I(int(textWidth(st, r.geo.ContentWidthPx)))
	xStart := (st.indentPx + st.padPx) * scale
	yText := yPx + st.padPx*scale

	lineCount := 0
	for li, line := range b.Lines {
		visual, err := wrapLine(line, r.fonts.Face, st, maxWidth)
		if err != nil {
			return 0, err
		}
		if li == 0 && b.Marker != "" {
			if err := r.drawMarker(img, b.Marker, st, yText); err != nil {
				return 0, err
			}
		}
		for _, vl := range visual {
			if err := r.drawVisualLine(img, vl, st, xStart, yText+float64(lineCount)*st.lineHeightPx()*scale); err != nil {
				return 0, err
			}
			lineCount++
		}
	}

	body := 2*st.padPx + float64(lineCount)*st.lineHeightPx()
	if b.Kind == KindTableRow {
		r.drawRowBorder(img, yPx, body*scale)
	}
	return body, nil
}

func (r *Rasterizer) drawVisualLine(img *image.RGBA, vl visualLine, st blockStyle, xPx, yPx float64) error {
	scale := r.geo.Scale
	space, err := spaceWidth(r.fonts.Face, st)
	if err != nil {
		return err
	}

	// Word widths come from the base-scale wrap. Scaling the advances,
	// rather than remeasuring with the scaled face, keeps the drawn line
	// within maxWidth*scale even where hinting drifts between sizes.
	dot := fixed.Point26_6{X: floatToFixed(xPx)}
	for i, w := range vl.words {
		face, err := r.fonts.Face(st.sizePx*scale, w.bold)
		if err != nil {
			return err
		}
		if i > 0 {
			dot.X += scaleFixed(space, scale)
		}
		dot.Y = floatToFixed(yPx) + baselineOffset(face, st.lineHeightPx()*scale)

		d := font.Drawer{
			Dst:  img,
			Src:  image.Black,
			Face: face,
			Dot:  dot,
		}
		d.DrawString(w.text)
		dot.X += scaleFixed(w.width, scale)
	}
	return nil
}

// scaleFixed multiplies a 26.6 fixed-point value by a float scale factor
func scaleFixed(v fixed.Int26_6, scale float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(v) * scale))
}

func (r *Rasterizer) drawMarker(img *image.RGBA, marker string, st blockStyle, yPx float64) error {
	scale := r.geo.Scale
	face, err := r.fonts.Face(st.sizePx*scale, false)
	if err != nil {
		return err
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(2 * scale),
			Y: floatToFixed(yPx) + baselineOffset(face, st.lineHeightPx()*scale),
		},
	}
	d.DrawString(marker)
	return nil
}

// drawRowBorder outlines a table-row block with a light one-pixel frame
func (r *Rasterizer) drawRowBorder(img *image.RGBA, yPx, heightPx float64) {
	w := img.Bounds().Dx()
	t := int(r.geo.Scale)
	if t < 1 {
		t = 1
	}
	y0, y1 := int(yPx), int(yPx+heightPx)
	fillRect(img, 0, y0, w, y0+t, borderColor)
	fillRect(img, 0, y1-t, w, y1, borderColor)
	fillRect(img, 0, y0, t, y1, borderColor)
	fillRect(img, w-t, y0, w, y1, borderColor)
}

// baselineOffset centers the face's ascent+descent in the line box
func baselineOffset(face font.Face, lineHeightPx float64) fixed.Int26_6 {
	m := face.Metrics()
	leading := floatToFixed(lineHeightPx) - m.Ascent - m.Descent
	if leading < 0 {
		leading = 0
	}
	return leading/2 + m.Ascent
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), &image.Uniform{C: c}, image.Point{}, draw.Src)
}
