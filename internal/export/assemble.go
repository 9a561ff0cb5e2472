package export

import (
	"bytes"
	"fmt"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"hirescan/internal/errors"
	"hirescan/internal/types"
)

// Assembler turns rendered page images into a single PDF and stamps the
// page chrome once the final page count is known.
type Assembler struct {
	geo Geometry
	now func() time.Time
}

func NewAssembler(geo Geometry) *Assembler {
	return &Assembler{geo: geo, now: time.Now}
}

// Assemble embeds one image per PDF page in page order, then stamps
// headers and footers. Automatic page breaking stays off: the paginator
// already decided every boundary, and a reflow here would break the
// one-image-one-page mapping.
func (a *Assembler) Assemble(pages []*PageImage, kind types.DocumentKind) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: a.geo.PageWidthMm, Ht: a.geo.PageHeightMm},
	})
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range pages {
		pdf.AddPage()
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.PNG))
		// height 0 keeps the image's aspect ratio at the content width
		pdf.ImageOptions(name, a.geo.LeftMarginMm, a.geo.TopMarginMm,
			a.geo.ContentWidthMm(), 0, false, opts, 0, "")
	}

	a.stampChrome(pdf, kind)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.NewAssembleError(errors.ErrCodeAssemblyFailed, "cannot write document", err)
	}
	return buf.Bytes(), nil
}

// stampChrome draws the header and footer on every page. It runs after
// all pages exist so the footer can carry the real total. Chrome text is
// restricted to the built-in Latin-1 fonts; candidate data never appears
// here, only in the rasterized body.
func (a *Assembler) stampChrome(pdf *fpdf.Fpdf, kind types.DocumentKind) {
	total := pdf.PageCount()
	date := "Generated " + a.now().Format("2006-01-02")
	label := chromeLabel(kind)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)

	left := a.geo.LeftMarginMm
	right := a.geo.PageWidthMm - a.geo.RightMarginMm
	headerY := a.geo.TopMarginMm - 7
	footerY := a.geo.PageHeightMm - a.geo.BottomMarginMm + 7

	for i := 1; i <= total; i++ {
		pdf.SetPage(i)

		pdf.Text(left, headerY, label)
		pdf.Text(right-pdf.GetStringWidth(date), headerY, date)
		pdf.Line(left, headerY+2, right, headerY+2)

		folio := fmt.Sprintf("Page %d of %d", i, total)
		pdf.Line(left, footerY-4, right, footerY-4)
		pdf.Text((a.geo.PageWidthMm-pdf.GetStringWidth(folio))/2, footerY, folio)
	}
}
