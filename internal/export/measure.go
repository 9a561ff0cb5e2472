package export

import (
	"fmt"

	"golang.org/x/image/math/fixed"

	"hirescan/internal/errors"
)

// Measurer determines the rendered pixel height of a block, including its
// vertical margins. Height depends on live font metrics, so it is a
// capability rather than a pure function: implementations may use font
// shaping, a headless renderer, or fixed tables in tests.
type Measurer interface {
	MeasureBlock(b *Block) (float64, error)
}

// TextMeasurer measures blocks by wrapping their text with real font
// faces at the content width the page will actually render at.
type TextMeasurer struct {
	fonts        *FontSet
	contentWidth int
}

// NewMeasurer builds a measurer bound to a content width. A non-positive
// width means the content area has not been laid out yet, which makes
// every measurement meaningless; that is a hard error, not a fallback.
func NewMeasurer(fonts *FontSet, contentWidthPx int) (*TextMeasurer, error) {
	if contentWidthPx <= 0 {
		return nil, errors.NewMeasureError(errors.ErrCodeMeasureFailed,
			fmt.Sprintf("content width %d px is not measurable", contentWidthPx), nil)
	}
	if fonts == nil {
		return nil, errors.NewMeasureError(errors.ErrCodeMeasureFailed,
			"no font set available for measurement", nil)
	}
	return &TextMeasurer{fonts: fonts, contentWidth: contentWidthPx}, nil
}

// MeasureBlock computes the block height at base scale
func (m *TextMeasurer) MeasureBlock(b *Block) (float64, error) {
	st := styleFor(b.Kind)

	switch b.Kind {
	case KindRule:
		return st.marginTop + ruleBodyPx + st.marginBottom, nil
	case KindSpacer:
		return spacerBodyPx, nil
	}

	maxWidth := fixed.I(int(textWidth(st, m.contentWidth)))
	total := 0
	for _, line := range b.Lines {
		visual, err := wrapLine(line, m.fonts.Face, st, maxWidth)
		if err != nil {
			return 0, errors.NewMeasureError(errors.ErrCodeMeasureFailed,
				fmt.Sprintf("cannot measure %s block", b.Kind), err)
		}
		total += len(visual)
	}

	return st.marginTop + 2*st.padPx + float64(total)*st.lineHeightPx() + st.marginBottom, nil
}

// MeasureAll measures every block in order, recording Height and the
// leading margin (the part suppressed when the block opens a later page).
// Any single failure is fatal: a guessed height risks silent overflow.
func MeasureAll(m Measurer, blocks []*Block) error {
	for _, b := range blocks {
		h, err := m.MeasureBlock(b)
		if err != nil {
			return err
		}
		b.Height = h
		b.MarginTop = styleFor(b.Kind).marginTop
	}
	return nil
}
