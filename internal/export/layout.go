package export

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// blockStyle fixes the typography of one block kind at base scale.
// Rendered height always includes the vertical margins.
type blockStyle struct {
	sizePx       float64
	bold         bool
	lineHeight   float64 // multiplier on sizePx
	marginTop    float64
	marginBottom float64
	indentPx     float64 // marker gutter for list kinds
	padPx        float64 // inner padding for table rows
}

const (
	ruleBodyPx   = 2
	spacerBodyPx = 12
)

func styleFor(kind BlockKind) blockStyle {
	switch kind {
	case KindSectionHeader:
		return blockStyle{sizePx: 21, bold: true, lineHeight: 1.35, marginTop: 18, marginBottom: 10}
	case KindSubsectionHeader:
		return blockStyle{sizePx: 16, bold: true, lineHeight: 1.35, marginTop: 14, marginBottom: 8}
	case KindListItem, KindNumberedItem:
		return blockStyle{sizePx: 12, lineHeight: 1.55, marginTop: 2, marginBottom: 2, indentPx: 20}
	case KindRule:
		return blockStyle{marginTop: 10, marginBottom: 10}
	case KindSpacer:
		return blockStyle{}
	case KindTableRow:
		return blockStyle{sizePx: 12, lineHeight: 1.55, marginTop: 5, marginBottom: 5, padPx: 8}
	default: // paragraph
		return blockStyle{sizePx: 12, lineHeight: 1.55, marginTop: 4, marginBottom: 4}
	}
}

// lineHeightPx is the visual line advance for the style
func (st blockStyle) lineHeightPx() float64 {
	return st.sizePx * st.lineHeight
}

// styledWord is a wrap unit with its measured advance
type styledWord struct {
	text  string
	bold  bool
	width fixed.Int26_6
}

// visualLine is one laid-out line after wrapping
type visualLine struct {
	words []styledWord
}

// faceLookup resolves a face for a style at an effective pixel size
type faceLookup func(sizePx float64, bold bool) (font.Face, error)

// wrapLine breaks one logical line into visual lines at maxWidth.
// Words never split across lines unless a single word is wider than the
// whole line, in which case it breaks per rune (covers unspaced scripts).
//
// Wrapping always happens at base scale with the base-scale faces.
// Hinted advance widths are not linear in face size, so re-wrapping at
// the oversampling scale could produce a different line count than the
// measured one and push content past the staging canvas. The rasterizer
// reuses these breaks and only scales positions.
func wrapLine(line Line, faces faceLookup, st blockStyle, maxWidth fixed.Int26_6) ([]visualLine, error) {
	words, err := collectWords(line, faces, st, maxWidth)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		// a blank logical line still occupies one visual line
		return []visualLine{{}}, nil
	}

	spaceW, err := spaceWidth(faces, st)
	if err != nil {
		return nil, err
	}

	var lines []visualLine
	var cur visualLine
	var curW fixed.Int26_6
	for _, w := range words {
		needed := w.width
		if len(cur.words) > 0 {
			needed += spaceW
		}
		if curW+needed > maxWidth && len(cur.words) > 0 {
			lines = append(lines, cur)
			cur = visualLine{words: []styledWord{w}}
			curW = w.width
			continue
		}
		cur.words = append(cur.words, w)
		curW += needed
	}
	lines = append(lines, cur)
	return lines, nil
}

// collectWords splits the line's spans into measured words, breaking any
// word wider than maxWidth into rune chunks that fit.
func collectWords(line Line, faces faceLookup, st blockStyle, maxWidth fixed.Int26_6) ([]styledWord, error) {
	var words []styledWord
	for _, span := range line.Spans {
		bold := span.Bold || st.bold
		face, err := faces(st.sizePx, bold)
		if err != nil {
			return nil, err
		}
		for _, text := range strings.Fields(span.Text) {
			w := font.MeasureString(face, text)
			if w <= maxWidth {
				words = append(words, styledWord{text: text, bold: bold, width: w})
				continue
			}
			words = append(words, breakWord(face, text, bold, maxWidth)...)
		}
	}
	return words, nil
}

// breakWord splits an oversized word into the largest rune chunks that fit
func breakWord(face font.Face, text string, bold bool, maxWidth fixed.Int26_6) []styledWord {
	var chunks []styledWord
	runes := []rune(text)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) {
			if font.MeasureString(face, string(runes[start:end+1])) > maxWidth {
				break
			}
			end++
		}
		chunk := string(runes[start:end])
		chunks = append(chunks, styledWord{
			text:  chunk,
			bold:  bold,
			width: font.MeasureString(face, chunk),
		})
		start = end
	}
	return chunks
}

func spaceWidth(faces faceLookup, st blockStyle) (fixed.Int26_6, error) {
	face, err := faces(st.sizePx, st.bold)
	if err != nil {
		return 0, err
	}
	return font.MeasureString(face, " "), nil
}

// textWidth returns the inner width available to a block's text at base
// scale, accounting for list indentation and table-row padding.
func textWidth(st blockStyle, contentWidthPx int) float64 {
	return float64(contentWidthPx) - st.indentPx - 2*st.padPx
}
