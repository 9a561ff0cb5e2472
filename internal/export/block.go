package export

import "strings"

// BlockKind classifies an atomic content block
type BlockKind int

const (
	KindSectionHeader BlockKind = iota
	KindSubsectionHeader
	KindParagraph
	KindListItem
	KindNumberedItem
	KindRule
	KindSpacer
	KindTableRow
)

func (k BlockKind) String() string {
	switch k {
	case KindSectionHeader:
		return "section-header"
	case KindSubsectionHeader:
		return "subsection-header"
	case KindParagraph:
		return "paragraph"
	case KindListItem:
		return "list-item"
	case KindNumberedItem:
		return "numbered-item"
	case KindRule:
		return "rule"
	case KindSpacer:
		return "spacer"
	case KindTableRow:
		return "table-row"
	default:
		return "unknown"
	}
}

// Span is a run of inline text with uniform emphasis
type Span struct {
	Text string
	Bold bool
}

// Line is one logical line of rich inline content. It may wrap onto
// several visual lines when laid out at a given width.
type Line struct {
	Spans []Span
}

// Block is an atomic, non-splittable visual unit. Height is the measured
// pixel height including vertical margins; MarginTop is the leading
// portion of that height, suppressed when the block opens a page that is
// not the document's first.
type Block struct {
	Kind      BlockKind
	Lines     []Line
	Marker    string // bullet or number prefix for list kinds
	Height    float64
	MarginTop float64
}

// Text returns the block's plain text with emphasis markers stripped,
// lines joined by newlines. Used for logging and tests.
func (b *Block) Text() string {
	var sb strings.Builder
	for i, line := range b.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, span := range line.Spans {
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}

// ParseSpans splits inline text on **bold** markers. Emphasis never
// creates additional blocks; it only toggles the span style. Unbalanced
// markers are treated as literal text.
func ParseSpans(text string) []Span {
	var spans []Span
	for len(text) > 0 {
		open := strings.Index(text, "**")
		if open < 0 {
			spans = append(spans, Span{Text: text})
			break
		}
		close := strings.Index(text[open+2:], "**")
		if close < 0 {
			spans = append(spans, Span{Text: text})
			break
		}
		if open > 0 {
			spans = append(spans, Span{Text: text[:open]})
		}
		bold := text[open+2 : open+2+close]
		if bold != "" {
			spans = append(spans, Span{Text: bold, Bold: true})
		}
		text = text[open+2+close+2:]
	}
	if len(spans) == 0 {
		spans = []Span{{Text: ""}}
	}
	return spans
}

// plainLine builds a single-line block content without emphasis parsing
func plainLine(text string, bold bool) []Line {
	return []Line{{Spans: []Span{{Text: text, Bold: bold}}}}
}

// markupLine builds a single-line block content with **bold** parsing
func markupLine(text string) []Line {
	return []Line{{Spans: ParseSpans(text)}}
}
