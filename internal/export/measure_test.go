package export

import (
	"math"
	"strings"
	"testing"

	"hirescan/internal/types"
)

func testMetric() types.MetricResult {
	return types.MetricResult{
		Name: "Ownership", Score: 8,
		Reason:    "Drove a migration end to end",
		Criteria:  "Evidence of initiative",
		Highlight: "Led the rollout",
		Brief:     "Positive",
	}
}

func testFonts(t *testing.T) *FontSet {
	t.Helper()
	fonts, err := LoadFonts("", "")
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	return fonts
}

func testMeasurer(t *testing.T) *TextMeasurer {
	t.Helper()
	m, err := NewMeasurer(testFonts(t), DefaultGeometry().ContentWidthPx)
	if err != nil {
		t.Fatalf("NewMeasurer: %v", err)
	}
	return m
}

func TestNewMeasurerRejectsBadInput(t *testing.T) {
	fonts := testFonts(t)
	if _, err := NewMeasurer(fonts, 0); err == nil {
		t.Error("zero content width accepted")
	}
	if _, err := NewMeasurer(fonts, -100); err == nil {
		t.Error("negative content width accepted")
	}
	if _, err := NewMeasurer(nil, 750); err == nil {
		t.Error("nil font set accepted")
	}
}

func TestMeasureFixedKinds(t *testing.T) {
	m := testMeasurer(t)

	h, err := m.MeasureBlock(&Block{Kind: KindRule})
	if err != nil {
		t.Fatalf("rule: %v", err)
	}
	if h != 22 { // 10 + 2 + 10
		t.Errorf("rule height %v, want 22", h)
	}

	h, err = m.MeasureBlock(&Block{Kind: KindSpacer})
	if err != nil {
		t.Fatalf("spacer: %v", err)
	}
	if h != spacerBodyPx {
		t.Errorf("spacer height %v, want %v", h, spacerBodyPx)
	}
}

func TestMeasureSingleLineParagraph(t *testing.T) {
	m := testMeasurer(t)
	st := styleFor(KindParagraph)

	h, err := m.MeasureBlock(&Block{Kind: KindParagraph, Lines: plainLine("short", false)})
	if err != nil {
		t.Fatalf("MeasureBlock: %v", err)
	}
	want := st.marginTop + st.lineHeightPx() + st.marginBottom
	if h != want {
		t.Errorf("height %v, want %v", h, want)
	}
}

func TestMeasureWrappingGrowsHeight(t *testing.T) {
	m := testMeasurer(t)

	short, err := m.MeasureBlock(&Block{Kind: KindParagraph, Lines: plainLine("short", false)})
	if err != nil {
		t.Fatalf("short: %v", err)
	}
	long, err := m.MeasureBlock(&Block{
		Kind:  KindParagraph,
		Lines: plainLine(strings.Repeat("wrapping paragraph text ", 40), false),
	})
	if err != nil {
		t.Fatalf("long: %v", err)
	}
	if long <= short {
		t.Errorf("long paragraph %v not taller than single line %v", long, short)
	}

	// wrapped height is always a whole number of line advances plus margins
	st := styleFor(KindParagraph)
	body := long - st.marginTop - st.marginBottom
	lines := math.Round(body / st.lineHeightPx())
	if math.Abs(body-lines*st.lineHeightPx()) > 1e-6 {
		t.Errorf("body %v is not a whole line count", body)
	}
}

func TestMeasureUnspacedTextStillWraps(t *testing.T) {
	m := testMeasurer(t)
	h, err := m.MeasureBlock(&Block{
		Kind:  KindParagraph,
		Lines: plainLine(strings.Repeat("x", 2000), false),
	})
	if err != nil {
		t.Fatalf("MeasureBlock: %v", err)
	}
	st := styleFor(KindParagraph)
	if h <= st.marginTop+st.lineHeightPx()+st.marginBottom {
		t.Error("a 2000-rune unspaced word did not wrap onto extra lines")
	}
}

func TestMeasureMultiLineTableRow(t *testing.T) {
	m := testMeasurer(t)
	b := metricBlock(testMetric(), reportLabelsFor("en"))

	h, err := m.MeasureBlock(b)
	if err != nil {
		t.Fatalf("MeasureBlock: %v", err)
	}
	st := styleFor(KindTableRow)
	min := st.marginTop + 2*st.padPx + float64(len(b.Lines))*st.lineHeightPx() + st.marginBottom
	if h < min {
		t.Errorf("height %v below minimum %v for %d logical lines", h, min, len(b.Lines))
	}
}

func TestMeasureAllRecordsHeights(t *testing.T) {
	m := testMeasurer(t)
	blocks := EnumerateGuide("## Plan\n\nFirst question.\n- tip")

	if err := MeasureAll(m, blocks); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}
	for i, b := range blocks {
		if b.Height <= 0 {
			t.Errorf("block %d (%s): height %v not set", i, b.Kind, b.Height)
		}
		if b.MarginTop != styleFor(b.Kind).marginTop {
			t.Errorf("block %d (%s): margin top %v", i, b.Kind, b.MarginTop)
		}
	}
}
