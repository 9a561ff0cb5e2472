package export

import (
	"fmt"
	"strings"

	"hirescan/internal/types"
)

// EnumerateRequest flattens an export request into the ordered block
// sequence for its document kind. A pure transformation: an empty input
// yields zero blocks, never an error.
func EnumerateRequest(req types.ExportRequest) []*Block {
	if req.Kind == types.KindGuide {
		return EnumerateGuide(req.GuideText)
	}
	return EnumerateReport(req.Candidate, req.Job, req.Language)
}

// EnumerateReport turns a finalized evaluation record into blocks, one per
// semantic unit: document header, metadata summary row, executive summary,
// each risk line, each metric scorecard. Section headings and field labels
// follow the requested language; candidate content passes through as-is.
func EnumerateReport(c types.CandidateProfile, job types.JobInfo, lang string) []*Block {
	var blocks []*Block
	labels := reportLabelsFor(lang)

	if c.Name == "" && c.Summary == "" && len(c.Metrics) == 0 && len(c.Risks) == 0 {
		return blocks
	}

	title := c.Name
	if job.Title != "" {
		title = fmt.Sprintf("%s — %s", c.Name, job.Title)
	}
	blocks = append(blocks, &Block{Kind: KindSectionHeader, Lines: plainLine(title, true)})

	if meta := metadataSummary(c, labels); meta != "" {
		blocks = append(blocks, &Block{Kind: KindTableRow, Lines: plainLine(meta, false)})
	}

	if c.Summary != "" {
		blocks = append(blocks,
			&Block{Kind: KindSubsectionHeader, Lines: plainLine(labels.summary, true)},
			&Block{Kind: KindParagraph, Lines: markupLine(c.Summary)},
		)
	}

	if len(c.Risks) > 0 {
		blocks = append(blocks, &Block{Kind: KindSubsectionHeader, Lines: plainLine(labels.risks, true)})
		for _, risk := range c.Risks {
			blocks = append(blocks, &Block{
				Kind:   KindListItem,
				Lines:  markupLine(risk),
				Marker: "•",
			})
		}
	}

	if len(c.Metrics) > 0 {
		blocks = append(blocks, &Block{Kind: KindSubsectionHeader, Lines: plainLine(labels.scorecard, true)})
		for _, m := range c.Metrics {
			blocks = append(blocks, metricBlock(m, labels))
		}
	}

	return blocks
}

// metricBlock builds one atomic scorecard block for a metric. Enriched
// detail (criteria, highlight, brief) stays inside the same block: it is
// never split from the score line across a page boundary.
func metricBlock(m types.MetricResult, labels reportLabels) *Block {
	lines := []Line{
		{Spans: []Span{{Text: fmt.Sprintf("%s — %d", m.Name, m.Score), Bold: true}}},
	}
	if m.Reason != "" {
		lines = append(lines, Line{Spans: ParseSpans(m.Reason)})
	}
	if m.Criteria != "" {
		lines = append(lines, Line{Spans: []Span{{Text: labels.criteria, Bold: true}, {Text: m.Criteria}}})
	}
	if m.Highlight != "" {
		lines = append(lines, Line{Spans: []Span{{Text: labels.highlight, Bold: true}, {Text: m.Highlight}}})
	}
	if m.Brief != "" {
		lines = append(lines, Line{Spans: []Span{{Text: m.Brief}}})
	}
	return &Block{Kind: KindTableRow, Lines: lines}
}

func metadataSummary(c types.CandidateProfile, labels reportLabels) string {
	var parts []string
	if c.Company != "" {
		parts = append(parts, c.Company)
	}
	if c.Education != "" {
		parts = append(parts, c.Education)
	}
	if c.Age > 0 {
		parts = append(parts, fmt.Sprintf(labels.age, c.Age))
	}
	parts = append(parts, fmt.Sprintf(labels.totalScore, c.TotalScore))
	return strings.Join(parts, " · ")
}

// EnumerateGuide splits guide text into physical lines and classifies each
// by a fixed precedence of lexical rules: heading markers, horizontal-rule
// markers, bulleted-list markers, numbered-list markers, blank line, else
// plain paragraph. Every line becomes exactly one block.
func EnumerateGuide(text string) []*Block {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var blocks []*Block
	for _, raw := range strings.Split(text, "\n") {
		blocks = append(blocks, classifyGuideLine(raw))
	}
	return blocks
}

func classifyGuideLine(raw string) *Block {
	line := strings.TrimRight(raw, " \t\r")
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "### "):
		return &Block{Kind: KindSubsectionHeader, Lines: markupLine(strings.TrimPrefix(trimmed, "### "))}
	case strings.HasPrefix(trimmed, "## "):
		return &Block{Kind: KindSectionHeader, Lines: markupLine(strings.TrimPrefix(trimmed, "## "))}
	case isRuleMarker(trimmed):
		return &Block{Kind: KindRule}
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		return &Block{Kind: KindListItem, Lines: markupLine(trimmed[2:]), Marker: "•"}
	case numberedPrefix(trimmed) != "":
		prefix := numberedPrefix(trimmed)
		return &Block{
			Kind:   KindNumberedItem,
			Lines:  markupLine(strings.TrimSpace(trimmed[len(prefix):])),
			Marker: strings.TrimSpace(prefix),
		}
	case trimmed == "":
		return &Block{Kind: KindSpacer}
	default:
		return &Block{Kind: KindParagraph, Lines: markupLine(trimmed)}
	}
}

// isRuleMarker reports whether a line is a horizontal rule: three or more
// of the same marker character and nothing else.
func isRuleMarker(s string) bool {
	if len(s) < 3 {
		return false
	}
	marker := s[0]
	if marker != '-' && marker != '*' && marker != '_' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != marker {
			return false
		}
	}
	return true
}

// numberedPrefix returns the "N. " prefix of a numbered list line, or ""
func numberedPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(s) {
		return ""
	}
	if s[i] != '.' || s[i+1] != ' ' {
		return ""
	}
	return s[:i+2]
}
