package types

// DocumentKind selects which document an export produces
type DocumentKind string

const (
	KindReport DocumentKind = "report"
	KindGuide  DocumentKind = "guide"
)

// MetricResult holds one evaluation dimension for a candidate.
// Criteria, Highlight and Brief are optional enrichment produced by the
// upstream analysis pipeline; when present they render as one combined
// scorecard, never as separate units.
type MetricResult struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
	Criteria  string `json:"criteria,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Brief     string `json:"brief,omitempty"`
}

// CandidateProfile is the finalized evaluation record for one candidate,
// supplied by the upstream analysis pipeline.
type CandidateProfile struct {
	Name       string         `json:"name"`
	Company    string         `json:"company,omitempty"`
	Education  string         `json:"education,omitempty"`
	Age        int            `json:"age,omitempty"`
	TotalScore int            `json:"totalScore"`
	Metrics    []MetricResult `json:"metrics"`
	Summary    string         `json:"summary"`
	Risks      []string       `json:"risks,omitempty"`
}

// JobInfo carries the job metadata relevant to an export
type JobInfo struct {
	Title string `json:"title"`
}

// ExportRequest is one complete export input: the document kind, the
// candidate record, job metadata, and (for guides) the markdown-like
// guide text.
type ExportRequest struct {
	Kind      DocumentKind     `json:"kind"`
	Candidate CandidateProfile `json:"candidate"`
	Job       JobInfo          `json:"job"`
	GuideText string           `json:"guideText,omitempty"`
	Language  string           `json:"language,omitempty"` // "zh" or "en", label selection only
}

// ExportResult is the finished document produced by one export job.
// OverflowPages counts pages whose content exceeded the printable area.
type ExportResult struct {
	FileName      string `json:"fileName"`
	Pages         int    `json:"pages"`
	OverflowPages int    `json:"overflowPages,omitempty"`
	PDF           []byte `json:"-"`
}
