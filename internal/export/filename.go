package export

import (
	"fmt"
	"strings"

	"hirescan/internal/types"
)

const (
	placeholderJob       = "UnknownPosition"
	placeholderCandidate = "Candidate"
)

// forbidden in file names across the platforms we ship to
var fileNameSanitizer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	"\"", "-",
	"<", "-",
	">", "-",
	"|", "-",
	"\x00", "",
)

// FileName builds the download name for an export:
// <kind>_<job title>_<candidate>_<total score>.pdf. Fields the evaluation
// did not provide fall back to fixed placeholders so the name stays
// parseable.
func FileName(req types.ExportRequest) string {
	job := sanitizeField(req.Job.Title)
	if job == "" {
		job = placeholderJob
	}
	name := sanitizeField(req.Candidate.Name)
	if name == "" {
		name = placeholderCandidate
	}
	return fmt.Sprintf("%s_%s_%s_%d.pdf",
		kindLabel(req.Kind, req.Language), job, name, req.Candidate.TotalScore)
}

func sanitizeField(s string) string {
	s = fileNameSanitizer.Replace(strings.TrimSpace(s))
	// underscore delimits the name's fields
	s = strings.ReplaceAll(s, "_", "-")
	return strings.Join(strings.Fields(s), " ")
}
