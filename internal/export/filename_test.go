package export

import (
	"testing"

	"hirescan/internal/types"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		req  types.ExportRequest
		want string
	}{
		{
			name: "full report name",
			req: types.ExportRequest{
				Kind:      types.KindReport,
				Job:       types.JobInfo{Title: "Platform Engineer"},
				Candidate: types.CandidateProfile{Name: "Jordan Wu", TotalScore: 82},
			},
			want: "Evaluation_Platform Engineer_Jordan Wu_82.pdf",
		},
		{
			name: "guide kind",
			req: types.ExportRequest{
				Kind:      types.KindGuide,
				Job:       types.JobInfo{Title: "Backend Developer"},
				Candidate: types.CandidateProfile{Name: "Sam Lee", TotalScore: 74},
			},
			want: "InterviewGuide_Backend Developer_Sam Lee_74.pdf",
		},
		{
			name: "placeholders for missing fields",
			req:  types.ExportRequest{Kind: types.KindReport},
			want: "Evaluation_UnknownPosition_Candidate_0.pdf",
		},
		{
			name: "path characters are sanitized",
			req: types.ExportRequest{
				Kind:      types.KindReport,
				Job:       types.JobInfo{Title: "Dev/Ops: Lead?"},
				Candidate: types.CandidateProfile{Name: "A<B>C", TotalScore: 5},
			},
			want: "Evaluation_Dev-Ops- Lead-_A-B-C_5.pdf",
		},
		{
			name: "underscores in fields become dashes",
			req: types.ExportRequest{
				Kind:      types.KindReport,
				Job:       types.JobInfo{Title: "ML_Engineer"},
				Candidate: types.CandidateProfile{Name: "Pat", TotalScore: 66},
			},
			want: "Evaluation_ML-Engineer_Pat_66.pdf",
		},
		{
			name: "chinese labels",
			req: types.ExportRequest{
				Kind:      types.KindReport,
				Language:  "zh",
				Job:       types.JobInfo{Title: "平台工程师"},
				Candidate: types.CandidateProfile{Name: "吴静", TotalScore: 90},
			},
			want: "测评报告_平台工程师_吴静_90.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.req); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"", "en"},
		{"en", "en"},
		{"en-US", "en"},
		{"zh", "zh"},
		{"zh-CN", "zh"},
		{"fr", "en"},
		{"not a tag", "en"},
	}
	for _, tt := range tests {
		if got := matchLanguage(tt.lang); got.String() != tt.want {
			t.Errorf("matchLanguage(%q) = %s, want %s", tt.lang, got, tt.want)
		}
	}
}
