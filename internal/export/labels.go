package export

import (
	"golang.org/x/text/language"

	"hirescan/internal/types"
)

var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.Chinese,
})

var kindLabels = map[language.Tag]map[types.DocumentKind]string{
	language.English: {
		types.KindReport: "Evaluation",
		types.KindGuide:  "InterviewGuide",
	},
	language.Chinese: {
		types.KindReport: "测评报告",
		types.KindGuide:  "面试指南",
	},
}

// reportLabels holds the fixed label text of a report body in one
// language. Format strings keep their verbs.
type reportLabels struct {
	summary    string
	risks      string
	scorecard  string
	age        string
	totalScore string
	criteria   string
	highlight  string
}

var reportLabelSets = map[language.Tag]reportLabels{
	language.English: {
		summary:    "Executive Summary",
		risks:      "Risks",
		scorecard:  "Scorecard",
		age:        "Age %d",
		totalScore: "Total Score %d",
		criteria:   "Criteria: ",
		highlight:  "Highlight: ",
	},
	language.Chinese: {
		summary:    "综合评价",
		risks:      "风险提示",
		scorecard:  "评分明细",
		age:        "年龄 %d",
		totalScore: "总分 %d",
		criteria:   "评分标准：",
		highlight:  "亮点：",
	},
}

// reportLabelsFor resolves the body labels for a requested language
func reportLabelsFor(lang string) reportLabels {
	return reportLabelSets[matchLanguage(lang)]
}

// chromeLabels are drawn directly into the PDF header, outside the
// rasterized content area. The built-in PDF fonts only cover Latin-1,
// so these stay ASCII for every language.
var chromeLabels = map[types.DocumentKind]string{
	types.KindReport: "Candidate Evaluation",
	types.KindGuide:  "Interview Guide",
}

// matchLanguage resolves a BCP 47 tag from the request, falling back to
// English for anything unknown or empty.
func matchLanguage(lang string) language.Tag {
	if lang == "" {
		return language.English
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, idx, _ := supportedLanguages.Match(tag)
	switch idx {
	case 1:
		return language.Chinese
	default:
		return language.English
	}
}

// kindLabel is the localized document-kind token used in file names
func kindLabel(kind types.DocumentKind, lang string) string {
	labels := kindLabels[matchLanguage(lang)]
	if l, ok := labels[kind]; ok {
		return l
	}
	return kindLabels[language.English][types.KindReport]
}

// chromeLabel is the header text for a document kind, always Latin-1 safe
func chromeLabel(kind types.DocumentKind) string {
	if l, ok := chromeLabels[kind]; ok {
		return l
	}
	return chromeLabels[types.KindReport]
}
