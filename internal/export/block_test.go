package export

import (
	"reflect"
	"testing"
)

func TestParseSpans(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Span
	}{
		{
			name: "no markup",
			text: "plain text",
			want: []Span{{Text: "plain text"}},
		},
		{
			name: "bold run in the middle",
			text: "a **b** c",
			want: []Span{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}},
		},
		{
			name: "bold at the start",
			text: "**lead** rest",
			want: []Span{{Text: "lead", Bold: true}, {Text: " rest"}},
		},
		{
			name: "multiple bold runs",
			text: "**a** and **b**",
			want: []Span{{Text: "a", Bold: true}, {Text: " and "}, {Text: "b", Bold: true}},
		},
		{
			name: "unbalanced marker stays literal",
			text: "score **9 of 10",
			want: []Span{{Text: "score **9 of 10"}},
		},
		{
			name: "empty bold run is dropped",
			text: "a****b",
			want: []Span{{Text: "a"}, {Text: "b"}},
		},
		{
			name: "empty input yields one empty span",
			text: "",
			want: []Span{{Text: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSpans(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSpans(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBlockText(t *testing.T) {
	b := &Block{Lines: []Line{
		{Spans: ParseSpans("first **line**")},
		{Spans: []Span{{Text: "second"}}},
	}}
	if got := b.Text(); got != "first line\nsecond" {
		t.Errorf("Text() = %q", got)
	}
}
