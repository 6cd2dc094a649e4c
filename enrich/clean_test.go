package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "quoted span wins",
			raw:  `Based on the provided context, the title is: "Quantum Widgets"`,
			want: "Quantum Widgets",
		},
		{
			name: "short quoted span ignored",
			raw:  `The "ad" campaign report`,
			want: `The "ad" campaign report`,
		},
		{
			name: "title marker",
			raw:  "Title: Annual Review 2025",
			want: "Annual Review 2025",
		},
		{
			name: "title marker case insensitive",
			raw:  "TITLE: Shipping Manifest",
			want: "Shipping Manifest",
		},
		{
			name: "title marker stops at line end",
			raw:  "title: Quarterly Report\nLet me know if you need more.",
			want: "Quarterly Report",
		},
		{
			name: "boilerplate prefix stripped",
			raw:  "Based on the provided context, the title of the document could be: Deep Sea Mining",
			want: "Deep Sea Mining",
		},
		{
			name: "chatty multiline picks first reasonable line",
			raw:  "I would suggest the following.\nDeep Learning Primer\nIt captures the theme well.",
			want: "Deep Learning Primer",
		},
		{
			name: "plain title passes through",
			raw:  "Migration Guide",
			want: "Migration Guide",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "whitespace only",
			raw:  "  \n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.raw))
		})
	}
}

func TestCleanKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "label and empties",
			raw:  "Keywords: alpha, beta , , gamma",
			want: []string{"alpha", "beta", "gamma"},
		},
		{
			name: "no label",
			raw:  "storage, retrieval, indexing",
			want: []string{"storage", "retrieval", "indexing"},
		},
		{
			name: "label case insensitive",
			raw:  "KEYWORDS: one",
			want: []string{"one"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "only label",
			raw:  "Keywords:",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanKeywords(tt.raw))
		})
	}
}

func TestCleanQuestions(t *testing.T) {
	tests := []struct {
		name  string
		value any
		count int
		want  []string
	}{
		{
			name:  "json array string",
			value: `["What is X?", "What is Y?"]`,
			count: 5,
			want:  []string{"What is X?", "What is Y?"},
		},
		{
			name:  "all lines numbered, markers stripped",
			value: "1. What is X?\n2. What is Y?",
			count: 5,
			want:  []string{"What is X?", "What is Y?"},
		},
		{
			name:  "mixed marking keeps lines as-is, drops bare markers",
			value: "What is X?\n2.\nWhat is Y?",
			count: 5,
			want:  []string{"What is X?", "What is Y?"},
		},
		{
			name:  "paren markers",
			value: "1) First question?\n2) Second question?",
			count: 5,
			want:  []string{"First question?", "Second question?"},
		},
		{
			name:  "native string list",
			value: []string{" What is X? ", "", "What is Y?"},
			count: 5,
			want:  []string{"What is X?", "What is Y?"},
		},
		{
			name:  "any list coerced",
			value: []any{"What is X?", "What is Y?"},
			count: 5,
			want:  []string{"What is X?", "What is Y?"},
		},
		{
			name:  "capped to count",
			value: "A?\nB?\nC?",
			count: 2,
			want:  []string{"A?", "B?"},
		},
		{
			name:  "nil value",
			value: nil,
			count: 3,
			want:  nil,
		},
		{
			name:  "empty string",
			value: "   ",
			count: 3,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanQuestions(tt.value, tt.count))
		})
	}
}

func TestNormalizeQuestionKey(t *testing.T) {
	meta := map[string]any{"Generated Questions": []string{"Q1?"}}
	value, ok := NormalizeQuestionKey(meta)
	assert.True(t, ok)
	assert.Equal(t, []string{"Q1?"}, value)
	assert.Contains(t, meta, "questions")
	assert.NotContains(t, meta, "Generated Questions")

	// Canonical key wins untouched.
	meta = map[string]any{"questions": "already here"}
	value, ok = NormalizeQuestionKey(meta)
	assert.True(t, ok)
	assert.Equal(t, "already here", value)

	_, ok = NormalizeQuestionKey(map[string]any{"keywords": "x"})
	assert.False(t, ok)
}

func TestStripListMarker(t *testing.T) {
	assert.Equal(t, "What is X?", stripListMarker("12. What is X?"))
	assert.Equal(t, "What is X?", stripListMarker("3) What is X?"))
	assert.Equal(t, "", stripListMarker("1."))
	assert.Equal(t, "no marker here", stripListMarker("no marker here"))
	assert.Equal(t, "3rd place results", stripListMarker("3rd place results"))
}
