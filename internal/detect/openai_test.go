package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Result
	}{
		{
			name: "plain json",
			text: `{"detected":true,"value":17,"confidence":0.85,"neighbors":[10,3,7],"second_most_likely":7}`,
			want: Result{Detected: true, Value: 17, Confidence: 0.85, Neighbors: []int{10, 3, 7}, SecondMostLikely: 7},
		},
		{
			name: "fenced json",
			text: "```json\n{\"detected\":true,\"value\":9,\"confidence\":0.7}\n```",
			want: Result{Detected: true, Value: 9, Confidence: 0.7},
		},
		{
			name: "unsure model",
			text: `{"detected":false,"value":0,"confidence":0.3}`,
			want: Result{Detected: false, Value: 0, Confidence: 0.3},
		},
		{
			name: "value out of range is clamped",
			text: `{"detected":true,"value":25,"confidence":0.9}`,
			want: Result{Detected: false, Value: 0, Confidence: 0.9},
		},
		{
			name: "junk neighbors and second guess sanitized",
			text: `{"detected":true,"value":6,"confidence":0.8,"neighbors":[9,99,16],"second_most_likely":40}`,
			want: Result{Detected: true, Value: 6, Confidence: 0.8, Neighbors: []int{9, 16}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseVerdict(tc.text))
		})
	}
}

func TestParseVerdictFailures(t *testing.T) {
	for _, text := range []string{"", "   ", "```\n```", "the die shows a 17"} {
		res := parseVerdict(text)
		assert.False(t, res.Detected, "input %q", text)
		assert.Zero(t, res.Value, "input %q", text)
		assert.NotEmpty(t, res.Error, "input %q", text)
	}
}
