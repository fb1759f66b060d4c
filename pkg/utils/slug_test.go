package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Backlog", "backlog"},
		{"spaces", "In Progress", "in-progress"},
		{"extra whitespace", "  Code   Review  ", "code-review"},
		{"punctuation", "Q&A / Review!", "q-a-review"},
		{"digits", "Phase 2", "phase-2"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}
