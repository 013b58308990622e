package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Travel", "travel"},
		{"Cooking Tips", "cooking-tips"},
		{"  spaced   out  ", "spaced-out"},
		{"C++ & Go!", "c-go"},
		{"2026 Plans", "2026-plans"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
