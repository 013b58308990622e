package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePage(t *testing.T) {
	cases := []struct {
		raw        string
		totalPages int
		want       int
	}{
		{"", 5, 1},
		{"1", 5, 1},
		{"3", 5, 3},
		{"5", 5, 5},
		{"6", 5, 5},
		{"999", 5, 5},
		{"0", 5, 5},
		{"-2", 5, 5},
		{"abc", 5, 5},
		{" 2 ", 5, 2},
		{"", 1, 1},
		{"abc", 1, 1},
	}
	for _, tc := range cases {
		got := resolvePage(tc.raw, tc.totalPages)
		assert.Equal(t, tc.want, got, "raw=%q totalPages=%d", tc.raw, tc.totalPages)
	}
}
