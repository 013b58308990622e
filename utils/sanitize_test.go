package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScripts(t *testing.T) {
	assert.Equal(t, "hello", Sanitize(`<script>alert(1)</script>hello`))
	assert.Equal(t, "plain text", Sanitize("plain text"))
	assert.NotContains(t, Sanitize(`<img src=x onerror=alert(1)>`), "onerror")
}
