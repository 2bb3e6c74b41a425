package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "astrolabe dev (commit=none, date=unknown)", String())
	assert.Equal(t, "dev", Get().Version)
	assert.NotEmpty(t, Get().GoVersion)
}
