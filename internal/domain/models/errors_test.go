package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoreErrorIsMatchesByCode(t *testing.T) {
	err := InvalidTimeFormatf("time", "bad clock %q", "25:00")
	wrapped := fmt.Errorf("resolve: %w", err)

	assert.True(t, errors.Is(wrapped, ErrInvalidTimeFormat))
	assert.False(t, errors.Is(wrapped, ErrMissingTimeInput))
	assert.Equal(t, CodeInvalidTimeFormat, CodeOf(wrapped))
	assert.Equal(t, `bad clock "25:00"`, err.Error())
}

func TestCoreErrorUnwrap(t *testing.T) {
	cause := errors.New("unknown time zone Mars/Olympus")
	err := NewCoreError(CodeMissingTimezoneInput, "tz", "timezone cannot be resolved").WithError(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrMissingTimezoneInput)
	assert.Equal(t, "timezone cannot be resolved: unknown time zone Mars/Olympus", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestWithParam(t *testing.T) {
	err := NewCoreError(CodeDegenerateCuspData, "cusps", "unexpected cusp count").WithParam("count", 7)
	assert.Equal(t, 7, err.Params["count"])
}
