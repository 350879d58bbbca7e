package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(KindInvalidInput, "invalid YouTube URL"))

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestCommandErrorMessageCarriesOutput(t *testing.T) {
	err := CommandError(KindTranscode, "ffmpeg -i a.m4a", "boom", errors.New("exit status 1"))

	assert.Contains(t, err.Error(), "Command failed: ffmpeg -i a.m4a")
	assert.Contains(t, err.Error(), "Output: boom")
	assert.ErrorIs(t, err, ErrTranscode)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" finance ")
	assert.True(t, ok)
	assert.Equal(t, CategoryFinance, c)
	assert.True(t, c.RequiresTicker())

	c, ok = ParseCategory("AI")
	assert.True(t, ok)
	assert.False(t, c.RequiresTicker())

	_, ok = ParseCategory("Cooking")
	assert.False(t, ok)
}
