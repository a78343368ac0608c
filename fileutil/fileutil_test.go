package fileutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.senan.xyz/tagorg/fileutil"
)

func TestSafePart(t *testing.T) {
	assert.Equal(t, "hello", fileutil.SafePart("hello"))
	assert.Equal(t, "hello", fileutil.SafePart("  hello "))
	assert.Equal(t, "helloa", fileutil.SafePart("hello/a"))
	assert.Equal(t, "ACDC", fileutil.SafePart(`AC/DC`))
	assert.Equal(t, "hello", fileutil.SafePart("hel\x00lo"))
	assert.Equal(t, "what why", fileutil.SafePart(`what? why*`))
	assert.Equal(t, "(2004) Kesto (234.484)", fileutil.SafePart("(2004) Kesto (234.48:4)"))
	assert.Equal(t, "a  b", fileutil.SafePart(`a <|>"\ b`))
	assert.Equal(t, "...", fileutil.SafePart("..."))
}

func TestSafePartDots(t *testing.T) {
	assert.Equal(t, "hello", fileutil.SafePartDots("hello"))
	assert.Equal(t, "_hidden", fileutil.SafePartDots(".hidden"))
	assert.Equal(t, "trailing_", fileutil.SafePartDots("trailing."))
	assert.Equal(t, "_._", fileutil.SafePartDots("..."))
	assert.Equal(t, "mid.dle", fileutil.SafePartDots("mid.dle"))
}
