package fallback

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsRefusal(t *testing.T) {
	for _, text := range []string{
		"I can't help with identifying people.",
		"I CANNOT describe this image",
		"Sorry, but I won't do that",
		"I'm not able to analyze this",
	} {
		assert.True(t, ContainsRefusal(text), text)
	}
	assert.False(t, ContainsRefusal("2 people: a woman in a red coat and a man with a beard"))
}

func TestSafeInt(t *testing.T) {
	assert.Equal(t, 3, SafeInt(float64(3), 0))
	assert.Equal(t, 2, SafeInt("2", 0))
	assert.Equal(t, 4, SafeInt(json.Number("4"), 0))
	assert.Equal(t, 0, SafeInt("many", 0))
	assert.Equal(t, 0, SafeInt(float64(-1), 0))
	assert.Equal(t, 7, SafeInt(nil, 7))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "x", SafeString("  x ", "d"))
	assert.Equal(t, "d", SafeString("   ", "d"))
	assert.Equal(t, "d", SafeString(12, "d"))
}
