package microsite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	s, ok := normalizeSlug("  the-midnight-strings ")
	assert.True(t, ok)
	assert.Equal(t, "the-midnight-strings", s)

	s, ok = normalizeSlug("DJ-Nova-2")
	assert.True(t, ok)
	assert.Equal(t, "dj-nova-2", s)

	for _, bad := range []string{"", "has space", "../etc", "trailing-", "_lead"} {
		_, ok := normalizeSlug(bad)
		assert.False(t, ok, bad)
	}
}
