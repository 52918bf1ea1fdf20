package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	pattern := regexp.MustCompile(`^TK[0-9]{2}[0-9A-Z]{9}$`)

	id, err := UniqueIDSvc.GenerateID("TK")
	require.NoError(t, err)
	assert.Len(t, id, 13)
	assert.Regexp(t, pattern, id)
}

func TestGenerateIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := GenerateUniqueID("ST")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
