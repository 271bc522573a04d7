package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 1000; i++ {
		code, err := RandomCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, r), "unexpected character %q in %s", r, code)
		}

		seen[code] = true
	}

	// 36^6 possibilities, a handful of collisions in 1000 draws would be suspicious
	assert.Greater(t, len(seen), 990)
}

func TestRandomCodeLength(t *testing.T) {
	for _, n := range []int{0, 1, 12} {
		code, err := RandomCode(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
	}
}
