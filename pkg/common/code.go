package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode returns n characters drawn uniformly from CodeAlphabet
func RandomCode(n int) (string, error) {
	max := big.NewInt(int64(len(CodeAlphabet)))

	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}

		b[i] = CodeAlphabet[idx.Int64()]
	}

	return string(b), nil
}
