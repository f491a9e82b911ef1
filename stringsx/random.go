package stringsx

import (
	"crypto/rand"
	"math/big"
)

const alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Random returns a random alphanumeric string of the given length.
// It panics if the system random source fails.
func Random(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(alphanumerics)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = alphanumerics[n.Int64()]
	}
	return string(b)
}
