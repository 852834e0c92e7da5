// Package token generates short random identifiers used to name uploaded
// blobs. Collisions are possible but not detected; the keyspace is large
// enough for the expected upload volume.
package token

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a string of n characters drawn uniformly from the
// lowercase alphanumeric alphabet.
func Generate(n int) string {
	result := make([]byte, n)
	for i := range result {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			panic(err)
		}
		result[i] = alphabet[idx.Int64()]
	}
	return string(result)
}
