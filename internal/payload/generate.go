package payload

import (
	"math/rand/v2"
	"strings"
)

// Alphabet is the set of characters used for generated payloads (mixed letters and digits)
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random alphanumeric string of the given length.
//
// The result is not deterministic - each call draws from the runtime seeded source.
// A negative length is treated as zero.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(length)
	for range length {
		sb.WriteByte(Alphabet[rand.IntN(len(Alphabet))])
	}
	return sb.String()
}
