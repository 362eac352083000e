package quiz

import "math/rand/v2"

// Rand is a uniform random source. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Shuffle returns a uniformly random permutation of in using Fisher-Yates.
// The input slice is never modified. A nil r uses the global source.
func Shuffle[T any](in []T, r Rand) []T {
	out := make([]T, len(in))
	copy(out, in)

	intN := rand.IntN
	if r != nil {
		intN = r.IntN
	}
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample returns up to n elements of in, drawn uniformly without replacement.
func Sample[T any](in []T, n int, r Rand) []T {
	shuffled := Shuffle(in, r)
	if n <= 0 || n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
