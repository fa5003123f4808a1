package util

import "math/rand"

// Rand is the uniform integer source battle code draws from.
type Rand interface {
	Intn(n int) int
}

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Pick returns a uniformly chosen index in [0, n), or -1 when n is zero.
func Pick(r Rand, n int) int {
	if n <= 0 {
		return -1
	}
	if n == 1 || r == nil {
		return 0
	}
	return r.Intn(n)
}
