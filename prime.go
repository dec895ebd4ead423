package primemap

import (
	"math"
	"math/bits"

	"golang.org/x/exp/rand"
)

// isPrime runs a Miller-Rabin test with ceil(log2(n)) rounds.
// A composite n is reported prime with small probability; a prime n
// is never reported composite.
func isPrime(n int64) bool {
	switch {
	case n == 1 || n == 2 || n == 3:
		return true
	case n < 2 || n%2 == 0:
		return false
	}

	rounds := int(math.Ceil(math.Log2(float64(n))))

	// n-1 = 2^s * t, t odd
	t, s := uint64(n-1), 0
	for t%2 == 0 {
		t /= 2
		s++
	}

	un := uint64(n)
	for round := 0; round < rounds; round++ {
		// a in [2, n-2]
		a := uint64(2 + rand.Int63n(n-3))
		if !millerRabinRound(a, t, s, un) {
			return false
		}
	}
	return true
}

// millerRabinRound reports whether base a fails to witness that n is composite.
func millerRabinRound(a, t uint64, s int, n uint64) bool {
	x := powMod(a, t, n)
	if x == 1 || x == n-1 {
		return true
	}
	for r := 1; r < s; r++ {
		x = mulMod(x, x, n)
		if x == n-1 {
			return true
		}
		if x == 1 {
			return false
		}
	}
	return false
}

func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

func powMod(base, exp, m uint64) uint64 {
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, m)
		}
		base = mulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// nearestProbeModulus returns the largest odd number <= n that passes isPrime.
func nearestProbeModulus(n int) int {
	check := n - (n-1)%2
	for !isPrime(int64(check)) {
		check -= 2
	}
	return check
}
