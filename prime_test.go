package primemap

import (
	"fmt"
	"testing"
)

func TestIsPrime(t *testing.T) {
	tests := []struct {
		name string
		n    []int64
		want bool
	}{
		{"small primes", []int64{1, 2, 3, 5, 7, 13}, true},
		{"medium primes", []int64{45137, 46147, 60373}, true},
		{"large primes", []int64{1046527, 1073676287, 2147483647}, true},
		{"small composites", []int64{4, 15, 21}, false},
		{"medium composites", []int64{221, 421321, 781323}, false},
		{"large composites", []int64{2114782963, 1114781963}, false},
		{"not positive", []int64{0, -1, -7}, false},
		{"carmichael", []int64{561, 1105, 1729}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, n := range tt.n {
				if got := isPrime(n); got != tt.want {
					t.Errorf("isPrime(%d) = %v, want %v", n, got, tt.want)
				}
			}
		})
	}
}

func TestPowMod(t *testing.T) {
	tests := []struct {
		base, exp, m uint64
		want         uint64
	}{
		{2, 10, 1000, 24},
		{3, 0, 7, 1},
		{7, 1, 5, 2},
		// Fermat's little theorem for the Mersenne prime 2^61-1 needs 128-bit products.
		{3, 1<<61 - 2, 1<<61 - 1, 1},
		{1<<62 + 1, 1, 1<<61 - 1, (1<<62 + 1) % (1<<61 - 1)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d^%d mod %d", tt.base, tt.exp, tt.m), func(t *testing.T) {
			if got := powMod(tt.base, tt.exp, tt.m); got != tt.want {
				t.Errorf("powMod() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNearestProbeModulus(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{16, 13},
		{17, 17},
		{32, 31},
		{64, 61},
		{128, 127},
		{140, 139},
		{256, 251},
		{280, 277},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n %d", tt.n), func(t *testing.T) {
			if got := nearestProbeModulus(tt.n); got != tt.want {
				t.Errorf("nearestProbeModulus(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func BenchmarkIsPrime(b *testing.B) {
	for i := 0; i < b.N; i++ {
		isPrime(1073676287)
	}
}
