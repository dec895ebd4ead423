//go:build !amd64

package primemap

// mix spreads the bits of a folded hash before it is reduced to a slot index.
func mix(h uint32) uint32 {
	h ^= (h >> 20) ^ (h >> 12)
	return h ^ (h >> 7) ^ (h >> 4)
}
