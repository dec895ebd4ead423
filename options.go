package primemap

import (
	"fmt"
	"hash/maphash"
)

const (
	// DefaultCapacity is the minimum and default slot count.
	DefaultCapacity = 16

	// DefaultLoadFactor is used unless a load factor in (0, 1] is configured.
	DefaultLoadFactor = 0.5

	// DefaultMultiplier is used unless a growth multiplier above 2.0 is configured.
	DefaultMultiplier = 2.0

	// MaxCapacity is the largest slot count a Map grows to.
	MaxCapacity = 1<<31 - 1
)

// Config holds the tunables applied by New.
// Out-of-range values are replaced by defaults rather than rejected.
type Config struct {
	loadFactor float64
	multiplier float64
	keyHash    any // func(K) int32, checked in New
}

// Option configures a Map.
type Option func(*Config)

// WithLoadFactor sets the occupancy ratio that triggers growth.
// Values outside (0, 1] fall back to DefaultLoadFactor.
func WithLoadFactor(f float64) Option {
	return func(c *Config) {
		c.loadFactor = f
	}
}

// WithMultiplier sets how much the slot array grows on each resize.
// Values not above 2.0 fall back to DefaultMultiplier.
func WithMultiplier(f float64) Option {
	return func(c *Config) {
		c.multiplier = f
	}
}

// WithKeyHasher replaces the default key hasher. The hash of a key must
// not change while the key is stored. K must match the Map's key type.
func WithKeyHasher[K comparable](hash func(K) int32) Option {
	return func(c *Config) {
		c.keyHash = hash
	}
}

func (c *Config) normalize() {
	if !(c.loadFactor > 0 && c.loadFactor <= 1) {
		c.loadFactor = DefaultLoadFactor
	}
	if !(c.multiplier > DefaultMultiplier) {
		c.multiplier = DefaultMultiplier
	}
}

func hasherFor[K comparable](c *Config) func(K) int32 {
	if c.keyHash == nil {
		return defaultHasher[K](maphash.MakeSeed())
	}
	h, ok := c.keyHash.(func(K) int32)
	if !ok {
		var k K
		panic(fmt.Sprintf("primemap: key hasher %T does not match key type %T", c.keyHash, k))
	}
	return h
}
