package primemap

import (
	"fmt"
	"iter"
	"sync/atomic"
)

// maxPutRetries bounds the forced grows a single Put may trigger.
// Doubling from DefaultCapacity reaches MaxCapacity well within it.
const maxPutRetries = 64

// Map is an open-addressing hash map safe for concurrent use.
// Reads share one reader/writer lock; writes hold it exclusively.
type Map[K comparable, V comparable] struct {
	guard rwGuard

	current    *fixedTable[K, V]
	occupied   int
	loadFactor float64
	multiplier float64
	hashFunc   func(K) int32

	// maxCapacity is MaxCapacity outside of tests.
	maxCapacity int

	// stats
	grows       uint64
	forcedGrows uint64
	exhaustions uint64
	lookups     atomic.Uint64
	misses      atomic.Uint64
}

// New returns a Map with at least DefaultCapacity slots.
func New[K comparable, V comparable](capacity int, opts ...Option) *Map[K, V] {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	if capacity < DefaultCapacity {
		capacity = DefaultCapacity
	}
	if capacity > MaxCapacity {
		capacity = MaxCapacity
	}

	if debug {
		fmt.Println("new: capacity", capacity, "load factor", cfg.loadFactor, "multiplier", cfg.multiplier)
	}
	return &Map[K, V]{
		current:     newFixedTable[K, V](capacity),
		loadFactor:  cfg.loadFactor,
		multiplier:  cfg.multiplier,
		hashFunc:    hasherFor[K](&cfg),
		maxCapacity: MaxCapacity,
	}
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (v V, ok bool) {
	tok := m.guard.shared()
	defer tok.release()

	m.lookups.Add(1)
	idx, ok := m.lookup(key)
	if !ok {
		m.misses.Add(1)
		return v, false
	}
	return m.current.slots[idx].value, true
}

// ContainsKey reports whether key is stored.
func (m *Map[K, V]) ContainsKey(key K) bool {
	tok := m.guard.shared()
	defer tok.release()

	m.lookups.Add(1)
	_, ok := m.lookup(key)
	if !ok {
		m.misses.Add(1)
	}
	return ok
}

// ContainsValue reports whether any stored value equals value.
// A nil value is never reported as contained.
func (m *Map[K, V]) ContainsValue(value V) bool {
	tok := m.guard.shared()
	defer tok.release()

	if isNil(value) {
		return false
	}
	for i := range m.current.slots {
		s := &m.current.slots[i]
		if s.used && s.value == value {
			return true
		}
	}
	return false
}

// Put stores value for key. It does not look for an existing entry first:
// putting a key that is already stored adds a second entry and counts it,
// and lookups keep returning whichever entry comes first in the key's
// probe sequence. Every entry for one key competes for the same probe
// sequence, so a key stored more than 26 times drives the map to MaxCapacity.
//
// Put returns ErrMapFilled, leaving the map unchanged, if the key cannot be
// placed and the map is already at its maximum capacity.
func (m *Map[K, V]) Put(key K, value V) error {
	tok := m.guard.exclusive()
	defer tok.release()

	return m.put(key, value)
}

// put retries placement after a forced grow whenever the probe sequence
// is exhausted. Must be called with the exclusive lock held.
func (m *Map[K, V]) put(key K, value V) error {
	hash := m.hashFunc(key)
	force := false
	for attempt := 0; attempt < maxPutRetries; attempt++ {
		if err := m.maybeGrow(force); err != nil {
			return err
		}
		idx, err := m.current.place(slotIndex(hash, len(m.current.slots)))
		if err == nil {
			m.current.put(idx, key, value, hash)
			m.occupied++
			return nil
		}
		if debug {
			fmt.Println("put: probe sequence exhausted at capacity", len(m.current.slots), "attempt", attempt)
		}
		m.exhaustions++
		force = true
	}
	return fmt.Errorf("%w: no slot after %d grows", ErrMapFilled, maxPutRetries)
}

// Remove clears the entry for key and returns its value.
// The slot is simply emptied, and Size is not decremented.
func (m *Map[K, V]) Remove(key K) (v V, ok bool) {
	tok := m.guard.exclusive()
	defer tok.release()

	idx, ok := m.lookup(key)
	if !ok {
		return v, false
	}
	v = m.current.slots[idx].value
	m.current.slots[idx] = slot[K, V]{}
	return v, true
}

// Size returns the number of successful Puts since the map was created
// or last cleared.
func (m *Map[K, V]) Size() int {
	tok := m.guard.shared()
	defer tok.release()
	return m.occupied
}

// IsEmpty reports whether Size is zero.
func (m *Map[K, V]) IsEmpty() bool {
	tok := m.guard.shared()
	defer tok.release()
	return m.occupied == 0
}

// Clear empties every slot. The capacity is kept.
func (m *Map[K, V]) Clear() {
	tok := m.guard.exclusive()
	defer tok.release()

	m.current.clear()
	m.occupied = 0
}

// PutAll puts every pair of seq. The pairs are collected before the lock is
// taken, so seq may come from m itself. PutAll stops at the first error.
func (m *Map[K, V]) PutAll(seq iter.Seq2[K, V]) error {
	type kv struct {
		key   K
		value V
	}
	var pairs []kv
	for k, v := range seq {
		pairs = append(pairs, kv{k, v})
	}

	tok := m.guard.exclusive()
	defer tok.release()

	for _, p := range pairs {
		if err := m.put(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// All returns an iterator over the stored pairs. Each iteration takes a
// snapshot under the lock and releases it before yielding, so changes made
// during the loop are not reflected in it.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, s := range m.snapshot() {
			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// Range calls f for each stored pair until f returns false.
// It iterates over a snapshot, like All.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.All()(f)
}

func (m *Map[K, V]) snapshot() []slot[K, V] {
	tok := m.guard.exclusive()
	defer tok.release()

	res := make([]slot[K, V], 0, m.occupied)
	for i := range m.current.slots {
		if m.current.slots[i].used {
			res = append(res, m.current.slots[i])
		}
	}
	return res
}

// Keys returns the stored keys in slot order.
func (m *Map[K, V]) Keys() []K {
	tok := m.guard.shared()
	defer tok.release()

	var keys []K
	for i := range m.current.slots {
		if m.current.slots[i].used {
			keys = append(keys, m.current.slots[i].key)
		}
	}
	return keys
}

// Values returns the stored values in slot order.
func (m *Map[K, V]) Values() []V {
	tok := m.guard.shared()
	defer tok.release()

	var values []V
	for i := range m.current.slots {
		if m.current.slots[i].used {
			values = append(values, m.current.slots[i].value)
		}
	}
	return values
}

// Cap returns the current number of slots.
func (m *Map[K, V]) Cap() int {
	tok := m.guard.shared()
	defer tok.release()
	return len(m.current.slots)
}

// lookup must be called with the lock held.
func (m *Map[K, V]) lookup(key K) (int, bool) {
	return m.current.find(key, slotIndex(m.hashFunc(key), len(m.current.slots)))
}

const debug = false
