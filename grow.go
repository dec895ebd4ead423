package primemap

import (
	"fmt"
	"math"
)

// needsGrow is the load trigger. occupied/capacity is an integer division,
// so the ratio is 0 until the count reaches the capacity and the load factor
// only matters once occupied >= capacity. Growth in practice comes from
// probe exhaustion forcing a grow.
func needsGrow(occupied, capacity int, loadFactor float64) bool {
	return float64(occupied/capacity) > loadFactor
}

// nextCapacity returns capacity*multiplier rounded up to an even number,
// clamped to limit.
func nextCapacity(capacity int, multiplier float64, limit int) int {
	f := math.Ceil(float64(capacity) * multiplier)
	if f >= float64(limit) {
		return limit
	}
	n := int(f)
	if n%2 == 1 {
		n++
	}
	if n > limit {
		n = limit
	}
	return n
}

// maybeGrow grows the table when forced or when the load trigger fires.
// Must be called with the exclusive lock held.
func (m *Map[K, V]) maybeGrow(force bool) error {
	if !force && !needsGrow(m.occupied, len(m.current.slots), m.loadFactor) {
		return nil
	}
	return m.grow(force)
}

// grow replaces the current table with a larger one. If an entry cannot be
// re-placed in the new table, it keeps growing before committing anything,
// so on ErrMapFilled the current table is untouched.
func (m *Map[K, V]) grow(forced bool) error {
	capacity := len(m.current.slots)
	for {
		if capacity >= m.maxCapacity {
			if debug {
				fmt.Println("grow: map is filled at capacity", capacity)
			}
			return ErrMapFilled
		}
		capacity = nextCapacity(capacity, m.multiplier, m.maxCapacity)

		t := newFixedTable[K, V](capacity)
		if err := t.rehashFrom(m.current); err != nil {
			if debug {
				fmt.Println("grow: rehash does not fit at capacity", capacity)
			}
			m.exhaustions++
			continue
		}

		if debug {
			fmt.Println("grow: from", len(m.current.slots), "to", capacity, "q", t.q, "forced", forced)
		}
		m.current = t
		m.grows++
		if forced {
			m.forcedGrows++
		}
		return nil
	}
}
