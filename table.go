package primemap

// probeAttempts bounds every probe sequence: the start position plus
// this many quadratic offsets.
const probeAttempts = 25

type slot[K comparable, V comparable] struct {
	key   K
	value V
	hash  int32 // raw key hash, kept so a rehash never calls the hasher
	used  bool
}

// fixedTable is one generation of the slot array. It never changes
// length; growing builds a new fixedTable.
type fixedTable[K comparable, V comparable] struct {
	slots []slot[K, V]

	// q is the probe modulus: the largest odd prime <= len(slots).
	q int
}

func newFixedTable[K comparable, V comparable](capacity int) *fixedTable[K, V] {
	return &fixedTable[K, V]{
		slots: make([]slot[K, V], capacity),
		q:     nearestProbeModulus(capacity),
	}
}

// probe returns the k-th candidate index of the sequence starting at i0:
//
//	offset(0) = i0
//	offset(k) = (i0 + k*k) mod q + 1
//
// An offset landing one past the end, which happens only when the
// slot count is itself prime, wraps to 0.
func (t *fixedTable[K, V]) probe(i0, k int) int {
	if k == 0 {
		return i0
	}
	idx := int((uint64(i0)+uint64(k*k))%uint64(t.q)) + 1
	if idx == len(t.slots) {
		idx = 0
	}
	return idx
}

// find walks the probe sequence for key starting at i0.
// Empty slots do not end the walk; only a match or the step cap does.
func (t *fixedTable[K, V]) find(key K, i0 int) (int, bool) {
	for k := 0; k <= probeAttempts; k++ {
		idx := t.probe(i0, k)
		s := &t.slots[idx]
		if s.used && s.key == key {
			return idx, true
		}
	}
	return 0, false
}

// place returns the first empty slot along the probe sequence starting at i0.
// It does not modify the table.
func (t *fixedTable[K, V]) place(i0 int) (int, error) {
	for k := 0; k <= probeAttempts; k++ {
		idx := t.probe(i0, k)
		if !t.slots[idx].used {
			return idx, nil
		}
	}
	return 0, errCantFit
}

func (t *fixedTable[K, V]) put(idx int, key K, value V, hash int32) {
	t.slots[idx] = slot[K, V]{key: key, value: value, hash: hash, used: true}
}

// rehashFrom re-places every used slot of old into t, deriving indexes
// from the stored hashes. It reports errCantFit if some entry has no room,
// in which case t should be discarded.
func (t *fixedTable[K, V]) rehashFrom(old *fixedTable[K, V]) error {
	for i := range old.slots {
		s := &old.slots[i]
		if !s.used {
			continue
		}
		idx, err := t.place(slotIndex(s.hash, len(t.slots)))
		if err != nil {
			return err
		}
		t.slots[idx] = *s
	}
	return nil
}

func (t *fixedTable[K, V]) clear() {
	clear(t.slots)
}
