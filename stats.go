package primemap

// Stats is a point-in-time view of a Map's table and counters.
type Stats struct {
	Capacity     int
	ProbeModulus int
	Occupied     int

	Grows       uint64 // completed resizes
	ForcedGrows uint64 // resizes caused by an exhausted probe sequence
	Exhaustions uint64 // probe sequences that found no empty slot
	Lookups     uint64 // Get and ContainsKey calls
	Misses      uint64 // lookups that found nothing
}

// Stats returns the current statistics.
func (m *Map[K, V]) Stats() Stats {
	tok := m.guard.shared()
	defer tok.release()

	return Stats{
		Capacity:     len(m.current.slots),
		ProbeModulus: m.current.q,
		Occupied:     m.occupied,
		Grows:        m.grows,
		ForcedGrows:  m.forcedGrows,
		Exhaustions:  m.exhaustions,
		Lookups:      m.lookups.Load(),
		Misses:       m.misses.Load(),
	}
}
