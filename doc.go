/*
Package primemap provides a concurrent open-addressing hash map whose probe
sequences are bounded by a prime modulus.

Basic usage:

	m := primemap.New[int, string](140,
		primemap.WithLoadFactor(0.5),
		primemap.WithMultiplier(3))

	if err := m.Put(42, "answer"); err != nil {
		log.Fatal(err)
	}
	v, ok := m.Get(42)

	for k, v := range m.All() {
		fmt.Println(k, v)
	}

Implementation Details:

Entries live directly in a slot array. A key's hash is folded into
[0, MaxInt32), mixed, and reduced modulo the slot count to give a start
index i0. The probe sequence is i0 followed by (i0 + k*k) mod q + 1 for
k = 1 to 25, where q is the largest odd number not above the slot count that
passes a Miller-Rabin test. Lookups follow the sequence across empty slots
and stop only at a match or at the step cap.

When Put finds no empty slot along its sequence, the map grows by the
configured multiplier (at least 2), rehashes every entry into the new array
under a new q, and tries again. Growth stops at MaxCapacity, where Put
returns ErrMapFilled.

Put never updates an existing entry in place and Remove does not decrement
Size; see the method docs.

A single reader/writer lock guards the map. Iteration copies the entries
under the lock and yields from the copy after releasing it.
*/
package primemap
