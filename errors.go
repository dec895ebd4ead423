package primemap

import "errors"

// ErrMapFilled is returned by Put and PutAll when the map cannot grow
// because its slot array is already at the maximum capacity.
// The map is left unchanged.
var ErrMapFilled = errors.New("primemap: map is filled")

// errCantFit reports that every candidate slot along a probe sequence
// is in use at the current capacity. Put recovers from it by growing.
var errCantFit = errors.New("primemap: cannot fit item at this capacity")
