package primemap

import (
	"hash/maphash"
	"math"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// fold maps a raw hash into [0, MaxInt32).
func fold(raw int32) uint32 {
	return uint32(raw) % math.MaxInt32
}

// slotIndex derives the first probe position for raw in a table of n slots.
func slotIndex(raw int32, n int) int {
	return int(mix(fold(raw)) % uint32(n))
}

func fold64(v uint64) int32 {
	return int32(uint32(v) ^ uint32(v>>32))
}

// defaultHasher picks a hash function for K once, at construction, from
// K's kind, so named types such as `type UserID int64` take the same path
// as their underlying type. Integers hash to their value, strings go
// through xxhash, nil pointers hash to 0, and composite keys use
// maphash.Comparable with seed, which agrees with ==.
func defaultHasher[K comparable](seed maphash.Seed) func(K) int32 {
	switch t := reflect.TypeFor[K](); t.Kind() {
	case reflect.Int8:
		return func(k K) int32 { return int32(*(*int8)(unsafe.Pointer(&k))) }
	case reflect.Int16:
		return func(k K) int32 { return int32(*(*int16)(unsafe.Pointer(&k))) }
	case reflect.Int32:
		return func(k K) int32 { return *(*int32)(unsafe.Pointer(&k)) }
	case reflect.Uint8, reflect.Bool:
		return func(k K) int32 { return int32(*(*uint8)(unsafe.Pointer(&k))) }
	case reflect.Uint16:
		return func(k K) int32 { return int32(*(*uint16)(unsafe.Pointer(&k))) }
	case reflect.Uint32:
		return func(k K) int32 { return int32(*(*uint32)(unsafe.Pointer(&k))) }
	case reflect.Int, reflect.Uint, reflect.Uintptr, reflect.Int64, reflect.Uint64:
		if t.Size() == 4 {
			return func(k K) int32 { return *(*int32)(unsafe.Pointer(&k)) }
		}
		return func(k K) int32 { return fold64(*(*uint64)(unsafe.Pointer(&k))) }
	case reflect.Float32:
		return func(k K) int32 { return hashFloat32(*(*float32)(unsafe.Pointer(&k))) }
	case reflect.Float64:
		return func(k K) int32 { return hashFloat64(*(*float64)(unsafe.Pointer(&k))) }
	case reflect.String:
		return func(k K) int32 { return fold64(xxhash.Sum64String(*(*string)(unsafe.Pointer(&k)))) }
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		// compared by address
		return func(k K) int32 { return fold64(uint64(*(*uintptr)(unsafe.Pointer(&k)))) }
	case reflect.Interface:
		return func(k K) int32 { return hashAny(seed, any(k)) }
	default:
		// structs, arrays and complex numbers
		return func(k K) int32 { return fold64(maphash.Comparable(seed, k)) }
	}
}

// +0 and -0 are equal keys.
func hashFloat32(f float32) int32 {
	if f == 0 {
		return 0
	}
	return int32(math.Float32bits(f))
}

func hashFloat64(f float64) int32 {
	if f == 0 {
		return 0
	}
	return fold64(math.Float64bits(f))
}

// hashAny covers interface-typed keys, whose dynamic type is only known
// per call. A nil key hashes to 0. Equal interface values share a dynamic
// type, so they always take the same branch.
func hashAny(seed maphash.Seed, v any) int32 {
	switch k := v.(type) {
	case nil:
		return 0
	case int8:
		return int32(k)
	case int16:
		return int32(k)
	case int32:
		return k
	case uint8:
		return int32(k)
	case uint16:
		return int32(k)
	case uint32:
		return int32(k)
	case int:
		return fold64(uint64(k))
	case int64:
		return fold64(uint64(k))
	case uint:
		return fold64(uint64(k))
	case uint64:
		return fold64(k)
	case string:
		return fold64(xxhash.Sum64String(k))
	case bool:
		if k {
			return 1
		}
		return 0
	case float32:
		return hashFloat32(k)
	case float64:
		return hashFloat64(k)
	}
	if isNil(v) {
		return 0
	}
	return fold64(maphash.Comparable(seed, v))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
