package lowhash

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// HashString hashes s with xxhash64.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashBytes hashes b with xxhash64.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashUUID hashes the 16 bytes of u with xxhash64.
func HashUUID(u uuid.UUID) uint64 {
	return xxhash.Sum64(u[:])
}

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// HashFNV1a computes a 64-bit FNV-1a hash of b.
func HashFNV1a(b []byte) uint64 {
	hash := uint64(offset64)
	for _, c := range b {
		hash ^= uint64(c)
		hash *= prime64
	}
	return hash
}

// HashUint64 scrambles an integer key (splitmix64 finalizer) so that
// sequential keys spread across buckets of any count.
func HashUint64(k uint64) uint64 {
	k ^= k >> 30
	k *= 0xbf58476d1ce4e5b9
	k ^= k >> 27
	k *= 0x94d049bb133111eb
	k ^= k >> 31
	return k
}

// Equal is the EqualFunc of a comparable type.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// EqualBytes compares byte slices by content.
func EqualBytes(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// NewString creates a table keyed by strings using HashString.
func NewString[V any](initialCapacity int, opts ...Option) (*Table[string, V], error) {
	return New[string, V](initialCapacity, HashString, Equal[string], opts...)
}

// NewBytes creates a table keyed by byte slices compared by content.
// The table keeps the caller's slices; mutating a stored key breaks lookup.
func NewBytes[V any](initialCapacity int, opts ...Option) (*Table[[]byte, V], error) {
	return New[[]byte, V](initialCapacity, HashBytes, EqualBytes, opts...)
}
