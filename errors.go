package lowhash

import "errors"

var (
	// ErrMissingHashFunc is returned by New when no hash function is given.
	ErrMissingHashFunc = errors.New("lowhash: hash function required")
	// ErrMissingEqualFunc is returned by New when no equality function is given.
	ErrMissingEqualFunc = errors.New("lowhash: equality function required")
	// ErrInvalidCapacity is returned by New for a negative initial capacity.
	ErrInvalidCapacity = errors.New("lowhash: invalid initial capacity")
	// ErrCapacityExceeded reports a bucket array larger than the configured ceiling.
	ErrCapacityExceeded = errors.New("lowhash: bucket capacity exceeded")
	// ErrInvalidConfig wraps every option validation failure.
	ErrInvalidConfig = errors.New("lowhash: invalid config")
	// ErrNilTable is returned when a mutation is attempted on a nil *Table.
	ErrNilTable = errors.New("lowhash: nil table")
	// ErrDestroyed is returned when a destroyed table is mutated or destroyed again.
	ErrDestroyed = errors.New("lowhash: table destroyed")
)
