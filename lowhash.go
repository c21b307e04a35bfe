package lowhash

import (
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// HashFunc maps a key to a hash code. It must be deterministic, and keys
// that compare equal must hash identically.
type HashFunc[K any] func(key K) uint64

// EqualFunc reports whether two keys are the same key. It must be an
// equivalence relation.
type EqualFunc[K any] func(a, b K) bool

// entry is one node of a bucket chain. The cached hash is what resize
// redistributes by, so the hash function is never called again for a
// stored key.
type entry[K, V any] struct {
	key   K
	value V
	hash  uint64
	next  *entry[K, V]
}

// Table is a hash table with separate chaining. Keys and values are stored
// as given; the table never copies or releases what they refer to.
//
// A Table is not safe for concurrent use. Callers sharing a Table between
// goroutines must synchronize every call themselves.
type Table[K, V any] struct {
	buckets    []*entry[K, V]
	count      int
	minBuckets int

	hash  HashFunc[K]
	equal EqualFunc[K]

	cfg    Config
	logger *zap.Logger

	resizes       uint64
	shrinks       uint64
	failedResizes uint64

	destroyed bool
}

// New creates a table with initialCapacity buckets, or DefaultCapacity
// when initialCapacity is zero. Both hash and equal are required.
func New[K, V any](initialCapacity int, hash HashFunc[K], equal EqualFunc[K], opts ...Option) (*Table[K, V], error) {
	if hash == nil {
		return nil, ErrMissingHashFunc
	}
	if equal == nil {
		return nil, ErrMissingEqualFunc
	}
	if initialCapacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, initialCapacity)
	}
	if initialCapacity == 0 {
		initialCapacity = DefaultCapacity
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	buckets, err := allocBuckets[K, V](initialCapacity, cfg.MaxBuckets)
	if err != nil {
		return nil, err
	}

	return &Table[K, V]{
		buckets:    buckets,
		minBuckets: initialCapacity,
		hash:       hash,
		equal:      equal,
		cfg:        cfg,
		logger:     cfg.Logger,
	}, nil
}

// live reports whether t can be read or mutated.
func (t *Table[K, V]) live() bool {
	return t != nil && !t.destroyed
}

func (t *Table[K, V]) index(h uint64) int {
	return int(h % uint64(len(t.buckets)))
}

func (t *Table[K, V]) find(key K) *entry[K, V] {
	h := t.hash(key)
	for e := t.buckets[t.index(h)]; e != nil; e = e.next {
		if e.hash == h && t.equal(e.key, key) {
			return e
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (t *Table[K, V]) Len() int {
	if !t.live() {
		return 0
	}
	return t.count
}

// BucketCount returns the length of the bucket array. It is zero only for
// a nil or destroyed table.
func (t *Table[K, V]) BucketCount() int {
	if !t.live() {
		return 0
	}
	return len(t.buckets)
}

// LoadFactor returns Len / BucketCount.
func (t *Table[K, V]) LoadFactor() float64 {
	if !t.live() {
		return 0
	}
	return float64(t.count) / float64(len(t.buckets))
}

// IsEmpty reports whether the table holds no entries. Nil and destroyed
// tables are empty.
func (t *Table[K, V]) IsEmpty() bool {
	return !t.live() || t.count == 0
}

// Contains reports whether key is stored.
func (t *Table[K, V]) Contains(key K) bool {
	if !t.live() {
		return false
	}
	return t.find(key) != nil
}

// Get returns the value stored for key. ok is false when the key is absent.
func (t *Table[K, V]) Get(key K) (value V, ok bool) {
	if !t.live() {
		return value, false
	}
	if e := t.find(key); e != nil {
		return e.value, true
	}
	return value, false
}

// GetOrDefault returns the value stored for key, or def when the key is
// absent. def is never stored.
func (t *Table[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := t.Get(key); ok {
		return v
	}
	return def
}

// Put stores value under key. It reports true when a new key was inserted
// and false when the value of an existing key was replaced.
//
// An insert that pushes the load factor over the threshold grows the
// bucket array before Put returns. A grow that cannot happen (the bucket
// ceiling is reached) leaves the table at its current size; the insert
// itself still succeeds.
func (t *Table[K, V]) Put(key K, value V) (bool, error) {
	if t == nil {
		return false, ErrNilTable
	}
	if t.destroyed {
		return false, ErrDestroyed
	}

	h := t.hash(key)
	i := t.index(h)
	for e := t.buckets[i]; e != nil; e = e.next {
		if e.hash == h && t.equal(e.key, key) {
			e.value = value
			return false, nil
		}
	}

	t.buckets[i] = &entry[K, V]{key: key, value: value, hash: h, next: t.buckets[i]}
	t.count++

	if float64(t.count)/float64(len(t.buckets)) > t.cfg.LoadFactor {
		t.grow()
	}
	return true, nil
}

// Remove deletes key and reports whether it was present.
func (t *Table[K, V]) Remove(key K) bool {
	if !t.live() {
		return false
	}

	h := t.hash(key)
	link := &t.buckets[t.index(h)]
	for e := *link; e != nil; e = *link {
		if e.hash == h && t.equal(e.key, key) {
			*link = e.next
			e.next = nil
			t.count--
			if t.cfg.AutoShrink {
				t.shrink()
			}
			return true
		}
		link = &e.next
	}
	return false
}

// Clear removes every entry. The bucket count is unchanged.
func (t *Table[K, V]) Clear() {
	if !t.live() {
		return
	}
	clear(t.buckets)
	t.count = 0
}

// Destroy releases every entry and the bucket array. The table behaves as
// an empty, immutable table afterwards: lookups miss and Put returns
// ErrDestroyed. Destroying twice returns ErrDestroyed.
func (t *Table[K, V]) Destroy() error {
	if t == nil {
		return ErrNilTable
	}
	if t.destroyed {
		return ErrDestroyed
	}
	for i, head := range t.buckets {
		for e := head; e != nil; {
			next := e.next
			e.next = nil
			e = next
		}
		t.buckets[i] = nil
	}
	t.buckets = nil
	t.count = 0
	t.destroyed = true
	return nil
}

// All yields every stored pair once, in no particular order. The table
// must not be mutated while iterating.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if !t.live() {
			return
		}
		for _, head := range t.buckets {
			for e := head; e != nil; e = e.next {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}
