package lowhash

import (
	"fmt"

	"go.uber.org/zap"
)

// allocBuckets returns an empty bucket array of n slots. A length outside
// [1, limit] is refused instead of allocated.
func allocBuckets[K, V any](n, limit int) ([]*entry[K, V], error) {
	if n <= 0 || n > limit {
		return nil, fmt.Errorf("%w: %d buckets (limit %d)", ErrCapacityExceeded, n, limit)
	}
	return make([]*entry[K, V], n), nil
}

// nextSize returns the bucket count to grow to from the current one,
// clamped to the configured ceiling.
func (t *Table[K, V]) nextSize(from int) (int, error) {
	limit := t.cfg.MaxBuckets
	if from >= limit {
		return 0, fmt.Errorf("%w: already at %d buckets", ErrCapacityExceeded, from)
	}
	if from > limit/t.cfg.GrowthFactor {
		return limit, nil
	}
	return from * t.cfg.GrowthFactor, nil
}

func (t *Table[K, V]) grow() {
	from := len(t.buckets)
	to, err := t.nextSize(from)
	if err == nil {
		err = t.rehash(to)
	}
	if err != nil {
		t.failedResizes++
		t.logger.Warn("resize skipped",
			zap.Int("buckets", from),
			zap.Int("entries", t.count),
			zap.Error(err))
		return
	}
	t.resizes++
}

// shrink halves the bucket array when occupancy is below
// 1/ShrinkFraction, never going under the initial capacity.
func (t *Table[K, V]) shrink() {
	from := len(t.buckets)
	if from <= t.minBuckets || t.count >= from/ShrinkFraction {
		return
	}
	to := max(from/2, t.minBuckets)
	if err := t.rehash(to); err != nil {
		t.failedResizes++
		t.logger.Warn("shrink skipped",
			zap.Int("buckets", from),
			zap.Int("entries", t.count),
			zap.Error(err))
		return
	}
	t.shrinks++
}

// rehash moves every entry into a new array of n buckets using the cached
// hash codes. The new array is allocated before any entry moves, so a
// failure leaves the table untouched.
func (t *Table[K, V]) rehash(n int) error {
	buckets, err := allocBuckets[K, V](n, t.cfg.MaxBuckets)
	if err != nil {
		return err
	}

	from := len(t.buckets)
	t.logger.Debug("resize started",
		zap.Int("from", from),
		zap.Int("to", n),
		zap.Int("entries", t.count))

	for _, head := range t.buckets {
		for e := head; e != nil; {
			next := e.next
			i := int(e.hash % uint64(n))
			e.next = buckets[i]
			buckets[i] = e
			e = next
		}
	}
	t.buckets = buckets

	t.logger.Debug("resize complete",
		zap.Int("from", from),
		zap.Int("to", n),
		zap.Int("entries", t.count))
	return nil
}
