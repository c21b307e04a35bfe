package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theflywheel/lowhash"
	"github.com/theflywheel/lowhash/metrics"
)

// checkEvery is how many operations run between context checks.
const checkEvery = 1024

// Result is the outcome of one workload against one table.
type Result struct {
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Metrics  map[string]float64 `json:"metrics"`
}

// runWorkload builds the keys for cfg.Workload.KeyType and drives them
// through a fresh table. The returned source is the table itself; it is
// only read after the workload goroutine has finished.
func runWorkload(ctx context.Context, name string, cfg Config, logger *zap.Logger) (metrics.StatsSource, Result, error) {
	n := cfg.Workload.Keys
	switch cfg.Workload.KeyType {
	case "uint64":
		keys := make([]uint64, n)
		for i := range keys {
			keys[i] = uint64(i)
		}
		return drive(ctx, name, cfg, logger, keys, lowhash.HashUint64, lowhash.Equal[uint64])
	case "string":
		keys := make([]string, n)
		for i := range keys {
			keys[i] = fmt.Sprintf("key-%08d", i)
		}
		return drive(ctx, name, cfg, logger, keys, lowhash.HashString, lowhash.Equal[string])
	case "uuid":
		keys := make([]uuid.UUID, n)
		for i := range keys {
			keys[i] = uuid.New()
		}
		return drive(ctx, name, cfg, logger, keys, lowhash.HashUUID, lowhash.Equal[uuid.UUID])
	default:
		return nil, Result{}, fmt.Errorf("unknown key type %q", cfg.Workload.KeyType)
	}
}

// drive inserts every key, looks every key up and validates the value,
// then removes the configured share of keys and checks they are gone.
func drive[K any](
	ctx context.Context,
	name string,
	cfg Config,
	logger *zap.Logger,
	keys []K,
	hash lowhash.HashFunc[K],
	equal lowhash.EqualFunc[K],
) (metrics.StatsSource, Result, error) {
	tbl, err := lowhash.New[K, int](cfg.Table.Capacity, hash, equal,
		lowhash.WithConfig(cfg.Table.Config),
		lowhash.WithLogger(logger.Named(name)))
	if err != nil {
		return nil, Result{}, fmt.Errorf("%s: failed to create table: %w", name, err)
	}

	res := Result{
		Name:     name,
		Category: cfg.Workload.KeyType,
		Metrics:  map[string]float64{},
	}

	start := time.Now()
	for i, k := range keys {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return nil, res, ctx.Err()
		}
		if _, err := tbl.Put(k, i); err != nil {
			return nil, res, fmt.Errorf("%s: put %d: %w", name, i, err)
		}
	}
	recordRate(res.Metrics, "insert", len(keys), time.Since(start))

	start = time.Now()
	for i, k := range keys {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return nil, res, ctx.Err()
		}
		v, ok := tbl.Get(k)
		if !ok || v != i {
			return nil, res, fmt.Errorf("%s: validation failed for key %d: got %d (found=%t)", name, i, v, ok)
		}
	}
	recordRate(res.Metrics, "lookup", len(keys), time.Since(start))

	removed := int(float64(len(keys)) * cfg.Workload.RemoveRatio)
	start = time.Now()
	for i, k := range keys[:removed] {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return nil, res, ctx.Err()
		}
		if !tbl.Remove(k) {
			return nil, res, fmt.Errorf("%s: remove %d reported a missing key", name, i)
		}
	}
	if removed > 0 {
		recordRate(res.Metrics, "remove", removed, time.Since(start))
	}
	for i, k := range keys[:removed] {
		if tbl.Contains(k) {
			return nil, res, fmt.Errorf("%s: key %d still present after remove", name, i)
		}
	}
	if want := len(keys) - removed; tbl.Len() != want {
		return nil, res, fmt.Errorf("%s: table holds %d entries, want %d", name, tbl.Len(), want)
	}

	s := tbl.Stats()
	res.Metrics["buckets"] = float64(s.Buckets)
	res.Metrics["load_factor"] = s.LoadFactor
	res.Metrics["longest_chain"] = float64(s.LongestChain)
	res.Metrics["resizes"] = float64(s.Resizes)

	logger.Debug("workload finished",
		zap.String("table", name),
		zap.Int("entries", s.Entries),
		zap.Int("buckets", s.Buckets))
	return tbl, res, nil
}

func recordRate(m map[string]float64, op string, n int, d time.Duration) {
	if d <= 0 {
		d = time.Nanosecond
	}
	m[op+"_ops_per_sec"] = float64(n) / d.Seconds()
	m["ns_per_"+op] = float64(d.Nanoseconds()) / float64(n)
}
