package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theflywheel/lowhash/metrics"
)

// Summary is the JSON document written by 'run' and read by 'compare'.
type Summary struct {
	Timestamp string   `json:"timestamp"`
	GoVersion string   `json:"go_version"`
	System    string   `json:"system"`
	Results   []Result `json:"results"`
}

// RunCmd implements the 'run' command. Zero flag values keep the value
// from the config file (or the built-in default).
type RunCmd struct {
	Config     string  `short:"c" type:"path" help:"Workload configuration file (YAML)"`
	Keys       int     `short:"n" help:"Distinct keys per table"`
	Capacity   int     `help:"Initial bucket count"`
	LoadFactor float64 `name:"load-factor" help:"Grow threshold in (0, 1]"`
	KeyType    string  `name:"key-type" help:"Key type: uint64, string or uuid"`
	Parallel   int     `short:"p" help:"Independent tables run in parallel"`
	Output     string  `short:"o" type:"path" help:"Write a JSON summary to this file"`
	Metrics    bool    `help:"Print the tables' Prometheus metrics after the run"`
}

func (r *RunCmd) override(cfg *Config) {
	if r.Keys != 0 {
		cfg.Workload.Keys = r.Keys
	}
	if r.Capacity != 0 {
		cfg.Table.Capacity = r.Capacity
	}
	if r.LoadFactor != 0 {
		cfg.Table.LoadFactor = r.LoadFactor
	}
	if r.KeyType != "" {
		cfg.Workload.KeyType = r.KeyType
	}
	if r.Parallel != 0 {
		cfg.Workload.Parallel = r.Parallel
	}
}

func (r *RunCmd) Run(g *Global) error {
	cfg, err := LoadConfig(r.Config)
	if err != nil {
		return err
	}
	r.override(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g.Logger.Info("starting workload",
		zap.Int("keys", cfg.Workload.Keys),
		zap.String("key_type", cfg.Workload.KeyType),
		zap.Int("parallel", cfg.Workload.Parallel),
		zap.Int("capacity", cfg.Table.Capacity))

	results, sources, err := runAll(ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	printResults(g.Out, results)

	if r.Output != "" {
		if err := writeSummary(r.Output, results); err != nil {
			return err
		}
		g.Logger.Info("summary written", zap.String("path", r.Output))
	}
	if r.Metrics {
		return writeMetrics(g.Out, results, sources)
	}
	return nil
}

// runAll runs one table per goroutine. Tables are never shared between
// goroutines.
func runAll(ctx context.Context, cfg Config, logger *zap.Logger) ([]Result, []metrics.StatsSource, error) {
	n := cfg.Workload.Parallel
	results := make([]Result, n)
	sources := make([]metrics.StatsSource, n)

	eg, ctx := errgroup.WithContext(ctx)
	for i := range n {
		eg.Go(func() error {
			src, res, err := runWorkload(ctx, fmt.Sprintf("table-%d", i), cfg, logger)
			if err != nil {
				return err
			}
			results[i], sources[i] = res, src
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return results, sources, nil
}

func printResults(w io.Writer, results []Result) {
	for _, r := range results {
		m := r.Metrics
		fmt.Fprintf(w, "%s (%s): insert %s ops/s, lookup %s ops/s, remove %s ops/s\n",
			r.Name, r.Category,
			humanize.Comma(int64(m["insert_ops_per_sec"])),
			humanize.Comma(int64(m["lookup_ops_per_sec"])),
			humanize.Comma(int64(m["remove_ops_per_sec"])))
		fmt.Fprintf(w, "  buckets %s, load factor %.3f, longest chain %d, resizes %d\n",
			humanize.Comma(int64(m["buckets"])), m["load_factor"],
			int(m["longest_chain"]), int(m["resizes"]))
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	fmt.Fprintf(w, "Memory: alloc=%s sys=%s\n", humanize.Bytes(ms.Alloc), humanize.Bytes(ms.Sys))
}

func writeSummary(path string, results []Result) error {
	summary := Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		GoVersion: runtime.Version(),
		System:    runtime.GOOS + "/" + runtime.GOARCH,
		Results:   results,
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// writeMetrics registers a collector per table and prints the gathered
// families in the Prometheus text format.
func writeMetrics(w io.Writer, results []Result, sources []metrics.StatsSource) error {
	reg := prom.NewRegistry()
	for i, src := range sources {
		if err := reg.Register(metrics.NewCollector("lowhash_bench", results[i].Name, src)); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
