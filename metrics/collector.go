// Package metrics exports the shape of lowhash tables as Prometheus metrics.
package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/theflywheel/lowhash"
)

// StatsSource is anything that can report table stats. *lowhash.Table
// satisfies it for every key and value type.
type StatsSource interface {
	Stats() lowhash.Stats
}

// Collector implements prometheus.Collector for one table.
//
// Collect calls Stats on the source from the scraping goroutine. Tables are
// not safe for concurrent use, so a source shared with writers must guard
// Stats with the same lock the writers hold.
type Collector struct {
	source StatsSource

	entries       *prom.Desc
	buckets       *prom.Desc
	loadFactor    *prom.Desc
	longestChain  *prom.Desc
	resizes       *prom.Desc
	shrinks       *prom.Desc
	failedResizes *prom.Desc
}

// NewCollector builds a collector whose metrics carry a constant "table"
// label set to name.
func NewCollector(namespace, name string, source StatsSource) *Collector {
	labels := prom.Labels{"table": name}
	desc := func(metric, help string) *prom.Desc {
		return prom.NewDesc(prom.BuildFQName(namespace, "table", metric), help, nil, labels)
	}
	return &Collector{
		source:        source,
		entries:       desc("entries", "Number of stored entries"),
		buckets:       desc("buckets", "Length of the bucket array"),
		loadFactor:    desc("load_factor", "Entries divided by buckets"),
		longestChain:  desc("longest_chain", "Length of the longest bucket chain"),
		resizes:       desc("resizes_total", "Completed grow operations"),
		shrinks:       desc("shrinks_total", "Completed shrink operations"),
		failedResizes: desc("failed_resizes_total", "Grow or shrink operations skipped because no bucket array could be provided"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	ch <- c.entries
	ch <- c.buckets
	ch <- c.loadFactor
	ch <- c.longestChain
	ch <- c.resizes
	ch <- c.shrinks
	ch <- c.failedResizes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	s := c.source.Stats()
	ch <- prom.MustNewConstMetric(c.entries, prom.GaugeValue, float64(s.Entries))
	ch <- prom.MustNewConstMetric(c.buckets, prom.GaugeValue, float64(s.Buckets))
	ch <- prom.MustNewConstMetric(c.loadFactor, prom.GaugeValue, s.LoadFactor)
	ch <- prom.MustNewConstMetric(c.longestChain, prom.GaugeValue, float64(s.LongestChain))
	ch <- prom.MustNewConstMetric(c.resizes, prom.CounterValue, float64(s.Resizes))
	ch <- prom.MustNewConstMetric(c.shrinks, prom.CounterValue, float64(s.Shrinks))
	ch <- prom.MustNewConstMetric(c.failedResizes, prom.CounterValue, float64(s.FailedResizes))
}
