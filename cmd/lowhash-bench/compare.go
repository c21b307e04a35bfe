package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
)

// MetricComparison is the change of one metric between two summaries.
type MetricComparison struct {
	Name          string  `json:"name"`
	BaseValue     float64 `json:"base_value"`
	CurrentValue  float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	IsRegression  bool    `json:"is_regression"`
	IsImprovement bool    `json:"is_improvement"`
	IsSignificant bool    `json:"is_significant"`
}

// ResultComparison groups the metric changes of one result.
type ResultComparison struct {
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	MetricComparisons []MetricComparison `json:"metric_comparisons"`
	HasRegressions    bool               `json:"has_regressions"`
	Score             float64            `json:"score"`
}

// Comparison is the outcome of comparing two summaries.
type Comparison struct {
	Total                  int                `json:"total"`
	Improved               int                `json:"improved"`
	SignificantRegressions int                `json:"significant_regressions"`
	Results                []ResultComparison `json:"results"`
}

// informational metrics describe the table shape and are never judged.
var informational = map[string]bool{
	"buckets":     true,
	"load_factor": true,
	"resizes":     true,
}

// higherIsBetter reports whether a larger value of metric is an improvement.
func higherIsBetter(metric string) bool {
	return strings.HasSuffix(metric, "_per_sec")
}

// compareSummaries matches results by name and computes per-metric percent
// changes. A change of at least threshold percent in the wrong direction is
// a significant regression.
func compareSummaries(base, current Summary, threshold float64) Comparison {
	baseResults := make(map[string]Result, len(base.Results))
	for _, r := range base.Results {
		baseResults[r.Name] = r
	}

	var cmp Comparison
	for _, cur := range current.Results {
		b, ok := baseResults[cur.Name]
		if !ok {
			continue
		}

		rc := ResultComparison{Name: cur.Name, Category: cur.Category}
		judged := 0
		for name, value := range cur.Metrics {
			baseValue, ok := b.Metrics[name]
			if !ok || informational[name] {
				continue
			}

			change := 0.0
			if baseValue != 0 {
				change = (value - baseValue) / baseValue * 100
			}
			mc := MetricComparison{
				Name:          name,
				BaseValue:     baseValue,
				CurrentValue:  value,
				PercentChange: change,
				IsSignificant: math.Abs(change) >= threshold,
			}
			if higherIsBetter(name) {
				mc.IsRegression, mc.IsImprovement = change < 0, change > 0
			} else {
				mc.IsRegression, mc.IsImprovement = change > 0, change < 0
			}

			if mc.IsRegression && mc.IsSignificant {
				rc.HasRegressions = true
			}
			if mc.IsImprovement {
				rc.Score += math.Abs(change)
			} else if mc.IsRegression {
				rc.Score -= math.Abs(change)
			}
			judged++
			rc.MetricComparisons = append(rc.MetricComparisons, mc)
		}
		if judged > 0 {
			rc.Score /= float64(judged)
		}
		sort.Slice(rc.MetricComparisons, func(i, j int) bool {
			return math.Abs(rc.MetricComparisons[i].PercentChange) > math.Abs(rc.MetricComparisons[j].PercentChange)
		})

		switch {
		case rc.HasRegressions:
			cmp.SignificantRegressions++
		case rc.Score > 0:
			cmp.Improved++
		}
		cmp.Results = append(cmp.Results, rc)
	}
	cmp.Total = len(cmp.Results)

	// Regressions first, then worst score first.
	sort.Slice(cmp.Results, func(i, j int) bool {
		if cmp.Results[i].HasRegressions != cmp.Results[j].HasRegressions {
			return cmp.Results[i].HasRegressions
		}
		return cmp.Results[i].Score < cmp.Results[j].Score
	})
	return cmp
}

func printComparison(w io.Writer, cmp Comparison) {
	fmt.Fprintf(w, "Compared %d results: %d improved, %d with significant regressions\n",
		cmp.Total, cmp.Improved, cmp.SignificantRegressions)
	if cmp.Total == 0 {
		fmt.Fprintln(w, "No matching results found for comparison")
		return
	}

	for _, rc := range cmp.Results {
		status := "NEUTRAL"
		if rc.HasRegressions {
			status = "REGRESSION"
		} else if rc.Score > 0 {
			status = "IMPROVEMENT"
		}
		fmt.Fprintf(w, "\n%s %s (%s):\n", status, rc.Name, rc.Category)
		for _, mc := range rc.MetricComparisons {
			if mc.PercentChange == 0 {
				continue
			}
			mark := " "
			if mc.IsRegression && mc.IsSignificant {
				mark = "-"
			} else if mc.IsImprovement && mc.IsSignificant {
				mark = "+"
			}
			fmt.Fprintf(w, "  %s %-22s %+8.2f%% (%g -> %g)\n",
				mark, mc.Name, mc.PercentChange, mc.BaseValue, mc.CurrentValue)
		}
	}
}

func readSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read summary: %w", err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("failed to parse summary %s: %w", path, err)
	}
	return s, nil
}

// CompareCmd implements the 'compare' command.
type CompareCmd struct {
	Base      string  `arg:"" type:"existingfile" help:"Baseline summary JSON"`
	Current   string  `arg:"" type:"existingfile" help:"Current summary JSON"`
	Threshold float64 `default:"5" help:"Percent change counted as significant"`
}

func (c *CompareCmd) Run(g *Global) error {
	base, err := readSummary(c.Base)
	if err != nil {
		return err
	}
	current, err := readSummary(c.Current)
	if err != nil {
		return err
	}

	cmp := compareSummaries(base, current, c.Threshold)
	printComparison(g.Out, cmp)
	if cmp.SignificantRegressions > 0 {
		return fmt.Errorf("%d results with significant regressions", cmp.SignificantRegressions)
	}
	return nil
}
