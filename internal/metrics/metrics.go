// SPDX-License-Identifier: MPL-2.0

// Package metrics records resolution-pass metrics with prometheus collectors
// and writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns one registry per process run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	modulesTotal       *prometheus.CounterVec
	dependenciesTotal  *prometheus.CounterVec
	unresolvedRequired prometheus.Gauge
	graphModules       prometheus.Gauge
	graphEdges         prometheus.Gauge
	cycleDetected      prometheus.Gauge
	passDuration       prometheus.Histogram
}

// New creates a Recorder with its collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		modulesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modgraph_modules_total",
				Help: "Number of module metadata files read, by result.",
			},
			[]string{"result"},
		),
		dependenciesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modgraph_dependencies_total",
				Help: "Number of dependency specifications resolved, by outcome.",
			},
			[]string{"outcome"},
		),
		unresolvedRequired: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "modgraph_unresolved_required",
				Help: "Number of required dependencies left unresolved in the last pass.",
			},
		),
		graphModules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "modgraph_graph_modules",
				Help: "Number of vertices in the local module graph.",
			},
		),
		graphEdges: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "modgraph_graph_edges",
				Help: "Number of local dependency edges in the module graph.",
			},
		),
		cycleDetected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "modgraph_cycle_detected",
				Help: "1 when the last pass found a dependency cycle, 0 otherwise.",
			},
		),
		passDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "modgraph_pass_duration_seconds",
				Help:    "Time taken by one resolution pass.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	r.registry.MustRegister(
		r.modulesTotal,
		r.dependenciesTotal,
		r.unresolvedRequired,
		r.graphModules,
		r.graphEdges,
		r.cycleDetected,
		r.passDuration,
	)
	return r
}

// ModuleRead counts one metadata read; result is "ok", "parse_error" or "not_found".
func (r *Recorder) ModuleRead(result string) {
	if r == nil {
		return
	}
	r.modulesTotal.WithLabelValues(result).Inc()
}

// DependencyResolved counts one resolved specification by outcome name.
func (r *Recorder) DependencyResolved(outcome string) {
	if r == nil {
		return
	}
	r.dependenciesTotal.WithLabelValues(outcome).Inc()
}

// UnresolvedRequired sets the number of unresolved required dependencies.
func (r *Recorder) UnresolvedRequired(n int) {
	if r == nil {
		return
	}
	r.unresolvedRequired.Set(float64(n))
}

// Graph records the size of the module graph.
func (r *Recorder) Graph(modules, edges int) {
	if r == nil {
		return
	}
	r.graphModules.Set(float64(modules))
	r.graphEdges.Set(float64(edges))
}

// Cycle records whether ordering failed on a cycle.
func (r *Recorder) Cycle(found bool) {
	if r == nil {
		return
	}
	if found {
		r.cycleDetected.Set(1)
	} else {
		r.cycleDetected.Set(0)
	}
}

// PassDuration observes the time since start.
func (r *Recorder) PassDuration(start time.Time) {
	if r == nil {
		return
	}
	r.passDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile writes all metrics to path in the textfile collector format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
