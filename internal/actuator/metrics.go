/*
Copyright 2025 The dietopt Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package actuator

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dietopt/diet-optimizer/pkg/solver"
)

// Metric names.
const (
	SolvesTotalName   = "dietopt_solves_total"
	SolveDurationName = "dietopt_solve_duration_seconds"
	SolverNodesName   = "dietopt_solver_nodes"
	SelectionCostName = "dietopt_selection_cost"
	FailuresTotalName = "dietopt_failures_total"
)

// Label names.
const (
	LabelStatus   = "status"
	LabelStrategy = "strategy"
	LabelReason   = "reason"
	LabelInstance = "instance"
)

// MetricsRecorder records optimizer runs as Prometheus metrics.
// It satisfies optimizer.Recorder.
type MetricsRecorder struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nodes    *prometheus.HistogramVec
	cost     prometheus.Gauge
	failures *prometheus.CounterVec
}

// Option configures a MetricsRecorder.
type Option func(*options)

type options struct {
	instance string
}

// WithInstance adds a constant instance label to every metric, so that
// several optimizer processes can share one Prometheus.
func WithInstance(instance string) Option {
	return func(o *options) { o.instance = instance }
}

// NewMetricsRecorder creates the metrics and registers them with reg.
func NewMetricsRecorder(reg prometheus.Registerer, opts ...Option) (*MetricsRecorder, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	var constLabels prometheus.Labels
	if o.instance != "" {
		constLabels = prometheus.Labels{LabelInstance: o.instance}
	}

	r := &MetricsRecorder{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        SolvesTotalName,
			Help:        "Completed solves by final status and strategy.",
			ConstLabels: constLabels,
		}, []string{LabelStatus, LabelStrategy}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        SolveDurationName,
			Help:        "Wall time of a pipeline run, bounds through solve.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{LabelStrategy}),
		nodes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        SolverNodesName,
			Help:        "Branch-and-bound nodes or enumerated combinations per solve.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 8, 9),
		}, []string{LabelStrategy}),
		cost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        SelectionCostName,
			Help:        "Total price of the most recent optimal selection.",
			ConstLabels: constLabels,
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        FailuresTotalName,
			Help:        "Runs that ended in an error, by reason.",
			ConstLabels: constLabels,
		}, []string{LabelReason}),
	}

	for _, c := range []prometheus.Collector{r.solves, r.duration, r.nodes, r.cost, r.failures} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return r, nil
}

// RecordRun implements optimizer.Recorder.
func (r *MetricsRecorder) RecordRun(status solver.Status, strategy string, duration time.Duration, cost float64, stats solver.Stats) {
	r.solves.WithLabelValues(status.String(), strategy).Inc()
	r.duration.WithLabelValues(strategy).Observe(duration.Seconds())
	work := stats.Nodes
	if work == 0 {
		work = stats.CombinationsSeen
	}
	r.nodes.WithLabelValues(strategy).Observe(float64(work))
	if status == solver.StatusOptimal && !math.IsNaN(cost) {
		r.cost.Set(cost)
	}
}

// RecordFailure implements optimizer.Recorder.
func (r *MetricsRecorder) RecordFailure(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}

// WriteText dumps every metric family gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
