// Package metrics exports planner runs as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/napolitain/solver-aoe/internal/schedule"
	"github.com/napolitain/solver-aoe/internal/simulator"
)

const namespace = "planner"

// Recorder owns a private registry holding the metrics of planner runs
type Recorder struct {
	Registry *prometheus.Registry

	solvesTotal   *prometheus.CounterVec
	solveDuration prometheus.Histogram
	makespan      prometheus.Gauge

	simTicks       prometheus.Gauge
	tierTick       *prometheus.GaugeVec
	exclusiveIdle  prometheus.Gauge
	reassignments  prometheus.Gauge
	percentAtCap   prometheus.Gauge
	workers        *prometheus.GaugeVec
	success        prometheus.Gauge
	deadlocksTotal prometheus.Counter
	skippedTotal   *prometheus.CounterVec
}

// NewRecorder creates a recorder with every collector registered
func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),

		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "solves_total",
				Help:      "Scheduling calls by result status",
			},
			[]string{"status"},
		),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "solve_duration_seconds",
			Help:      "Wall time of scheduling calls",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
		}),
		makespan: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "makespan_ticks",
			Help:      "Makespan of the last schedule",
		}),

		simTicks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "total_ticks",
			Help:      "Ticks elapsed in the last simulation",
		}),
		tierTick: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "tier_reached_tick",
				Help:      "Tick each age was entered, -1 if never",
			},
			[]string{"tier"},
		),
		exclusiveIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "exclusive_idle_ticks",
			Help:      "Ticks the exclusive resource spent idle",
		}),
		reassignments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "reassignments",
			Help:      "Worker reassignments during the last simulation",
		}),
		percentAtCap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "population_cap_percent",
			Help:      "Share of ticks spent at the population cap",
		}),
		workers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "workers",
				Help:      "Final worker distribution",
			},
			[]string{"assignment"},
		),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "success",
			Help:      "1 if the last run reached the final age within the deadline",
		}),
		deadlocksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "deadlocks_total",
			Help:      "Simulations aborted by the wait ceiling",
		}),
		skippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "skipped_steps_total",
				Help:      "Plan steps skipped by reason",
			},
			[]string{"reason"},
		),
	}

	collectors := []prometheus.Collector{
		r.solvesTotal, r.solveDuration, r.makespan,
		r.simTicks, r.tierTick, r.exclusiveIdle, r.reassignments, r.percentAtCap,
		r.workers, r.success, r.deadlocksTotal, r.skippedTotal,
	}
	for _, c := range collectors {
		if err := r.Registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return r, nil
}

// RecordSolve records one scheduling call
func (r *Recorder) RecordSolve(res *schedule.Result, elapsed time.Duration) {
	r.solveDuration.Observe(elapsed.Seconds())
	if res == nil {
		return
	}
	r.solvesTotal.WithLabelValues(string(res.Status)).Inc()
	if res.Status.HasSolution() {
		r.makespan.Set(float64(res.Makespan))
	}
}

// RecordSimulation records the outcome of a simulation run
func (r *Recorder) RecordSimulation(res *simulator.Result, deadlocked bool) {
	if deadlocked {
		r.deadlocksTotal.Inc()
	}
	if res == nil {
		return
	}

	for _, st := range res.Steps {
		if !st.Outcome.Applied {
			r.skippedTotal.WithLabelValues(string(st.Outcome.Reason)).Inc()
		}
	}

	rep := res.Report
	r.simTicks.Set(float64(rep.TotalTicks))
	r.tierTick.WithLabelValues("tier1").Set(float64(rep.Tier1Tick))
	r.tierTick.WithLabelValues("tier2").Set(float64(rep.Tier2Tick))
	r.exclusiveIdle.Set(float64(rep.ExclusiveIdleTicks))
	r.reassignments.Set(float64(rep.Reassignments))
	r.percentAtCap.Set(rep.PercentAtCap)
	r.workers.WithLabelValues("food").Set(float64(rep.Distribution.Food))
	r.workers.WithLabelValues("wood").Set(float64(rep.Distribution.Wood))
	r.workers.WithLabelValues("gold").Set(float64(rep.Distribution.Gold))
	r.workers.WithLabelValues("idle").Set(float64(rep.Distribution.Idle))
	if rep.Success {
		r.success.Set(1)
	} else {
		r.success.Set(0)
	}
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
