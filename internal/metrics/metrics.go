package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Instrumentation for the event log and the research pipeline.

var (
	// EventsAppended counts events written to the log, by topic.
	EventsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_events_appended_total",
			Help: "Events appended to the durable log",
		},
		[]string{"topic"},
	)

	// EventsDelivered counts events whose handler completed, by subscription.
	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_events_delivered_total",
			Help: "Events delivered to consumers",
		},
		[]string{"consumer", "topic"},
	)

	// HandlerErrors counts handler failures that will be retried on the next poll.
	HandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_handler_errors_total",
			Help: "Handler failures during event delivery",
		},
		[]string{"consumer", "topic"},
	)

	// OffsetConflicts counts lost compare-and-set races between instances of
	// the same consumer.
	OffsetConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_offset_conflicts_total",
			Help: "Consumer offset compare-and-set conflicts",
		},
		[]string{"consumer", "topic"},
	)

	// PipelineRuns counts completed research runs by outcome (published|aborted).
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_pipeline_runs_total",
			Help: "Research pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	// StageDuration observes per-stage execution time.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_pipeline_stage_seconds",
			Help:    "Research pipeline stage duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// EventsArchived counts events compacted out of the hot log.
	EventsArchived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_events_archived_total",
			Help: "Events moved to the archive store",
		},
		[]string{"topic"},
	)
)
