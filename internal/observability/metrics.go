// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "applytrack_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// BlobWrites counts resume blobs written to the blob store.
	BlobWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "applytrack_blob_writes_total",
		Help: "Total number of resume blobs written",
	})

	// BlobDeletes counts blob delete attempts by outcome (removed, missing, error).
	BlobDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "applytrack_blob_deletes_total",
		Help: "Total number of resume blob delete attempts by outcome",
	}, []string{"outcome"})

	// PostingStatusChanges counts posting status updates by new status.
	PostingStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "applytrack_posting_status_changes_total",
		Help: "Total number of posting status changes by new status",
	}, []string{"status"})

	// RemindersDue gauges how many reminder records are currently due.
	RemindersDue = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "applytrack_reminders_due",
		Help: "Number of reminder records whose fire time has passed",
	})
)
