// Package instrumentation provides OpenTelemetry metrics for meetprep.
//
// The Provider owns the meter provider and its exporter. With the
// prometheus exporter the metrics are served over HTTP by MetricsServer;
// the stdout exporter prints them periodically and is meant for
// development. When instrumentation is disabled the Metrics recorder is
// a no-op, so callers never need to check.
//
// Recorded metrics cover the invitation pipeline: invitations processed
// and skipped, model calls by purpose, and task generation iterations
// and duration.
package instrumentation
