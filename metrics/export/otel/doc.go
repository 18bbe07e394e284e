// Package otel publishes gate counters through an OpenTelemetry meter as
// observable counters read from snapshots at collection time.
package otel
