// Package prometheus renders gate counters in Prometheus text exposition
// format, pull-style, without taking a dependency on the Prometheus
// client library.
package prometheus
