// Package internaldefs holds the shared metric definitions used by the
// Prometheus and OpenTelemetry exporters. It exists so both exporters
// publish identical names and help text.
package internaldefs
