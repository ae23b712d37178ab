// Package observability wires OpenTelemetry tracing and metrics.
//
// Setup installs OTLP/HTTP exporters when enabled and leaves the global
// no-op providers in place otherwise, so instrumented code never has to
// check whether telemetry is on.
package observability
