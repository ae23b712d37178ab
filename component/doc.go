// Package component manages the start and stop order of long-lived parts
// of the service, such as the HTTP server and the telemetry exporters.
package component
