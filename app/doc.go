// Package app holds the getscript service configuration and wires the
// transcript pipeline, the HTTP surface and telemetry into a
// bootstrap.App.
package app
