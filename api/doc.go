// Package api exposes the transcript pipeline over HTTP: GET /getscript
// returns the cleaned transcript and GET / serves the web UI.
package api
