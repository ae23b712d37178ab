// Package httpclient is the outbound HTTP client used by the speech-to-text
// and text-generation backends.
//
// It resolves paths against a base URL, applies default headers and
// authentication, caps response size, classifies failures by status code
// into *Error, and optionally runs calls through a provider resilience chain.
// The rest subpackage adds typed JSON helpers on top.
package httpclient
