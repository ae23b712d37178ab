// Package provider defines the contract shared by every external backend the
// service calls (speech-to-text, text generation) and the decorators applied
// around them: logging, tracing, and resilience.
//
// Backends register a Factory in a Registry under a name; the application
// picks one from configuration and wraps it with Chain.
package provider
