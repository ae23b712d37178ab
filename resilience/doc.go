// Package resilience provides the fault-tolerance primitives used around
// outbound calls: a circuit breaker, retry with exponential backoff, and a
// token-bucket rate limiter.
package resilience
