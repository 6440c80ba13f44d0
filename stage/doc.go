// Package stage provides the HTTP client for the external pipeline services.
//
// Each preprocessing step (language detection, document structuring,
// linguistic annotation) runs as a separate HTTP service. The Client wraps
// their contracts behind typed calls with bounded timeouts and exponential
// backoff on transient failures. A 4xx response is a rejection and is never
// retried; exhausted retries surface as ErrUnreachable.
package stage
