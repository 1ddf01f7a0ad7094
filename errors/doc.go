// Package errors provides the structured error types used across taskflow:
// error codes, retryable detection, and constructors for the failure modes
// of graph resolution, task execution, and external process invocation.
package errors
