// Package testutil provides helpers for testing pipelines: temporary
// workspaces, canned tasks, and a hook that records lifecycle events.
package testutil
