// Package task defines the extension surface of taskflow: the Task interface,
// typed parameter binding, task identity, dependency declaration, and the
// typed kind registry used to construct root tasks by name.
//
// A task is a unit of work with declared dependencies, an optional output
// target, and an execution body. Two task instances with the same kind and
// the same fully-bound parameter values are the same node; the resolver
// deduplicates them into a single graph entry.
package task
