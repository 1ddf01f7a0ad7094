// Package dag resolves task dependency graphs and executes them.
//
// Build expands the transitive requirements of one or more root tasks into
// a deduplicated graph, rejecting cycles before anything runs. Engine then
// executes the graph with a bounded worker pool: a node becomes ready when
// every dependency is done, already-complete nodes are skipped without
// invoking their bodies, and a failure marks every transitive dependent as
// failed without ever starting it.
package dag
