package dag

import (
	"time"

	"github.com/kbukum/taskflow/task"
)

// Status is the lifecycle state of a node during a run.
type Status int

const (
	// StatusPending means the node has been resolved but not yet scheduled.
	StatusPending Status = iota
	// StatusBlocked means at least one dependency has not finished.
	StatusBlocked
	// StatusReady means all dependencies are done and the node awaits a worker.
	StatusReady
	// StatusRunning means the node's body is executing.
	StatusRunning
	// StatusDone means the node finished or was already complete.
	StatusDone
	// StatusFailed means the node's body returned an error, or a dependency
	// failed before it could start.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusBlocked:
		return "blocked"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Node is one resolved task in the graph. Two declarations with the same
// identity share a single node.
type Node struct {
	Task task.Task
	ID   task.Identity

	deps       []*Node
	dependents []*Node

	status   Status
	skipped  bool
	err      error
	cause    string
	duration time.Duration
}

// Status returns the node's current lifecycle state.
func (n *Node) Status() Status { return n.status }

// Deps returns the direct dependencies.
func (n *Node) Deps() []*Node { return n.deps }

// Dependents returns the nodes that depend on this one.
func (n *Node) Dependents() []*Node { return n.dependents }

func (n *Node) terminal() bool {
	return n.status == StatusDone || n.status == StatusFailed
}
