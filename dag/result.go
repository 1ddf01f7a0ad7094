package dag

import (
	"sort"
	"time"

	"github.com/kbukum/taskflow/task"
)

// NodeResult is the outcome of one node in a run.
type NodeResult struct {
	ID       task.Identity
	Status   Status
	// Skipped reports that the node was already complete and its body was
	// not invoked.
	Skipped bool
	// Err is the node's own failure, or the propagated dependency failure.
	Err error
	// Cause names the failed dependency when the failure was propagated.
	// Empty when the node itself failed.
	Cause    string
	Duration time.Duration
}

// Result summarizes one Engine run.
type Result struct {
	// RunID uniquely identifies this run in logs and traces.
	RunID string
	// Nodes maps canonical identity strings to outcomes.
	Nodes map[string]NodeResult
	// Roots holds the outcomes of the requested root tasks, in call order.
	Roots    []NodeResult
	Duration time.Duration
}

// OK reports whether every node finished without failure.
func (r *Result) OK() bool {
	for _, nr := range r.Nodes {
		if nr.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Failures returns the nodes that failed directly, excluding those failed by
// propagation. These are the causes worth reporting. The slice is ordered by
// identity so the reported first failure is stable across runs.
func (r *Result) Failures() []NodeResult {
	var out []NodeResult
	for _, nr := range r.Nodes {
		if nr.Status == StatusFailed && nr.Cause == "" {
			out = append(out, nr)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Executed returns how many node bodies actually ran, excluding skipped and
// propagated-failure nodes.
func (r *Result) Executed() int {
	n := 0
	for _, nr := range r.Nodes {
		if nr.Status == StatusDone && !nr.Skipped {
			n++
		}
	}
	return n
}
