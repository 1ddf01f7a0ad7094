package dag

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/taskflow/errors"
	"github.com/kbukum/taskflow/logger"
	"github.com/kbukum/taskflow/observability"
	"github.com/kbukum/taskflow/task"
)

// DefaultWorkers is the worker pool size when Engine.Workers is zero.
const DefaultWorkers = 8

// Engine executes resolved graphs with a bounded worker pool. A node is
// dispatched as soon as its last dependency finishes, independent of its
// depth in the graph.
type Engine struct {
	// Workers limits concurrently running node bodies. Zero means
	// DefaultWorkers.
	Workers int
	// Hooks observe node lifecycle events.
	Hooks []Hook
}

// Run resolves the roots into a graph and executes it. A cycle or nil
// dependency fails the whole run before any body executes. Node failures do
// not abort the run: independent subgraphs proceed, and the returned error
// reports the first direct failure while the Result carries every outcome.
func (e *Engine) Run(ctx context.Context, roots ...task.Task) (*Result, error) {
	g, err := Build(roots...)
	if err != nil {
		return nil, err
	}
	return e.RunGraph(ctx, g)
}

// RunGraph executes an already-resolved graph. The graph's nodes are mutated
// in place; a Graph must not be run twice.
func (e *Engine) RunGraph(ctx context.Context, g *Graph) (*Result, error) {
	start := time.Now()

	result := &Result{
		RunID: uuid.NewString(),
		Nodes: make(map[string]NodeResult, len(g.Nodes)),
	}
	if len(g.Nodes) > 0 {
		e.executeAll(logger.ContextWithRunID(ctx, result.RunID), g)
	}

	for key, n := range g.Nodes {
		result.Nodes[key] = nodeResult(n)
	}
	for _, root := range g.Roots {
		result.Roots = append(result.Roots, nodeResult(root))
	}
	result.Duration = time.Since(start)

	if failures := result.Failures(); len(failures) > 0 {
		return result, failures[0].Err
	}
	return result, nil
}

func (e *Engine) executeAll(ctx context.Context, g *Graph) {
	s := &scheduler{
		ready:     make(chan *Node, len(g.Nodes)),
		pending:   make(map[*Node]int, len(g.Nodes)),
		remaining: len(g.Nodes),
	}
	for _, n := range g.Nodes {
		s.pending[n] = len(n.deps)
		if len(n.deps) == 0 {
			n.status = StatusReady
			s.ready <- n
		} else {
			n.status = StatusBlocked
		}
	}

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(g.Nodes) {
		workers = len(g.Nodes)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range s.ready {
				e.runNode(ctx, n)
				for _, cascaded := range s.finish(n) {
					e.fireFailed(ctx, cascaded.ID, cascaded.err)
				}
			}
		}()
	}
	wg.Wait()
}

// runNode checks completion and executes the body. It only ever touches the
// one node handed to it, so no locking is needed here.
func (e *Engine) runNode(ctx context.Context, n *Node) {
	if ctx.Err() != nil {
		n.status = StatusFailed
		n.err = errors.TaskFailed(n.ID.String(), ctx.Err())
		e.fireFailed(ctx, n.ID, n.err)
		return
	}

	if e.isComplete(ctx, n) {
		n.status = StatusDone
		n.skipped = true
		for _, h := range e.Hooks {
			h.TaskSkipped(ctx, n.ID)
		}
		return
	}

	n.status = StatusRunning
	for _, h := range e.Hooks {
		h.TaskStarted(ctx, n.ID)
	}

	runCtx, span := observability.StartSpan(ctx, observability.SpanTaskRun)
	observability.SetSpanAttribute(runCtx, observability.AttrTaskID, n.ID.String())
	observability.SetSpanAttribute(runCtx, observability.AttrTaskKind, n.ID.Kind)

	begin := time.Now()
	err := n.Task.Run(runCtx)
	n.duration = time.Since(begin)

	if err != nil {
		observability.SetSpanError(runCtx, err)
		span.End()
		n.status = StatusFailed
		n.err = errors.TaskFailed(n.ID.String(), err)
		e.fireFailed(ctx, n.ID, n.err)
		return
	}
	span.End()

	n.status = StatusDone
	for _, h := range e.Hooks {
		h.TaskDone(ctx, n.ID, n.duration)
	}
}

// isComplete decides whether a ready node's body can be skipped. The check
// runs at most once per node per run, immediately before execution, so a
// dependency produced moments ago is observed. Precedence: a Complete
// override, then the output target, then the wrapper rule. A wrapper node
// only becomes ready once every dependency is done, so it is complete by
// construction.
func (e *Engine) isComplete(ctx context.Context, n *Node) bool {
	if c, ok := n.Task.(task.Completable); ok {
		return c.Complete(ctx)
	}
	if out := n.Task.Output(); out != nil {
		return out.Exists(ctx)
	}
	return true
}

func (e *Engine) fireFailed(ctx context.Context, id task.Identity, err error) {
	for _, h := range e.Hooks {
		h.TaskFailed(ctx, id, err)
	}
}

// scheduler tracks readiness across worker goroutines.
type scheduler struct {
	mu        sync.Mutex
	ready     chan *Node
	pending   map[*Node]int
	remaining int
}

// finish records a terminal node, making dependents ready or failing them,
// and returns the nodes failed by propagation so the caller can fire hooks
// outside the lock. Closes the ready channel when the graph is drained.
func (s *scheduler) finish(n *Node) []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remaining--

	var cascaded []*Node
	if n.status == StatusFailed {
		cascaded = s.cascade(n)
	} else {
		for _, d := range n.dependents {
			s.pending[d]--
			if s.pending[d] == 0 && d.status == StatusBlocked {
				d.status = StatusReady
				s.ready <- d
			}
		}
	}

	if s.remaining == 0 {
		close(s.ready)
	}
	return cascaded
}

// cascade fails every transitive dependent of a failed node. Dependents are
// still blocked at this point, so none of them has started or ever will.
func (s *scheduler) cascade(failed *Node) []*Node {
	var out []*Node
	for _, d := range failed.dependents {
		if d.terminal() {
			continue
		}
		d.status = StatusFailed
		d.err = errors.DependencyUnresolved(failed.ID.String(), "dependency failed").WithCause(failed.err)
		d.cause = failed.ID.String()
		s.remaining--
		out = append(out, d)
		out = append(out, s.cascade(d)...)
	}
	return out
}

func nodeResult(n *Node) NodeResult {
	return NodeResult{
		ID:       n.ID,
		Status:   n.status,
		Skipped:  n.skipped,
		Err:      n.err,
		Cause:    n.cause,
		Duration: n.duration,
	}
}
