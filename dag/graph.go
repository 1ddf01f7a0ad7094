package dag

import (
	"github.com/kbukum/taskflow/errors"
	"github.com/kbukum/taskflow/task"
)

// Graph is the resolved dependency closure of one or more root tasks,
// deduplicated by identity.
type Graph struct {
	// Nodes maps canonical identity strings to resolved nodes.
	Nodes map[string]*Node
	// Roots are the nodes the graph was built from, in call order.
	Roots []*Node
}

// Build expands the transitive requirements of the roots into a graph. Two
// tasks with equal identities collapse into one node, so diamonds resolve to
// a single shared dependency. A cycle fails the whole build with the cycle's
// identity path; no task body runs.
func Build(roots ...task.Task) (*Graph, error) {
	b := &builder{
		nodes:    make(map[string]*Node),
		visiting: make(map[string]bool),
	}

	g := &Graph{Nodes: b.nodes}
	for _, root := range roots {
		if root == nil {
			return nil, errors.DependencyUnresolved("root", "nil task")
		}
		node, err := b.visit(root)
		if err != nil {
			return nil, err
		}
		g.Roots = append(g.Roots, node)
	}
	return g, nil
}

// Len returns the number of distinct nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

type builder struct {
	nodes    map[string]*Node
	visiting map[string]bool
	path     []string
}

func (b *builder) visit(t task.Task) (*Node, error) {
	key := t.Identity().String()

	if b.visiting[key] {
		return nil, errors.CycleDetected(append(append([]string{}, b.path...), key))
	}
	if node, ok := b.nodes[key]; ok {
		return node, nil
	}

	b.visiting[key] = true
	b.path = append(b.path, key)

	node := &Node{Task: t, ID: t.Identity(), status: StatusPending}
	for _, dep := range t.Requires().Tasks() {
		if dep == nil {
			return nil, errors.DependencyUnresolved(key, "nil dependency")
		}
		child, err := b.visit(dep)
		if err != nil {
			return nil, err
		}
		node.deps = append(node.deps, child)
		child.dependents = append(child.dependents, node)
	}

	b.path = b.path[:len(b.path)-1]
	delete(b.visiting, key)

	b.nodes[key] = node
	return node, nil
}

// Levels groups nodes by dependency depth using Kahn's algorithm. Nodes in
// the same level have no edges between them. Build already rejects cycles,
// so this never fails; it exists for inspection and dry-run displays.
func (g *Graph) Levels() [][]*Node {
	inDegree := make(map[*Node]int, len(g.Nodes))
	for _, n := range g.Nodes {
		inDegree[n] = len(n.deps)
	}

	var queue []*Node
	for _, n := range g.Nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	var levels [][]*Node
	for len(queue) > 0 {
		levels = append(levels, queue)
		var next []*Node
		for _, n := range queue {
			for _, d := range n.dependents {
				inDegree[d]--
				if inDegree[d] == 0 {
					next = append(next, d)
				}
			}
		}
		queue = next
	}
	return levels
}
