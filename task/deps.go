package task

import "sort"

// Deps declares what must be complete before a task may run. It is a closed
// sum of the three declaration shapes — a single task, an ordered sequence,
// or a name-to-task mapping — normalized to a uniform slice by Tasks().
// Execution bodies recover named dependencies with Get.
type Deps struct {
	one   Task
	many  []Task
	named map[string]Task
}

// None declares no dependencies.
func None() Deps { return Deps{} }

// One declares a single dependency.
func One(t Task) Deps { return Deps{one: t} }

// Many declares an ordered sequence of dependencies.
func Many(ts ...Task) Deps { return Deps{many: ts} }

// Named declares dependencies addressable by name from the execution body.
func Named(m map[string]Task) Deps { return Deps{named: m} }

// Tasks normalizes the declaration into a deterministic slice: the single
// task, the sequence in declared order, or the named tasks sorted by name.
func (d Deps) Tasks() []Task {
	switch {
	case d.one != nil:
		return []Task{d.one}
	case d.many != nil:
		out := make([]Task, len(d.many))
		copy(out, d.many)
		return out
	case d.named != nil:
		names := make([]string, 0, len(d.named))
		for name := range d.named {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]Task, 0, len(names))
		for _, name := range names {
			out = append(out, d.named[name])
		}
		return out
	default:
		return nil
	}
}

// Get returns the named dependency, or nil if the declaration was not the
// named form or the name is absent.
func (d Deps) Get(name string) Task {
	if d.named == nil {
		return nil
	}
	return d.named[name]
}

// Len returns the number of declared dependencies.
func (d Deps) Len() int {
	switch {
	case d.one != nil:
		return 1
	case d.many != nil:
		return len(d.many)
	default:
		return len(d.named)
	}
}

// IsEmpty reports whether no dependencies were declared.
func (d Deps) IsEmpty() bool { return d.Len() == 0 }
