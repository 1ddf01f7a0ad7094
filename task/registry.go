package task

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/taskflow/errors"
	"github.com/kbukum/taskflow/interval"
)

// ParamSpec declares one parameter of a task kind: its name, type, and how a
// missing binding is filled. Cadence takes precedence over Default and
// implies TypeDate.
type ParamSpec struct {
	Name    string
	Type    ValueType
	Default Value
	Cadence interval.Cadence
}

// Spec registers a task kind: its parameter schema and a constructor that
// receives fully-bound, validated parameters. This is the sole extension
// surface pipeline authors use; the excluded CLI/config layer consumes it to
// construct root tasks by name with parameter overrides.
type Spec struct {
	Name   string
	Params []ParamSpec
	New    func(Params) (Task, error)
}

// Registry provides typed task-kind lookup and construction. Parameter types
// are validated at this boundary, not at execution time.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
	now   func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock injects the reference time used to evaluate cadence defaults.
// Tests use this to pin periodic boundaries.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		specs: make(map[string]Spec),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a task kind. Registering a duplicate or invalid spec is an
// error.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("task: spec name is required")
	}
	if spec.New == nil {
		return fmt.Errorf("task: spec %q has no constructor", spec.Name)
	}
	for _, p := range spec.Params {
		if p.Cadence != nil && p.Type != TypeDate {
			return fmt.Errorf("task: spec %q parameter %q: cadence requires date type", spec.Name, p.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("task: spec %q already registered", spec.Name)
	}
	r.specs[spec.Name] = spec
	return nil
}

// Get retrieves a registered spec by name.
func (r *Registry) Get(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// List returns sorted names of all registered kinds.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs a task of the named kind from raw string bindings. Missing
// bindings are filled from each parameter's cadence or default; unknown
// binding names and type mismatches fail here, before any graph is built.
func (r *Registry) New(name string, bindings map[string]string) (Task, error) {
	spec, ok := r.Get(name)
	if !ok {
		return nil, errors.DependencyUnresolved(name, "task kind not registered")
	}

	declared := make(map[string]bool, len(spec.Params))
	params := make(Params, 0, len(spec.Params))
	for _, ps := range spec.Params {
		declared[ps.Name] = true

		if raw, bound := bindings[ps.Name]; bound {
			v, err := ParseValue(ps.Type, ps.Name, raw)
			if err != nil {
				return nil, err
			}
			params = append(params, P(ps.Name, v))
			continue
		}
		switch {
		case ps.Cadence != nil:
			params = append(params, P(ps.Name, Date(ps.Cadence(r.now()))))
		case ps.Default != nil:
			params = append(params, P(ps.Name, ps.Default))
		default:
			return nil, errors.InvalidParameter(ps.Name, "required parameter not bound")
		}
	}

	for name := range bindings {
		if !declared[name] {
			return nil, errors.InvalidParameter(name, "not declared by task kind "+spec.Name)
		}
	}

	return spec.New(params)
}
