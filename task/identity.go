package task

// Identity names one task instance: a kind plus one fully-bound set of
// parameter values. It is the unit of deduplication in the dependency graph.
type Identity struct {
	Kind   string
	Params Params
}

// NewIdentity builds an identity from a kind and parameter bindings.
func NewIdentity(kind string, params ...Param) Identity {
	return Identity{Kind: kind, Params: Params(params)}
}

// String returns the canonical form, e.g. "Double(date=2020-01-01, n=21)".
// Two identities are the same node exactly when their canonical forms match.
func (id Identity) String() string {
	return id.Kind + "(" + id.Params.String() + ")"
}

// Key returns the stable path/key segment derived from the parameter
// bindings, e.g. "date-2020-01-01_n-21".
func (id Identity) Key() string {
	return id.Params.Key()
}

// Equal reports structural equality.
func (id Identity) Equal(other Identity) bool {
	return id.String() == other.String()
}
