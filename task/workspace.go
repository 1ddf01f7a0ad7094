package task

import (
	"path/filepath"

	"github.com/kbukum/taskflow/target"
)

// Workspace carries the base directory and pipeline tag that concrete tasks
// embed to derive their target paths uniformly. It replaces any module-level
// default state: every pipeline passes its workspace explicitly.
type Workspace struct {
	// Base is the root directory for all targets of this pipeline.
	Base string
	// Tag namespaces the pipeline under Base.
	Tag string
}

// PathOption adjusts path derivation.
type PathOption func(*pathOptions)

type pathOptions struct {
	ext    string
	digest bool
}

// WithExt appends a file extension, e.g. ".tsv". The leading dot is added if
// missing.
func WithExt(ext string) PathOption {
	return func(o *pathOptions) {
		if ext != "" && ext[0] != '.' {
			ext = "." + ext
		}
		o.ext = ext
	}
}

// WithDigest derives the file name from the SHA-1 of the identity key instead
// of the key itself sanitized. Use for identities whose natural key (e.g. an
// arbitrary URL) is unsuitable as a path component.
func WithDigest() PathOption {
	return func(o *pathOptions) { o.digest = true }
}

// Path derives the target path for an identity:
// <base>/<tag>/<Kind>/<key><ext>. Derivation is injective across identities.
func (w Workspace) Path(id Identity, opts ...PathOption) string {
	var o pathOptions
	for _, opt := range opts {
		opt(&o)
	}
	name := id.Key()
	if o.digest {
		name = target.Digest(name)
	}
	return filepath.Join(w.Base, w.Tag, id.Kind, name+o.ext)
}

// Target returns a local target at the derived path.
func (w Workspace) Target(id Identity, opts ...PathOption) *target.LocalTarget {
	return target.Local(w.Path(id, opts...))
}

// TSVTarget returns a local TSV target at the derived path. The ".tsv"
// extension is applied unless an explicit extension option overrides it.
func (w Workspace) TSVTarget(id Identity, opts ...PathOption) *target.LocalTarget {
	full := append([]PathOption{WithExt(".tsv")}, opts...)
	return target.LocalTSV(w.Path(id, full...))
}
