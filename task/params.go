package task

import (
	"strings"
	"time"
)

// Param is a single named parameter binding.
type Param struct {
	Name  string
	Value Value
}

// Params is an ordered list of parameter bindings. Order follows declaration
// order of the task kind, so the derived key is stable.
type Params []Param

// P is shorthand for building a Param.
func P(name string, value Value) Param { return Param{Name: name, Value: value} }

// Get returns the value bound to name.
func (p Params) Get(name string) (Value, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return nil, false
}

// Date returns the date parameter, or the zero time if absent or mistyped.
func (p Params) Date(name string) time.Time {
	if v, ok := p.Get(name); ok {
		if d, ok := v.(dateValue); ok {
			return d.Time()
		}
	}
	return time.Time{}
}

// Str returns the string parameter, or "" if absent.
func (p Params) Str(name string) string {
	if v, ok := p.Get(name); ok && v.Type() == TypeString {
		return v.String()
	}
	return ""
}

// Int returns the integer parameter, or 0 if absent or mistyped.
func (p Params) Int(name string) int {
	if v, ok := p.Get(name); ok {
		if i, ok := v.(intValue); ok {
			return int(i)
		}
	}
	return 0
}

// Float returns the float parameter, or 0 if absent or mistyped.
func (p Params) Float(name string) float64 {
	if v, ok := p.Get(name); ok {
		if f, ok := v.(floatValue); ok {
			return float64(f)
		}
	}
	return 0
}

// Bool returns the boolean parameter, or false if absent or mistyped.
func (p Params) Bool(name string) bool {
	if v, ok := p.Get(name); ok {
		if b, ok := v.(boolValue); ok {
			return bool(b)
		}
	}
	return false
}

// Key derives the stable path segment for these bindings:
// "name-value" pairs joined with "_", values escaped so that distinct
// bindings never collide. Empty params yield "output".
func (p Params) Key() string {
	if len(p) == 0 {
		return "output"
	}
	parts := make([]string, 0, len(p))
	for _, param := range p {
		parts = append(parts, param.Name+"-"+escapeKeyPart(param.Value.String()))
	}
	return strings.Join(parts, "_")
}

// String renders the bindings for display: "name=value, name=value".
func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, param := range p {
		parts = append(parts, param.Name+"="+param.Value.String())
	}
	return strings.Join(parts, ", ")
}

const keySafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-"

// escapeKeyPart percent-encodes every byte outside the key-safe set. The
// encoding is injective: two distinct values always produce distinct key
// parts, which keeps identity-to-path derivation collision free.
func escapeKeyPart(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(keySafe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		const hex = "0123456789ABCDEF"
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}
