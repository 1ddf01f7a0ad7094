package task

import (
	"strconv"
	"time"

	"github.com/kbukum/taskflow/errors"
)

// DateLayout is the canonical serialization for date parameters.
const DateLayout = "2006-01-02"

// ValueType identifies the type of a parameter value.
type ValueType string

const (
	TypeDate   ValueType = "date"
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeBool   ValueType = "bool"
)

// Value is a typed parameter value with a deterministic canonical string.
// The canonical form is what identity equality and path derivation are built
// on, so it must be stable across runs and platforms.
type Value interface {
	Type() ValueType
	String() string
}

type dateValue struct{ t time.Time }

func (v dateValue) Type() ValueType { return TypeDate }
func (v dateValue) String() string  { return v.t.Format(DateLayout) }

// Time returns the underlying civil date at midnight.
func (v dateValue) Time() time.Time {
	return time.Date(v.t.Year(), v.t.Month(), v.t.Day(), 0, 0, 0, 0, v.t.Location())
}

type stringValue string

func (v stringValue) Type() ValueType { return TypeString }
func (v stringValue) String() string  { return string(v) }

type intValue int64

func (v intValue) Type() ValueType { return TypeInt }
func (v intValue) String() string  { return strconv.FormatInt(int64(v), 10) }

type floatValue float64

func (v floatValue) Type() ValueType { return TypeFloat }
func (v floatValue) String() string  { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type boolValue bool

func (v boolValue) Type() ValueType { return TypeBool }
func (v boolValue) String() string  { return strconv.FormatBool(bool(v)) }

// Date creates a date value. The time-of-day portion is discarded.
func Date(t time.Time) Value { return dateValue{t: t} }

// String creates a string value.
func String(s string) Value { return stringValue(s) }

// Int creates an integer value.
func Int(i int) Value { return intValue(i) }

// Float creates a float value.
func Float(f float64) Value { return floatValue(f) }

// Bool creates a boolean value.
func Bool(b bool) Value { return boolValue(b) }

// ParseValue parses a raw string into a typed Value. This is the boundary
// where parameter types are validated; the registry calls it for every
// caller-supplied binding.
func ParseValue(t ValueType, name, raw string) (Value, error) {
	switch t {
	case TypeDate:
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, errors.InvalidParameter(name, "expected date in form "+DateLayout)
		}
		return Date(parsed), nil
	case TypeString:
		return String(raw), nil
	case TypeInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.InvalidParameter(name, "expected integer")
		}
		return intValue(i), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.InvalidParameter(name, "expected float")
		}
		return Float(f), nil
	case TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.InvalidParameter(name, "expected bool")
		}
		return Bool(b), nil
	default:
		return nil, errors.InvalidParameter(name, "unknown parameter type "+string(t))
	}
}
