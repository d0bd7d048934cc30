// Package params defines immutable parameter sets for cell models, plus a
// catalog of named reference sets. Overriding a value never mutates an
// existing set: With produces a fresh snapshot, so simulations sharing a
// base set cannot alias each other's changes.
package params

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownKey indicates a lookup or override against a key not present
	// in the set.
	ErrUnknownKey = errors.New("params: unknown parameter key")

	// ErrUnknownSet indicates a catalog name with no registered set.
	ErrUnknownSet = errors.New("params: unknown parameter set")

	// ErrNotScalar indicates a scalar read of a time-varying value.
	ErrNotScalar = errors.New("params: value is a function, not a scalar")
)

// Value is a parameter value: either a scalar or a function of time.
type Value struct {
	scalar float64
	fn     func(t float64) float64
}

// Scalar wraps a constant value.
func Scalar(v float64) Value { return Value{scalar: v} }

// Function wraps a time-varying value, e.g. an interpolated drive cycle.
func Function(fn func(t float64) float64) Value { return Value{fn: fn} }

func (v Value) IsFunction() bool { return v.fn != nil }

// At evaluates the value at time t. Scalars are constant in time.
func (v Value) At(t float64) float64 {
	if v.fn != nil {
		return v.fn(t)
	}
	return v.scalar
}

// Float returns the scalar value, failing for function values.
func (v Value) Float() (float64, error) {
	if v.fn != nil {
		return 0, ErrNotScalar
	}
	return v.scalar, nil
}

// Set is an immutable mapping from parameter keys to values.
type Set struct {
	name   string
	values map[Key]Value
}

func newSet(name string, values map[Key]Value) Set {
	return Set{name: name, values: values}
}

func (s Set) Name() string { return s.name }

func (s Set) Len() int { return len(s.values) }

func (s Set) Has(k Key) bool {
	_, ok := s.values[k]
	return ok
}

func (s Set) Get(k Key) (Value, error) {
	v, ok := s.values[k]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q in set %s", ErrUnknownKey, string(k), s.name)
	}
	return v, nil
}

// Float reads a scalar parameter.
func (s Set) Float(k Key) (float64, error) {
	v, err := s.Get(k)
	if err != nil {
		return 0, err
	}
	f, err := v.Float()
	if err != nil {
		return 0, fmt.Errorf("%w (key %q)", err, string(k))
	}
	return f, nil
}

// With returns a new set with the given overrides applied. The receiver is
// untouched. Every override key must already exist in the set.
func (s Set) With(overrides map[Key]Value) (Set, error) {
	for k := range overrides {
		if !s.Has(k) {
			return Set{}, fmt.Errorf("%w: %q in set %s", ErrUnknownKey, string(k), s.name)
		}
	}

	values := make(map[Key]Value, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	for k, v := range overrides {
		values[k] = v
	}
	return newSet(s.name, values), nil
}

// Keys returns the sorted key list.
func (s Set) Keys() []Key {
	keys := make([]Key, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
