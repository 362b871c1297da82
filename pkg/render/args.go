// ABOUTME: Immutable argument namespaces and per-hierarchy Args containers
// ABOUTME: Structural equality and deterministic keys back the frame cache

package render

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// FieldSpec declares one named argument field and its default value.
// Values must be comparable; this is checked at spec construction and on
// every write, a deliberate tightening of the documentation-only
// contract in the original design.
type FieldSpec struct {
	Name    string
	Default any
}

// ArgsSpec declares the argument fields of one render class. Sharing a
// spec pointer between classes is forbidden; a subclass that wants its
// parent's fields verbatim registers with WithInheritedArgs instead.
type ArgsSpec struct {
	class  *Class // set at registration
	fields []FieldSpec
	index  map[string]int

	defaultOnce sync.Once
	defaultNS   Namespace
}

// NewArgsSpec builds a spec from field declarations. Duplicate names and
// non-comparable defaults panic: specs are defined at init time and a
// bad one is a programmer error.
func NewArgsSpec(fields ...FieldSpec) *ArgsSpec {
	s := &ArgsSpec{fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Name == "" {
			panic("render: namespace field name must not be empty")
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("render: duplicate namespace field %q", f.Name))
		}
		if !comparableValue(f.Default) {
			panic(fmt.Sprintf("render: default for field %q is not hashable", f.Name))
		}
		s.index[f.Name] = i
	}
	return s
}

// Class returns the render class this spec is associated with, nil
// before registration.
func (s *ArgsSpec) Class() *Class { return s.class }

// Default returns the namespace holding every field's default value.
func (s *ArgsSpec) Default() Namespace {
	s.defaultOnce.Do(func() {
		values := make(map[string]any, len(s.fields))
		for _, f := range s.fields {
			values[f.Name] = f.Default
		}
		s.defaultNS = Namespace{spec: s, values: values}
	})
	return s.defaultNS
}

// New builds a namespace with the given overrides; unspecified fields
// take their defaults.
func (s *ArgsSpec) New(overrides map[string]any) (Namespace, error) {
	return s.Default().Update(overrides)
}

// Namespace is an immutable instance of an ArgsSpec: a complete set of
// field values. The zero Namespace is invalid.
type Namespace struct {
	spec   *ArgsSpec
	values map[string]any
}

// Spec returns the declaring spec.
func (n Namespace) Spec() *ArgsSpec { return n.spec }

// Class returns the render class the namespace belongs to.
func (n Namespace) Class() *Class {
	if n.spec == nil {
		return nil
	}
	return n.spec.class
}

// Update returns a copy with the given fields replaced. The receiver is
// untouched; updating zero fields yields an equal value.
func (n Namespace) Update(overrides map[string]any) (Namespace, error) {
	values := make(map[string]any, len(n.values))
	for k, v := range n.values {
		values[k] = v
	}
	for name, v := range overrides {
		if _, ok := n.spec.index[name]; !ok {
			return Namespace{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		if !comparableValue(v) {
			return Namespace{}, fmt.Errorf("render: value for field %q is not hashable", name)
		}
		values[name] = v
	}
	return Namespace{spec: n.spec, values: values}, nil
}

// Get returns the value of the named field.
func (n Namespace) Get(name string) (any, error) {
	v, ok := n.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v, nil
}

// Int returns an int field, panicking on misuse (unknown field or wrong
// type is a caller bug, not a runtime condition).
func (n Namespace) Int(name string) int { return fieldAs[int](n, name) }

// Float returns a float64 field.
func (n Namespace) Float(name string) float64 { return fieldAs[float64](n, name) }

// Bool returns a bool field.
func (n Namespace) Bool(name string) bool { return fieldAs[bool](n, name) }

// String returns a string field.
func (n Namespace) String(name string) string { return fieldAs[string](n, name) }

func fieldAs[T any](n Namespace, name string) T {
	v, err := n.Get(name)
	if err != nil {
		panic(err)
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("render: field %q holds %T, not %T", name, v, t))
	}
	return t
}

// Equal reports structural equality: same spec, same field values.
func (n Namespace) Equal(other Namespace) bool {
	if n.spec != other.spec {
		return false
	}
	for k, v := range n.values {
		if other.values[k] != v {
			return false
		}
	}
	return true
}

// Key returns a deterministic fingerprint; equal namespaces produce
// equal keys, making Namespace usable in map-keyed caches.
func (n Namespace) Key() string {
	if n.spec == nil {
		return ""
	}
	var b strings.Builder
	if n.spec.class != nil {
		b.WriteString(n.spec.class.name)
	}
	b.WriteByte('{')
	for i, f := range n.spec.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%#v", f.Name, n.values[f.Name])
	}
	b.WriteByte('}')
	return b.String()
}

func comparableValue(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// Args is the immutable set of argument namespaces for one render class
// hierarchy: one namespace per ancestor that declares arguments.
type Args struct {
	class   *Class
	byClass map[*Class]Namespace // keyed by declaring class
}

// DefaultArgs builds the all-defaults Args for a class.
func DefaultArgs(c *Class) Args {
	a, err := NewArgs(c)
	if err != nil {
		panic(err) // unreachable: no supplied namespaces to reject
	}
	return a
}

// NewArgs combines the supplied namespaces with defaults for every
// declaring ancestor of c that was not overridden. A namespace built for
// a class outside c's ancestry is rejected with ErrIncompatibleArgs; two
// namespaces for the same declaring class with ErrDuplicateNamespace.
func NewArgs(c *Class, namespaces ...Namespace) (Args, error) {
	if c == nil {
		return Args{}, fmt.Errorf("%w: nil class", ErrIncompatibleArgs)
	}

	byClass := make(map[*Class]Namespace)
	for _, ns := range namespaces {
		decl := ns.Class()
		if decl == nil {
			return Args{}, fmt.Errorf("%w: namespace spec not associated with any class", ErrIncompatibleArgs)
		}
		if !c.IsSubclassOf(decl) {
			return Args{}, fmt.Errorf("%w: namespace for %s supplied to %s", ErrIncompatibleArgs, decl.name, c.name)
		}
		if _, dup := byClass[decl]; dup {
			return Args{}, fmt.Errorf("%w: %s", ErrDuplicateNamespace, decl.name)
		}
		byClass[decl] = ns
	}

	// Walk from the most specific ancestor down, filling defaults for
	// declarers with no supplied override. Deterministic and idempotent:
	// the same inputs always resolve to structurally equal results.
	for cur := c; cur != nil; cur = cur.parent {
		if cur.args == nil {
			continue
		}
		if _, ok := byClass[cur]; !ok {
			byClass[cur] = cur.args.Default()
		}
	}

	return Args{class: c, byClass: byClass}, nil
}

// Class returns the render class the Args were built for.
func (a Args) Class() *Class { return a.class }

// For returns the namespace for the given render class, resolving
// inherited specs to their declaring ancestor.
func (a Args) For(c *Class) (Namespace, error) {
	if c == nil || a.class == nil {
		return Namespace{}, fmt.Errorf("%w: nil class", ErrIncompatibleArgs)
	}
	decl := c.argsDeclarer()
	if decl == nil {
		return Namespace{}, fmt.Errorf("%w: %s", ErrNoArgsNamespace, c.name)
	}
	ns, ok := a.byClass[decl]
	if !ok {
		return Namespace{}, fmt.Errorf("%w: %s not an ancestor of %s", ErrIncompatibleArgs, c.name, a.class.name)
	}
	return ns, nil
}

// With returns a copy of the Args with one namespace replaced, for
// composing a base Args with per-call overrides.
func (a Args) With(ns Namespace) (Args, error) {
	decl := ns.Class()
	if decl == nil || !a.class.IsSubclassOf(decl) {
		return Args{}, fmt.Errorf("%w: namespace for %v supplied to %s", ErrIncompatibleArgs, decl, a.class.name)
	}
	byClass := make(map[*Class]Namespace, len(a.byClass))
	for k, v := range a.byClass {
		byClass[k] = v
	}
	byClass[decl] = ns
	return Args{class: a.class, byClass: byClass}, nil
}

// Equal reports whether two Args were built for the same class and hold
// equal namespaces throughout.
func (a Args) Equal(b Args) bool {
	if a.class != b.class || len(a.byClass) != len(b.byClass) {
		return false
	}
	for c, ns := range a.byClass {
		other, ok := b.byClass[c]
		if !ok || !ns.Equal(other) {
			return false
		}
	}
	return true
}

// Key returns a deterministic fingerprint over all namespaces, ordered
// by declaring class name.
func (a Args) Key() string {
	if a.class == nil {
		return ""
	}
	names := make([]string, 0, len(a.byClass))
	index := make(map[string]Namespace, len(a.byClass))
	for c, ns := range a.byClass {
		names = append(names, c.name)
		index[c.name] = ns
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(a.class.name)
	b.WriteByte('[')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(index[name].Key())
	}
	b.WriteByte(']')
	return b.String()
}
