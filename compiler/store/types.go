package store

import (
	"fmt"
	"strings"

	"github.com/syssam/typegraph"
)

// TypeID is a stable handle to a type node within one session's arena.
// IDs are dense, strictly increasing, and never reused.
type TypeID uint32

// RuntimeID is a handle into the runtime arena.
type RuntimeID uint32

// MaterializerID is a handle into the materializer arena.
type MaterializerID uint32

// PolicyID is a handle into the policy arena.
type PolicyID uint32

// Type is the closed set of type variants held by the arena. The set is
// sealed: conversion code switches over it exhaustively, and adding a
// variant must break every switch at compile time.
type Type interface {
	// Base returns the shared attributes of the node.
	Base() *Base

	// variant returns the display name of the variant and seals the set.
	variant() string
}

// Base carries the attributes shared by every variant: an optional
// display name and free-form runtime configuration.
type Base struct {
	Name   string
	Config map[string]string
}

// Proxy is a named forward reference to a type declared, or yet to be
// declared, elsewhere. Extras carry free-form attribute pairs consumed
// by runtime-specific conversion.
type Proxy struct {
	Attrs  Base
	To     string
	Extras map[string]string
}

// Integer is a bounded integer type.
type Integer struct {
	Attrs                              Base
	Min, Max, ExclusiveMin, ExclusiveMax *float64
}

// Float is a bounded float type.
type Float struct {
	Attrs                              Base
	Min, Max, ExclusiveMin, ExclusiveMax *float64
}

// Boolean is the boolean type.
type Boolean struct {
	Attrs Base
}

// StringT is a length-bounded string type.
type StringT struct {
	Attrs                Base
	MinLength, MaxLength *uint32
}

// Array is a homogeneous list of another type.
type Array struct {
	Attrs              Base
	Of                 TypeID
	MinItems, MaxItems *uint32
}

// Optional wraps another type and makes it nullable, with an optional
// default value.
type Optional struct {
	Attrs       Base
	Of          TypeID
	DefaultItem any
}

// Union is an untagged union of variants.
type Union struct {
	Attrs    Base
	Variants []TypeID
}

// Either is an exclusive union of variants.
type Either struct {
	Attrs    Base
	Variants []TypeID
}

// Prop is one named member of a struct, in declaration order.
type Prop struct {
	Key  string
	Type TypeID
}

// Struct is an ordered collection of named properties.
type Struct struct {
	Attrs Base
	Props []Prop
}

// Prop returns the type of the property with the given key.
func (s *Struct) Prop(key string) (TypeID, bool) {
	for _, p := range s.Props {
		if p.Key == key {
			return p.Type, true
		}
	}
	return 0, false
}

// Func is a callable type binding an input struct and an output type to
// a materializer.
type Func struct {
	Attrs  Base
	Input  TypeID
	Output TypeID
	Mat    MaterializerID
}

// WithInjection wraps a type with an opaque injection payload. The
// wrapped node is referenced, never mutated.
type WithInjection struct {
	Attrs     Base
	Of        TypeID
	Injection string
}

// WithPolicy wraps a type with a policy chain. The wrapped node is
// referenced, never mutated.
type WithPolicy struct {
	Attrs Base
	Of    TypeID
	Chain []PolicySpec
}

// PolicySpec is one entry of a policy chain: a single policy, or a
// per-effect mapping.
type PolicySpec struct {
	Simple    *PolicyID
	PerEffect *EffectPolicies
}

// EffectPolicies maps mutation effects to policies. A nil entry leaves
// the effect unguarded.
type EffectPolicies struct {
	None   *PolicyID
	Create *PolicyID
	Update *PolicyID
	Delete *PolicyID
}

func (t *Proxy) Base() *Base         { return &t.Attrs }
func (t *Integer) Base() *Base       { return &t.Attrs }
func (t *Float) Base() *Base         { return &t.Attrs }
func (t *Boolean) Base() *Base       { return &t.Attrs }
func (t *StringT) Base() *Base       { return &t.Attrs }
func (t *Array) Base() *Base         { return &t.Attrs }
func (t *Optional) Base() *Base      { return &t.Attrs }
func (t *Union) Base() *Base         { return &t.Attrs }
func (t *Either) Base() *Base        { return &t.Attrs }
func (t *Struct) Base() *Base        { return &t.Attrs }
func (t *Func) Base() *Base          { return &t.Attrs }
func (t *WithInjection) Base() *Base { return &t.Attrs }
func (t *WithPolicy) Base() *Base    { return &t.Attrs }

func (t *Proxy) variant() string         { return "proxy" }
func (t *Integer) variant() string       { return "integer" }
func (t *Float) variant() string         { return "float" }
func (t *Boolean) variant() string       { return "boolean" }
func (t *StringT) variant() string       { return "string" }
func (t *Array) variant() string         { return "array" }
func (t *Optional) variant() string      { return "optional" }
func (t *Union) variant() string         { return "union" }
func (t *Either) variant() string        { return "either" }
func (t *Struct) variant() string        { return "struct" }
func (t *Func) variant() string          { return "func" }
func (t *WithInjection) variant() string { return "injection" }
func (t *WithPolicy) variant() string    { return "policy" }

// Runtime is a store-level execution backend declaration. Models lists
// the model types managed by a relational runtime; conversion of such a
// runtime is deferred to finalization (lazy mode).
type Runtime struct {
	Name   string
	Data   map[string]any
	Models []TypeID
}

// Materializer is a store-level executable binding declaration.
type Materializer struct {
	Name    string
	Runtime RuntimeID
	Effect  typegraph.Effect
	Data    map[string]any
}

// Policy is a store-level authorization check declaration.
type Policy struct {
	Name         string
	Materializer MaterializerID
}

// Repr renders the textual representation of the type at the given id,
// used in validation error messages.
func (s *Store) Repr(id TypeID) string {
	t, err := s.GetType(id)
	if err != nil {
		return fmt.Sprintf("unknown #%d", id)
	}
	var b strings.Builder
	b.WriteString(t.variant())
	switch v := t.(type) {
	case *Proxy:
		fmt.Fprintf(&b, "(%s)", v.To)
	case *Array:
		fmt.Fprintf(&b, "(#%d)", v.Of)
	case *Optional:
		fmt.Fprintf(&b, "(#%d)", v.Of)
	case *Func:
		fmt.Fprintf(&b, "(#%d -> #%d)", v.Input, v.Output)
	}
	fmt.Fprintf(&b, " #%d", id)
	if name := t.Base().Name; name != "" {
		fmt.Fprintf(&b, " (%s)", name)
	}
	return b.String()
}
