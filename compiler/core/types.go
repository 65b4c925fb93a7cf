package core

import (
	"fmt"

	"github.com/syssam/typegraph/compiler/store"
)

// builderBase carries the shared attributes every type builder accepts.
type builderBase struct {
	name   string
	config map[string]string
}

func (b *builderBase) set(key, value string) {
	if b.config == nil {
		b.config = map[string]string{}
	}
	b.config[key] = value
}

func (b *builderBase) base() store.Base {
	return store.Base{Name: b.name, Config: b.config}
}

// IntegerBuilder builds a bounded integer type.
type IntegerBuilder struct {
	c *Compiler
	builderBase
	min, max, xmin, xmax *float64
}

// Integer starts an integer type.
func (c *Compiler) Integer() *IntegerBuilder {
	return &IntegerBuilder{c: c}
}

// Min sets the inclusive minimum.
func (b *IntegerBuilder) Min(v float64) *IntegerBuilder { b.min = &v; return b }

// Max sets the inclusive maximum.
func (b *IntegerBuilder) Max(v float64) *IntegerBuilder { b.max = &v; return b }

// ExclusiveMin sets the exclusive minimum.
func (b *IntegerBuilder) ExclusiveMin(v float64) *IntegerBuilder { b.xmin = &v; return b }

// ExclusiveMax sets the exclusive maximum.
func (b *IntegerBuilder) ExclusiveMax(v float64) *IntegerBuilder { b.xmax = &v; return b }

// Named names the type, registering it for proxy resolution.
func (b *IntegerBuilder) Named(name string) *IntegerBuilder { b.name = name; return b }

// Config attaches a free-form runtime configuration pair.
func (b *IntegerBuilder) Config(key, value string) *IntegerBuilder { b.set(key, value); return b }

// Build validates the bounds and adds the type.
func (b *IntegerBuilder) Build() (store.TypeID, error) {
	if err := store.ValidateBounds(b.min, b.max, b.xmin, b.xmax); err != nil {
		return 0, err
	}
	return b.c.store.AddType(func(store.TypeID) store.Type {
		return &store.Integer{Attrs: b.base(), Min: b.min, Max: b.max, ExclusiveMin: b.xmin, ExclusiveMax: b.xmax}
	}), nil
}

// FloatBuilder builds a bounded float type.
type FloatBuilder struct {
	c *Compiler
	builderBase
	min, max, xmin, xmax *float64
}

// Float starts a float type.
func (c *Compiler) Float() *FloatBuilder {
	return &FloatBuilder{c: c}
}

// Min sets the inclusive minimum.
func (b *FloatBuilder) Min(v float64) *FloatBuilder { b.min = &v; return b }

// Max sets the inclusive maximum.
func (b *FloatBuilder) Max(v float64) *FloatBuilder { b.max = &v; return b }

// ExclusiveMin sets the exclusive minimum.
func (b *FloatBuilder) ExclusiveMin(v float64) *FloatBuilder { b.xmin = &v; return b }

// ExclusiveMax sets the exclusive maximum.
func (b *FloatBuilder) ExclusiveMax(v float64) *FloatBuilder { b.xmax = &v; return b }

// Named names the type.
func (b *FloatBuilder) Named(name string) *FloatBuilder { b.name = name; return b }

// Build validates the bounds and adds the type.
func (b *FloatBuilder) Build() (store.TypeID, error) {
	if err := store.ValidateBounds(b.min, b.max, b.xmin, b.xmax); err != nil {
		return 0, err
	}
	return b.c.store.AddType(func(store.TypeID) store.Type {
		return &store.Float{Attrs: b.base(), Min: b.min, Max: b.max, ExclusiveMin: b.xmin, ExclusiveMax: b.xmax}
	}), nil
}

// BooleanBuilder builds the boolean type.
type BooleanBuilder struct {
	c *Compiler
	builderBase
}

// Boolean starts a boolean type.
func (c *Compiler) Boolean() *BooleanBuilder {
	return &BooleanBuilder{c: c}
}

// Named names the type.
func (b *BooleanBuilder) Named(name string) *BooleanBuilder { b.name = name; return b }

// Build adds the type.
func (b *BooleanBuilder) Build() (store.TypeID, error) {
	return b.c.store.AddType(func(store.TypeID) store.Type {
		return &store.Boolean{Attrs: b.base()}
	}), nil
}

// StringBuilder builds a length-bounded string type.
type StringBuilder struct {
	c *Compiler
	builderBase
	min, max *uint32
}

// String starts a string type.
func (c *Compiler) String() *StringBuilder {
	return &StringBuilder{c: c}
}

// MinLength sets the minimum length.
func (b *StringBuilder) MinLength(v uint32) *StringBuilder { b.min = &v; return b }

// MaxLength sets the maximum length.
func (b *StringBuilder) MaxLength(v uint32) *StringBuilder { b.max = &v; return b }

// Named names the type.
func (b *StringBuilder) Named(name string) *StringBuilder { b.name = name; return b }

// Build validates the length bounds and adds the type.
func (b *StringBuilder) Build() (store.TypeID, error) {
	if err := store.ValidateLengthBounds(b.min, b.max); err != nil {
		return 0, err
	}
	return b.c.store.AddType(func(store.TypeID) store.Type {
		return &store.StringT{Attrs: b.base(), MinLength: b.min, MaxLength: b.max}
	}), nil
}

// StructBuilder builds a struct type with ordered properties.
type StructBuilder struct {
	c *Compiler
	builderBase
	props []store.Prop
}

// Struct starts a struct type.
func (c *Compiler) Struct() *StructBuilder {
	return &StructBuilder{c: c}
}

// Prop appends a property. Order is declaration order.
func (b *StructBuilder) Prop(key string, t store.TypeID) *StructBuilder {
	b.props = append(b.props, store.Prop{Key: key, Type: t})
	return b
}

// Named names the type, making it addressable by proxies and eligible
// as a relationship model.
func (b *StructBuilder) Named(name string) *StructBuilder { b.name = name; return b }

// Config attaches a free-form runtime configuration pair.
func (b *StructBuilder) Config(key, value string) *StructBuilder { b.set(key, value); return b }

// Build validates the property keys and adds the type.
func (b *StructBuilder) Build() (store.TypeID, error) {
	if err := store.ValidateProps(b.props); err != nil {
		return 0, err
	}
	return b.c.store.AddType(func(store.TypeID) store.Type {
		return &store.Struct{Attrs: b.base(), Props: b.props}
	}), nil
}

// ArrayBuilder builds a homogeneous list type.
type ArrayBuilder struct {
	c *Compiler
	builderBase
	of       store.TypeID
	min, max *uint32
}

// Array starts an array of the given element type.
func (c *Compiler) Array(of store.TypeID) *ArrayBuilder {
	return &ArrayBuilder{c: c, of: of}
}

// MinItems sets the minimum length.
func (b *ArrayBuilder) MinItems(v uint32) *ArrayBuilder { b.min = &v; return b }

// MaxItems sets the maximum length.
func (b *ArrayBuilder) MaxItems(v uint32) *ArrayBuilder { b.max = &v; return b }

// Named names the type.
func (b *ArrayBuilder) Named(name string) *ArrayBuilder { b.name = name; return b }

// Build validates the length bounds and adds the type. An unnamed array
// over a named element inherits a synthesized name, unique through the
// id prefix.
func (b *ArrayBuilder) Build() (store.TypeID, error) {
	if err := store.ValidateLengthBounds(b.min, b.max); err != nil {
		return 0, err
	}
	return b.c.store.AddType(func(id store.TypeID) store.Type {
		attrs := b.base()
		if attrs.Name == "" {
			if elem, err := b.c.store.TypeName(b.of); err == nil && elem != "" {
				attrs.Name = fmt.Sprintf("_%d_%s[]", id, elem)
			}
		}
		return &store.Array{Attrs: attrs, Of: b.of, MinItems: b.min, MaxItems: b.max}
	}), nil
}

// OptionalBuilder builds a nullable wrapper type.
type OptionalBuilder struct {
	c *Compiler
	builderBase
	of          store.TypeID
	defaultItem any
}

// Optional starts an optional wrapper over the given type.
func (c *Compiler) Optional(of store.TypeID) *OptionalBuilder {
	return &OptionalBuilder{c: c, of: of}
}

// Default sets the default value.
func (b *OptionalBuilder) Default(v any) *OptionalBuilder { b.defaultItem = v; return b }

// Named names the type.
func (b *OptionalBuilder) Named(name string) *OptionalBuilder { b.name = name; return b }

// Config attaches a free-form runtime configuration pair.
func (b *OptionalBuilder) Config(key, value string) *OptionalBuilder { b.set(key, value); return b }

// Build adds the type. An unnamed optional over a named element
// inherits a synthesized name, unique through the id prefix.
func (b *OptionalBuilder) Build() (store.TypeID, error) {
	return b.c.store.AddType(func(id store.TypeID) store.Type {
		attrs := b.base()
		if attrs.Name == "" {
			if elem, err := b.c.store.TypeName(b.of); err == nil && elem != "" {
				attrs.Name = fmt.Sprintf("_%d_%s?", id, elem)
			}
		}
		return &store.Optional{Attrs: attrs, Of: b.of, DefaultItem: b.defaultItem}
	}), nil
}

// Union adds an untagged union of the given variants.
func (c *Compiler) Union(variants ...store.TypeID) (store.TypeID, error) {
	return c.store.AddType(func(store.TypeID) store.Type {
		return &store.Union{Variants: variants}
	}), nil
}

// Either adds an exclusive union of the given variants.
func (c *Compiler) Either(variants ...store.TypeID) (store.TypeID, error) {
	return c.store.AddType(func(store.TypeID) store.Type {
		return &store.Either{Variants: variants}
	}), nil
}

// FuncBuilder builds a function type.
type FuncBuilder struct {
	c *Compiler
	builderBase
	input, output store.TypeID
	mat           store.MaterializerID
}

// Func starts a function type bound to a materializer.
func (c *Compiler) Func(input, output store.TypeID, mat store.MaterializerID) *FuncBuilder {
	return &FuncBuilder{c: c, input: input, output: output, mat: mat}
}

// Named names the type.
func (b *FuncBuilder) Named(name string) *FuncBuilder { b.name = name; return b }

// Build checks that the input resolves to a struct and adds the type.
func (b *FuncBuilder) Build() (store.TypeID, error) {
	if err := b.c.store.ValidateFuncInput(b.input); err != nil {
		return 0, err
	}
	return b.c.store.AddType(func(store.TypeID) store.Type {
		return &store.Func{Attrs: b.base(), Input: b.input, Output: b.output, Mat: b.mat}
	}), nil
}

// Proxy adds a named forward reference.
func (c *Compiler) Proxy(name string) store.TypeID {
	return c.ProxyWith(name, nil)
}

// ProxyWith adds a named forward reference carrying free-form attribute
// pairs consumed by runtime-specific conversion.
func (c *Compiler) ProxyWith(name string, extras map[string]string) store.TypeID {
	return c.store.AddType(func(store.TypeID) store.Type {
		return &store.Proxy{To: name, Extras: extras}
	})
}

// WithInjection wraps a type with an opaque injection payload, leaving
// the wrapped node untouched.
func (c *Compiler) WithInjection(of store.TypeID, injection string) store.TypeID {
	return c.store.AddType(func(store.TypeID) store.Type {
		return &store.WithInjection{Of: of, Injection: injection}
	})
}

// WithPolicy wraps a type with a policy chain, leaving the wrapped node
// untouched.
func (c *Compiler) WithPolicy(of store.TypeID, chain []store.PolicySpec) store.TypeID {
	return c.store.AddType(func(store.TypeID) store.Type {
		return &store.WithPolicy{Of: of, Chain: chain}
	})
}
