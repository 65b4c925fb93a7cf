package gen

import (
	"fmt"

	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/store"
)

// convert produces the output node of one resolved store type. The
// switch is exhaustive over the sealed variant set; an unknown variant
// is a programming error.
func (c *Context) convert(id store.TypeID, runtimeOverride *int) (*typegraph.TypeNode, error) {
	t, err := c.store.GetType(id)
	if err != nil {
		return nil, err
	}

	runtime := 0
	if runtimeOverride != nil {
		runtime = *runtimeOverride
	}
	node := &typegraph.TypeNode{
		Runtime:  runtime,
		Policies: []typegraph.PolicyIndices{},
		Config:   t.Base().Config,
	}

	switch v := t.(type) {
	case *store.Proxy:
		// RegisterType resolves proxies before converting.
		return nil, fmt.Errorf("gen: proxy %q reached conversion unresolved", v.To)

	case *store.Integer:
		node.Kind = typegraph.KindInteger
		node.Minimum = v.Min
		node.Maximum = v.Max
		node.ExclusiveMinimum = v.ExclusiveMin
		node.ExclusiveMaximum = v.ExclusiveMax

	case *store.Float:
		node.Kind = typegraph.KindFloat
		node.Minimum = v.Min
		node.Maximum = v.Max
		node.ExclusiveMinimum = v.ExclusiveMin
		node.ExclusiveMaximum = v.ExclusiveMax

	case *store.Boolean:
		node.Kind = typegraph.KindBoolean

	case *store.StringT:
		node.Kind = typegraph.KindString
		node.MinLength = v.MinLength
		node.MaxLength = v.MaxLength

	case *store.Array:
		node.Kind = typegraph.KindArray
		items, err := c.RegisterType(v.Of, runtimeOverride)
		if err != nil {
			return nil, err
		}
		node.Items = &items
		node.MinItems = v.MinItems
		node.MaxItems = v.MaxItems

	case *store.Optional:
		node.Kind = typegraph.KindOptional
		item, err := c.RegisterType(v.Of, runtimeOverride)
		if err != nil {
			return nil, err
		}
		node.Item = &item
		node.DefaultValue = v.DefaultItem

	case *store.Union:
		node.Kind = typegraph.KindUnion
		node.AnyOf, err = c.registerVariants(v.Variants, runtimeOverride)
		if err != nil {
			return nil, err
		}

	case *store.Either:
		node.Kind = typegraph.KindEither
		node.OneOf, err = c.registerVariants(v.Variants, runtimeOverride)
		if err != nil {
			return nil, err
		}

	case *store.Struct:
		node.Kind = typegraph.KindObject
		node.Properties = typegraph.Properties{}
		for _, prop := range v.Props {
			idx, err := c.RegisterType(prop.Type, runtimeOverride)
			if err != nil {
				return nil, err
			}
			node.Properties = append(node.Properties, typegraph.Property{Key: prop.Key, Type: idx})
			optional, err := c.isOptional(prop.Type)
			if err != nil {
				return nil, err
			}
			if !optional {
				node.Required = append(node.Required, prop.Key)
			}
		}

	case *store.Func:
		node.Kind = typegraph.KindFunction
		input, err := c.store.ResolveProxy(v.Input)
		if err != nil {
			return nil, err
		}
		inputType, err := c.store.GetType(input)
		if err != nil {
			return nil, err
		}
		if _, ok := inputType.(*store.Struct); !ok {
			return nil, typegraph.NewInvalidInputTypeError(c.store.Repr(input))
		}
		// The materializer goes first: a model-managing runtime claims
		// its types, with their own runtime override, before the
		// function's input and output are registered.
		matIdx, rtIdx, err := c.RegisterMaterializer(v.Mat)
		if err != nil {
			return nil, err
		}
		in, err := c.RegisterType(input, &rtIdx)
		if err != nil {
			return nil, err
		}
		out, err := c.RegisterType(v.Output, &rtIdx)
		if err != nil {
			return nil, err
		}
		node.Input = &in
		node.Output = &out
		node.Materializer = &matIdx
		node.Runtime = rtIdx

	case *store.WithInjection:
		inner, err := c.convertWrapped(v.Of, runtimeOverride)
		if err != nil {
			return nil, err
		}
		inner.Injection = v.Injection
		if name := v.Attrs.Name; name != "" {
			inner.Title = name
		}
		return inner, nil

	case *store.WithPolicy:
		inner, err := c.convertWrapped(v.Of, runtimeOverride)
		if err != nil {
			return nil, err
		}
		chain, err := c.RegisterPolicyChain(v.Chain)
		if err != nil {
			return nil, err
		}
		inner.Policies = append(inner.Policies, chain...)
		if name := v.Attrs.Name; name != "" {
			inner.Title = name
		}
		return inner, nil

	default:
		return nil, fmt.Errorf("gen: unknown type variant %T", t)
	}

	node.Title = c.title(t, id)
	return node, nil
}

// convertWrapped converts the node wrapped by an injection or policy
// wrapper inline, into the wrapper's own output slot. The wrapped store
// node itself is left untouched and keeps its own slot if referenced
// elsewhere.
func (c *Context) convertWrapped(id store.TypeID, runtimeOverride *int) (*typegraph.TypeNode, error) {
	resolved, err := c.store.ResolveProxy(id)
	if err != nil {
		return nil, err
	}
	return c.convert(resolved, runtimeOverride)
}

func (c *Context) registerVariants(variants []store.TypeID, runtimeOverride *int) ([]int, error) {
	out := make([]int, 0, len(variants))
	for _, v := range variants {
		idx, err := c.RegisterType(v, runtimeOverride)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

// isOptional reports whether a struct property is optional: its
// resolved type, unwrapped of injection and policy wrappers, is an
// Optional.
func (c *Context) isOptional(id store.TypeID) (bool, error) {
	for {
		resolved, err := c.store.ResolveProxy(id)
		if err != nil {
			return false, err
		}
		t, err := c.store.GetType(resolved)
		if err != nil {
			return false, err
		}
		switch v := t.(type) {
		case *store.Optional:
			return true, nil
		case *store.WithInjection:
			id = v.Of
		case *store.WithPolicy:
			id = v.Of
		default:
			return false, nil
		}
	}
}

// title derives the output node title: the declared or synthesized name
// when present, otherwise the variant name suffixed with the store id.
func (c *Context) title(t store.Type, id store.TypeID) string {
	if name := t.Base().Name; name != "" {
		return name
	}
	var kind string
	switch t.(type) {
	case *store.Integer:
		kind = "integer"
	case *store.Float:
		kind = "float"
	case *store.Boolean:
		kind = "boolean"
	case *store.StringT:
		kind = "string"
	case *store.Array:
		kind = "array"
	case *store.Optional:
		kind = "optional"
	case *store.Union:
		kind = "union"
	case *store.Either:
		kind = "either"
	case *store.Struct:
		kind = "object"
	case *store.Func:
		kind = "func"
	default:
		kind = "type"
	}
	return fmt.Sprintf("%s_%d", kind, id)
}
