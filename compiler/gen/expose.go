package gen

import (
	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/store"
)

// Export is one (key, type) pair attached to the root object.
type Export struct {
	Key  string
	Type store.TypeID
}

// Expose attaches fields to the root object, in the order given. The
// operation is two-phase: every field is validated first, and only then
// are the fields wrapped, registered, and committed — a failing field
// leaves the root property set untouched.
//
// A field without a policy chain of its own is wrapped with the default
// chain when one is supplied.
func (c *Context) Expose(fields []Export, defaultPolicy []store.PolicySpec) error {
	batch := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if !store.ValidIdent(f.Key) {
			return typegraph.NewInvalidExportNameError(f.Key)
		}
		if _, dup := c.exposedSet[f.Key]; dup {
			return typegraph.NewDuplicateExportNameError(f.Key)
		}
		if _, dup := batch[f.Key]; dup {
			return typegraph.NewDuplicateExportNameError(f.Key)
		}
		batch[f.Key] = struct{}{}
		if err := c.validateExportable(f.Key, f.Type, map[store.TypeID]struct{}{}); err != nil {
			return err
		}
	}

	for _, f := range fields {
		id := f.Type
		if len(defaultPolicy) > 0 {
			guarded, err := c.hasPolicy(id)
			if err != nil {
				return err
			}
			if !guarded {
				id = c.store.AddType(func(store.TypeID) store.Type {
					return &store.WithPolicy{Of: f.Type, Chain: defaultPolicy}
				})
			}
		}
		idx, err := c.RegisterType(id, nil)
		if err != nil {
			return err
		}
		c.exposed = append(c.exposed, typegraph.Property{Key: f.Key, Type: idx})
		c.exposedSet[f.Key] = struct{}{}
	}
	return nil
}

// validateExportable checks that an exported type is a function, or a
// struct namespace whose members are themselves exportable. The visited
// set keeps cyclic namespaces from recursing forever.
func (c *Context) validateExportable(key string, id store.TypeID, visited map[store.TypeID]struct{}) error {
	resolved, err := c.store.ResolveProxy(id)
	if err != nil {
		return err
	}
	if _, seen := visited[resolved]; seen {
		return nil
	}
	visited[resolved] = struct{}{}

	t, err := c.store.GetType(resolved)
	if err != nil {
		return err
	}
	switch v := t.(type) {
	case *store.Func:
		return nil
	case *store.WithInjection:
		return c.validateExportable(key, v.Of, visited)
	case *store.WithPolicy:
		return c.validateExportable(key, v.Of, visited)
	case *store.Struct:
		for _, prop := range v.Props {
			if err := c.validateExportable(key, prop.Type, visited); err != nil {
				return err
			}
		}
		return nil
	}
	return typegraph.NewInvalidExportTypeError(key, c.store.Repr(resolved))
}

// hasPolicy reports whether the type carries its own policy chain,
// looking through injection wrappers.
func (c *Context) hasPolicy(id store.TypeID) (bool, error) {
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
		case *store.WithPolicy:
			return true, nil
		case *store.WithInjection:
			id = v.Of
		default:
			return false, nil
		}
	}
}
