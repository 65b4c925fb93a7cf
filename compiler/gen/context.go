// Package gen is the graph finalizer: it walks the session's type arena
// from the exposed root fields and flattens every reachable type,
// runtime, materializer, and policy into the 0-indexed arrays of the
// output document. Registration is memoized and cycle-safe through
// placeholder-then-fill slots.
package gen

import (
	"fmt"

	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/store"
)

// Context accumulates the output arrays of one finalization. It exists
// for the duration of one session and is owned by it exclusively.
type Context struct {
	store *store.Store
	name  string

	types         []*typegraph.TypeNode
	runtimes      []*typegraph.Runtime
	materializers []*typegraph.Materializer
	policies      []*typegraph.Policy

	typeIdx    map[store.TypeID]int
	runtimeIdx map[store.RuntimeID]int
	matIdx     map[store.MaterializerID]int
	policyIdx  map[store.PolicyID]int

	exposed    typegraph.Properties
	exposedSet map[string]struct{}

	secrets   []string
	secretSet map[string]struct{}

	meta typegraph.Meta
}

// NewContext creates the finalization context of a session. Slot 0 of
// the type array is reserved for the root object and filled at
// Finalize.
func NewContext(s *store.Store, name string, meta typegraph.Meta) *Context {
	return &Context{
		store:      s,
		name:       name,
		types:      []*typegraph.TypeNode{nil},
		typeIdx:    make(map[store.TypeID]int),
		runtimeIdx: make(map[store.RuntimeID]int),
		matIdx:     make(map[store.MaterializerID]int),
		policyIdx:  make(map[store.PolicyID]int),
		exposedSet: make(map[string]struct{}),
		secretSet:  make(map[string]struct{}),
		meta:       meta,
	}
}

// Name returns the typegraph name.
func (c *Context) Name() string {
	return c.name
}

// Store returns the session store the context reads from.
func (c *Context) Store() *store.Store {
	return c.store
}

// RegisterType converts the type at the given store id into an output
// slot and returns its index. Registration is memoized by resolved id:
// on first visit the slot and its mapping are reserved before the
// conversion recurses, so cyclic references observe the reserved index
// and terminate.
func (c *Context) RegisterType(id store.TypeID, runtimeOverride *int) (int, error) {
	resolved, err := c.store.ResolveProxy(id)
	if err != nil {
		return 0, err
	}
	if idx, ok := c.typeIdx[resolved]; ok {
		return idx, nil
	}

	idx := len(c.types)
	c.types = append(c.types, nil)
	c.typeIdx[resolved] = idx

	node, err := c.convert(resolved, runtimeOverride)
	if err != nil {
		return 0, err
	}
	c.types[idx] = node
	return idx, nil
}

// RegisterRuntime converts the runtime at the given store id and
// returns its output index. A runtime managing models converts lazily:
// its slot is reserved first, then the conversion registers the models
// and their relationships, and finally the slot is filled.
func (c *Context) RegisterRuntime(id store.RuntimeID) (int, error) {
	if idx, ok := c.runtimeIdx[id]; ok {
		return idx, nil
	}
	rt, err := c.store.GetRuntime(id)
	if err != nil {
		return 0, err
	}

	idx := len(c.runtimes)
	c.runtimes = append(c.runtimes, nil)
	c.runtimeIdx[id] = idx

	var converted *typegraph.Runtime
	if len(rt.Models) > 0 {
		converted, err = c.convertModelRuntime(rt, idx)
	} else {
		converted = &typegraph.Runtime{Name: rt.Name, Data: rt.Data}
	}
	if err != nil {
		return 0, err
	}
	c.runtimes[idx] = converted
	return idx, nil
}

// RegisterMaterializer converts the materializer at the given store id,
// registering its runtime as a side effect, and returns both output
// indices.
func (c *Context) RegisterMaterializer(id store.MaterializerID) (int, int, error) {
	if idx, ok := c.matIdx[id]; ok {
		return idx, c.materializers[idx].Runtime, nil
	}
	mat, err := c.store.GetMaterializer(id)
	if err != nil {
		return 0, 0, err
	}
	rtIdx, err := c.RegisterRuntime(mat.Runtime)
	if err != nil {
		return 0, 0, err
	}
	idx := len(c.materializers)
	c.materializers = append(c.materializers, &typegraph.Materializer{
		Name:    mat.Name,
		Runtime: rtIdx,
		Effect:  mat.Effect,
		Data:    mat.Data,
	})
	c.matIdx[id] = idx
	return idx, rtIdx, nil
}

// registerPolicy converts one policy, deduplicated by store id.
func (c *Context) registerPolicy(id store.PolicyID) (int, error) {
	if idx, ok := c.policyIdx[id]; ok {
		return idx, nil
	}
	p, err := c.store.GetPolicy(id)
	if err != nil {
		return 0, err
	}
	matIdx, _, err := c.RegisterMaterializer(p.Materializer)
	if err != nil {
		return 0, err
	}
	idx := len(c.policies)
	c.policies = append(c.policies, &typegraph.Policy{Name: p.Name, Materializer: matIdx})
	c.policyIdx[id] = idx
	return idx, nil
}

// RegisterPolicyChain converts a policy chain into output policy
// references. Every cited policy id is registered exactly once no
// matter how many chain entries reference it.
func (c *Context) RegisterPolicyChain(chain []store.PolicySpec) ([]typegraph.PolicyIndices, error) {
	out := make([]typegraph.PolicyIndices, 0, len(chain))
	for _, spec := range chain {
		switch {
		case spec.Simple != nil:
			idx, err := c.registerPolicy(*spec.Simple)
			if err != nil {
				return nil, err
			}
			out = append(out, typegraph.PolicyIndices{Policy: &idx})
		case spec.PerEffect != nil:
			pe := &typegraph.PolicyIndicesByEffect{}
			for _, e := range []struct {
				id  *store.PolicyID
				out **int
			}{
				{spec.PerEffect.None, &pe.None},
				{spec.PerEffect.Create, &pe.Create},
				{spec.PerEffect.Update, &pe.Update},
				{spec.PerEffect.Delete, &pe.Delete},
			} {
				if e.id == nil {
					continue
				}
				idx, err := c.registerPolicy(*e.id)
				if err != nil {
					return nil, err
				}
				*e.out = &idx
			}
			out = append(out, typegraph.PolicyIndices{PerEffect: pe})
		default:
			return nil, fmt.Errorf("gen: empty policy chain entry")
		}
	}
	return out, nil
}

// AddSecret records a secret name in the output metadata, deduplicated
// and in first-seen order.
func (c *Context) AddSecret(name string) {
	if _, ok := c.secretSet[name]; ok {
		return
	}
	c.secretSet[name] = struct{}{}
	c.secrets = append(c.secrets, name)
}

// Finalize assembles the output document. Every reserved slot must have
// been filled by a completed conversion; an unfilled slot means a type
// was referenced but never converted and is a definitional error.
func (c *Context) Finalize() (*typegraph.Typegraph, error) {
	root := &typegraph.TypeNode{
		Kind:       typegraph.KindObject,
		Title:      c.name,
		Runtime:    0,
		Policies:   []typegraph.PolicyIndices{},
		Properties: c.exposed,
	}
	for _, p := range c.exposed {
		root.Required = append(root.Required, p.Key)
	}
	c.types[0] = root

	for i, node := range c.types {
		if node == nil {
			return nil, fmt.Errorf("gen: type %d was not finalized", i)
		}
	}
	for i, rt := range c.runtimes {
		if rt == nil {
			return nil, fmt.Errorf("gen: runtime %d was not finalized", i)
		}
	}

	meta := c.meta
	meta.Secrets = append(meta.Secrets, c.secrets...)
	meta.Version = typegraph.Version

	return &typegraph.Typegraph{
		ID:            c.name,
		Types:         c.types,
		Materializers: c.materializers,
		Runtimes:      c.runtimes,
		Policies:      c.policies,
		Meta:          meta,
	}, nil
}
