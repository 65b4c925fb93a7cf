// Package store implements the append-only arenas of one compilation
// session: every type, runtime, materializer, and policy created during
// the session, a name registry enabling forward (proxy) references, and
// save/restore snapshots for session isolation.
package store

import (
	"github.com/syssam/typegraph"
)

// Store is the mutable arena of one compilation session. It is not safe
// for concurrent use; a session owns its store exclusively.
type Store struct {
	types         []Type
	names         map[string]TypeID
	runtimes      []Runtime
	materializers []Materializer
	policies      []Policy
}

// New creates an empty store.
func New() *Store {
	return &Store{names: make(map[string]TypeID)}
}

// AddType allocates the next type id, invokes build with it so that
// self-referential naming is possible, and appends the produced node.
// Validation happens before this call; AddType always succeeds. A named
// node is recorded in the name registry, shadowing any earlier type of
// the same name.
func (s *Store) AddType(build func(TypeID) Type) TypeID {
	id := TypeID(len(s.types))
	t := build(id)
	s.types = append(s.types, t)
	if name := t.Base().Name; name != "" {
		s.names[name] = id
	}
	return id
}

// GetType returns the node at the given id. An out-of-range id is a
// programming defect upstream and reported as NotFound.
func (s *Store) GetType(id TypeID) (Type, error) {
	if int(id) >= len(s.types) {
		return nil, typegraph.NewNotFoundError("type", uint32(id))
	}
	return s.types[id], nil
}

// TypeName returns the declared or synthesized name of the node at the
// given id, or the empty string if the node is unnamed.
func (s *Store) TypeName(id TypeID) (string, error) {
	t, err := s.GetType(id)
	if err != nil {
		return "", err
	}
	return t.Base().Name, nil
}

// Lookup returns the id registered under the given name.
func (s *Store) Lookup(name string) (TypeID, bool) {
	id, ok := s.names[name]
	return id, ok
}

// ResolveProxy follows proxy nodes by name until a concrete type is
// reached. A non-proxy id is returned unchanged. A name that was never
// registered fails with UnresolvedProxy; so does a proxy chain that
// loops back on itself.
func (s *Store) ResolveProxy(id TypeID) (TypeID, error) {
	visited := map[TypeID]struct{}{}
	for {
		t, err := s.GetType(id)
		if err != nil {
			return 0, err
		}
		p, ok := t.(*Proxy)
		if !ok {
			return id, nil
		}
		if _, seen := visited[id]; seen {
			return 0, typegraph.NewUnresolvedProxyError(p.To)
		}
		visited[id] = struct{}{}
		target, ok := s.names[p.To]
		if !ok {
			return 0, typegraph.NewUnresolvedProxyError(p.To)
		}
		id = target
	}
}

// RegisterRuntime appends a runtime declaration and returns its id.
// There is no deduplication by value; identity is assignment order.
func (s *Store) RegisterRuntime(rt Runtime) RuntimeID {
	s.runtimes = append(s.runtimes, rt)
	return RuntimeID(len(s.runtimes) - 1)
}

// GetRuntime returns the runtime declaration at the given id.
func (s *Store) GetRuntime(id RuntimeID) (Runtime, error) {
	if int(id) >= len(s.runtimes) {
		return Runtime{}, typegraph.NewNotFoundError("runtime", uint32(id))
	}
	return s.runtimes[id], nil
}

// RegisterMaterializer appends a materializer declaration and returns
// its id.
func (s *Store) RegisterMaterializer(mat Materializer) MaterializerID {
	s.materializers = append(s.materializers, mat)
	return MaterializerID(len(s.materializers) - 1)
}

// GetMaterializer returns the materializer declaration at the given id.
func (s *Store) GetMaterializer(id MaterializerID) (Materializer, error) {
	if int(id) >= len(s.materializers) {
		return Materializer{}, typegraph.NewNotFoundError("materializer", uint32(id))
	}
	return s.materializers[id], nil
}

// RegisterPolicy appends a policy declaration and returns its id.
func (s *Store) RegisterPolicy(p Policy) PolicyID {
	s.policies = append(s.policies, p)
	return PolicyID(len(s.policies) - 1)
}

// GetPolicy returns the policy declaration at the given id.
func (s *Store) GetPolicy(id PolicyID) (Policy, error) {
	if int(id) >= len(s.policies) {
		return Policy{}, typegraph.NewNotFoundError("policy", uint32(id))
	}
	return s.policies[id], nil
}

// Snapshot captures the arena lengths at a point in time.
type Snapshot struct {
	types         int
	runtimes      int
	materializers int
	policies      int
}

// Save captures the current arena lengths.
func (s *Store) Save() Snapshot {
	return Snapshot{
		types:         len(s.types),
		runtimes:      len(s.runtimes),
		materializers: len(s.materializers),
		policies:      len(s.policies),
	}
}

// Restore truncates the arenas back to a snapshot and rebuilds the name
// registry from the surviving nodes. State created after the snapshot
// never leaks into a later session.
func (s *Store) Restore(snap Snapshot) {
	s.types = s.types[:snap.types]
	s.runtimes = s.runtimes[:snap.runtimes]
	s.materializers = s.materializers[:snap.materializers]
	s.policies = s.policies[:snap.policies]
	s.names = make(map[string]TypeID, len(s.types))
	for id, t := range s.types {
		if name := t.Base().Name; name != "" {
			s.names[name] = TypeID(id)
		}
	}
}
