package prisma

import (
	"sort"

	"github.com/syssam/typegraph/compiler/store"
)

type fieldRef struct {
	model store.TypeID
	field string
}

// Registry catalogs the validated relationships of one finalization
// pass. It reads the store but never mutates type nodes.
type Registry struct {
	store         *store.Store
	relationships map[string]*Relationship
	index         map[fieldRef]string
}

// NewRegistry creates an empty registry over the given store.
func NewRegistry(s *store.Store) *Registry {
	return &Registry{
		store:         s,
		relationships: make(map[string]*Relationship),
		index:         make(map[fieldRef]string),
	}
}

// Manage registers every relationship touching the given model. It is
// idempotent: a model pair already registered, from either side, is a
// no-op.
func (r *Registry) Manage(modelID store.TypeID) error {
	resolved, err := r.store.ResolveProxy(modelID)
	if err != nil {
		return err
	}
	t, err := r.store.GetType(resolved)
	if err != nil {
		return err
	}
	model, ok := t.(*store.Struct)
	if !ok || model.Attrs.Name == "" {
		return NewUnnamedModelError(r.store.Repr(resolved))
	}

	cands, err := discover(r.store, model)
	if err != nil {
		return err
	}
	for _, c := range cands {
		if _, done := r.index[fieldRef{resolved, c.field}]; done {
			continue
		}
		if err := r.pair(resolved, model.Attrs.Name, c); err != nil {
			return err
		}
	}
	return nil
}

// pair matches the candidate edge against the target model's
// back-reference candidates and inserts the resulting relationship.
func (r *Registry) pair(modelID store.TypeID, modelName string, c candidate) error {
	targetType, err := r.store.GetType(c.target)
	if err != nil {
		return err
	}
	targetStruct := targetType.(*store.Struct)

	all, err := discover(r.store, targetStruct)
	if err != nil {
		return err
	}
	var back []candidate
	for _, b := range all {
		if b.target != modelID {
			continue
		}
		if c.target == modelID && b.field == c.field {
			// Self relationship: a field cannot pair with itself.
			continue
		}
		if c.targetField != "" && b.field != c.targetField {
			continue
		}
		if b.targetField != "" && b.targetField != c.field {
			continue
		}
		back = append(back, b)
	}

	g, err := chooseBack(modelName, c, back)
	if err != nil {
		return err
	}
	rel, err := buildRelationship(modelID, modelName, c, *g)
	if err != nil {
		return err
	}

	if existing, used := r.relationships[rel.Name]; used {
		if existing.Left != rel.Left || existing.Right != rel.Right {
			return NewNameConflictError(rel.Name)
		}
		return nil
	}
	r.relationships[rel.Name] = rel
	r.index[fieldRef{modelID, c.field}] = rel.Name
	r.index[fieldRef{c.target, g.field}] = rel.Name
	return nil
}

// chooseBack selects the single back-reference field pairing with the
// candidate, using explicit relationship names to disambiguate when the
// target declares several.
func chooseBack(modelName string, c candidate, back []candidate) (*candidate, error) {
	switch len(back) {
	case 0:
		return nil, NewNoRelationshipTargetError(modelName, c.field, c.targetName)
	case 1:
		return &back[0], nil
	}

	var named, unnamed []candidate
	for _, b := range back {
		if b.relName != "" {
			named = append(named, b)
		} else {
			unnamed = append(unnamed, b)
		}
	}
	if c.relName != "" {
		var matching []candidate
		for _, b := range named {
			if b.relName == c.relName {
				matching = append(matching, b)
			}
		}
		if len(matching) == 1 {
			return &matching[0], nil
		}
		if len(matching) == 0 && len(unnamed) == 1 {
			return &unnamed[0], nil
		}
	} else {
		// Back candidates with an explicit name pair with fields
		// citing that name; they do not compete here.
		if len(unnamed) == 1 {
			return &unnamed[0], nil
		}
		if len(unnamed) == 0 && len(named) == 1 {
			return &named[0], nil
		}
	}

	fields := make([]string, len(back))
	for i, b := range back {
		fields[i] = b.field
	}
	return nil, NewAmbiguousSideError(c.targetName, fields, modelName, c.field)
}

// buildRelationship assembles the two endpoints, reconciles the explicit
// attributes, assigns the foreign-key side, and derives the name.
func buildRelationship(modelID store.TypeID, modelName string, c, g candidate) (*Relationship, error) {
	// Each endpoint's cardinality is the multiplicity of its model,
	// given by how the opposite field references it.
	endS := RelationshipModel{
		ModelType:   modelID,
		ModelName:   modelName,
		WrapperType: c.wrapper,
		Cardinality: g.card,
		Field:       c.field,
	}
	endT := RelationshipModel{
		ModelType:   c.target,
		ModelName:   c.targetName,
		WrapperType: g.wrapper,
		Cardinality: c.card,
		Field:       g.field,
	}

	right, err := fkeySide(modelName, c, g, endS, endT)
	if err != nil {
		return nil, err
	}
	var rel Relationship
	if right == &endS {
		rel.Left, rel.Right = endT, endS
	} else {
		rel.Left, rel.Right = endS, endT
	}
	if rel.Left.Cardinality == Many || rel.Right.Cardinality == One {
		// Only an explicit fkey hint can produce an invalid pair.
		return nil, NewConflictingAttributesError(attrFkey, c.targetName, g.field, modelName, c.field)
	}

	name, err := relName(modelName, c, g, &rel)
	if err != nil {
		return nil, err
	}
	rel.Name = name
	return &rel, nil
}

// fkeySide decides which endpoint owns the foreign key: explicit fkey
// attributes win; otherwise the endpoint with the higher cardinality
// rank; an (Optional, Optional) pair without hints tie-breaks on the
// lexicographically smaller model name (field name for self
// relationships), keeping the result independent of declaration order.
func fkeySide(modelName string, c, g candidate, endS, endT RelationshipModel) (*RelationshipModel, error) {
	if c.fkey != nil && g.fkey != nil {
		if *c.fkey == *g.fkey {
			return nil, NewConflictingAttributesError(attrFkey, c.targetName, g.field, modelName, c.field)
		}
		if *c.fkey {
			return &endS, nil
		}
		return &endT, nil
	}
	if c.fkey != nil {
		if *c.fkey {
			return &endS, nil
		}
		return &endT, nil
	}
	if g.fkey != nil {
		if *g.fkey {
			return &endT, nil
		}
		return &endS, nil
	}

	switch {
	case endS.Cardinality > endT.Cardinality:
		return &endS, nil
	case endT.Cardinality > endS.Cardinality:
		return &endT, nil
	case endS.Cardinality == Optional:
		if endS.ModelType == endT.ModelType {
			if endS.Field < endT.Field {
				return &endS, nil
			}
			return &endT, nil
		}
		if endS.ModelName < endT.ModelName {
			return &endS, nil
		}
		return &endT, nil
	}
	return nil, NewAmbiguousSideError(c.targetName, []string{g.field}, modelName, c.field)
}

// relName reconciles the explicit relationship names, deriving a
// deterministic default from the canonical side assignment when neither
// side declares one.
func relName(modelName string, c, g candidate, rel *Relationship) (string, error) {
	if c.relName != "" && g.relName != "" && c.relName != g.relName {
		return "", NewConflictingAttributesError(attrRelName, c.targetName, g.field, modelName, c.field)
	}
	if c.relName != "" {
		return c.relName, nil
	}
	if g.relName != "" {
		return g.relName, nil
	}
	return "rel_" + rel.Right.ModelName + "_" + rel.Left.ModelName + "_" + rel.Right.Field + "_" + rel.Left.Field, nil
}

// Get returns the relationship registered under the given name.
func (r *Registry) Get(name string) (*Relationship, bool) {
	rel, ok := r.relationships[name]
	return rel, ok
}

// Len returns the number of registered relationships.
func (r *Registry) Len() int {
	return len(r.relationships)
}

// Names returns the registered relationship names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.relationships))
	for name := range r.relationships {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NameOf returns the name of the relationship the given model field
// belongs to.
func (r *Registry) NameOf(modelID store.TypeID, field string) (string, bool) {
	name, ok := r.index[fieldRef{modelID, field}]
	return name, ok
}

// OppositeOf returns the endpoint opposite to the given model field, or
// nil if the field is not part of any relationship.
func (r *Registry) OppositeOf(modelID store.TypeID, field string) *RelationshipModel {
	name, ok := r.index[fieldRef{modelID, field}]
	if !ok {
		return nil
	}
	return r.relationships[name].GetOppositeOf(modelID, field)
}

// SideOfType locates the relationship and side a declared field wrapper
// type belongs to.
func (r *Registry) SideOfType(wrapperType store.TypeID) (*Relationship, Side, bool) {
	for _, rel := range r.relationships {
		if side, ok := rel.SideOfType(wrapperType); ok {
			return rel, side, true
		}
	}
	return nil, 0, false
}
