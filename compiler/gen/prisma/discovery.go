package prisma

import (
	"fmt"
	"strconv"

	"github.com/syssam/typegraph/compiler/store"
)

// Proxy extras consumed by relationship discovery. The Link builder
// sets them; any caller may attach them directly.
const (
	attrRelName     = "rel_name"
	attrFkey        = "fkey"
	attrTargetField = "target_field"
)

// candidate is one field edge pointing at a named struct model: the
// raw material of relationship pairing.
type candidate struct {
	field       string
	wrapper     store.TypeID // declared type id of the field
	card        Cardinality  // classification of the field's wrapper
	target      store.TypeID // resolved target model id
	targetName  string
	relName     string
	fkey        *bool
	targetField string
}

// discover classifies every field of the model that references another
// named struct model. At most one layer of Optional or Array is
// unwrapped: a bare reference is One, Optional(ref) is Optional,
// Array(ref) is Many. Other fields are ignored.
func discover(s *store.Store, model *store.Struct) ([]candidate, error) {
	var out []candidate
	for _, prop := range model.Props {
		c, err := classify(s, prop.Key, prop.Type)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func classify(s *store.Store, field string, wrapper store.TypeID) (*candidate, error) {
	t, err := s.GetType(wrapper)
	if err != nil {
		return nil, err
	}

	card := One
	inner := wrapper
	switch v := t.(type) {
	case *store.Optional:
		card = Optional
		inner = v.Of
	case *store.Array:
		card = Many
		inner = v.Of
	}

	innerType, err := s.GetType(inner)
	if err != nil {
		return nil, err
	}
	var extras map[string]string
	if p, ok := innerType.(*store.Proxy); ok {
		extras = p.Extras
	}

	target, err := s.ResolveProxy(inner)
	if err != nil {
		return nil, err
	}
	targetType, err := s.GetType(target)
	if err != nil {
		return nil, err
	}
	targetStruct, ok := targetType.(*store.Struct)
	if !ok || targetStruct.Attrs.Name == "" {
		return nil, nil
	}

	c := &candidate{
		field:      field,
		wrapper:    wrapper,
		card:       card,
		target:     target,
		targetName: targetStruct.Attrs.Name,
	}
	if extras != nil {
		c.relName = extras[attrRelName]
		c.targetField = extras[attrTargetField]
		if raw, ok := extras[attrFkey]; ok {
			fkey, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("prisma: invalid fkey attribute %q on field %q: %w", raw, field, ErrRelationship)
			}
			c.fkey = &fkey
		}
	}
	return c, nil
}
