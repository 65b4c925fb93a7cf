package gen

import (
	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/gen/prisma"
	"github.com/syssam/typegraph/compiler/store"
)

// convertModelRuntime is the lazy conversion path of a runtime managing
// model types. The runtime's slot is already reserved when this runs:
// it builds the relationship registry over the models, registers every
// model type against the reserved runtime index, and emits the
// relationship metadata as runtime data.
func (c *Context) convertModelRuntime(rt store.Runtime, idx int) (*typegraph.Runtime, error) {
	reg := prisma.NewRegistry(c.store)
	for _, m := range rt.Models {
		if err := reg.Manage(m); err != nil {
			return nil, err
		}
	}

	models := make([]any, 0, len(rt.Models))
	for _, m := range rt.Models {
		override := idx
		typeIdx, err := c.RegisterType(m, &override)
		if err != nil {
			return nil, err
		}
		resolved, err := c.store.ResolveProxy(m)
		if err != nil {
			return nil, err
		}
		name, err := c.store.TypeName(resolved)
		if err != nil {
			return nil, err
		}
		models = append(models, map[string]any{
			"name": name,
			"type": typeIdx,
		})
	}

	rels := make([]any, 0, reg.Len())
	for _, name := range reg.Names() {
		rel, _ := reg.Get(name)
		rels = append(rels, map[string]any{
			"name":  name,
			"left":  relModelData(&rel.Left),
			"right": relModelData(&rel.Right),
		})
	}

	data := make(map[string]any, len(rt.Data)+2)
	for k, v := range rt.Data {
		data[k] = v
	}
	data["models"] = models
	data["relationships"] = rels
	return &typegraph.Runtime{Name: rt.Name, Data: data}, nil
}

func relModelData(m *prisma.RelationshipModel) map[string]any {
	return map[string]any{
		"model":       m.ModelName,
		"field":       m.Field,
		"cardinality": m.Cardinality.String(),
	}
}
