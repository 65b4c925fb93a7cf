package prisma

import (
	"fmt"

	"ariga.io/atlas/sql/schema"
	"github.com/go-openapi/inflect"

	"github.com/syssam/typegraph/compiler/store"
)

var rules = inflect.NewDefaultRuleset()

// TableName derives the table name of a model: pluralized snake case.
func TableName(model string) string {
	return rules.Pluralize(rules.Underscore(model))
}

// BuildSchema renders the managed models and their registered
// relationships into a relational schema: one table per model, scalar
// columns for scalar fields, and a foreign-key column on the side that
// owns the key. The registry must already cover every model.
func BuildSchema(s *store.Store, reg *Registry, models []store.TypeID) (*schema.Schema, error) {
	sch := schema.New("public")
	tables := make(map[store.TypeID]*schema.Table, len(models))
	structs := make(map[store.TypeID]*store.Struct, len(models))

	// First pass: tables and scalar columns, so that foreign keys can
	// reference any table regardless of model order.
	for _, id := range models {
		resolved, err := s.ResolveProxy(id)
		if err != nil {
			return nil, err
		}
		t, err := s.GetType(resolved)
		if err != nil {
			return nil, err
		}
		model, ok := t.(*store.Struct)
		if !ok || model.Attrs.Name == "" {
			return nil, NewUnnamedModelError(s.Repr(resolved))
		}
		table := schema.NewTable(TableName(model.Attrs.Name))
		for _, prop := range model.Props {
			if _, isRel := reg.NameOf(resolved, prop.Key); isRel {
				continue
			}
			col, err := scalarColumn(s, prop.Key, prop.Type)
			if err != nil {
				return nil, err
			}
			if col == nil {
				continue
			}
			table.AddColumns(col)
			if prop.Key == "id" {
				table.SetPrimaryKey(schema.NewPrimaryKey(col))
			}
		}
		sch.AddTables(table)
		tables[resolved] = table
		structs[resolved] = model
	}

	// Second pass: foreign-key columns on each relationship's right
	// side.
	for _, name := range reg.Names() {
		rel, _ := reg.Get(name)
		owner, ok := tables[rel.Right.ModelType]
		if !ok {
			return nil, fmt.Errorf("prisma: relationship %q: model %q is not managed: %w",
				name, rel.Right.ModelName, ErrRelationship)
		}
		ref, ok := tables[rel.Left.ModelType]
		if !ok {
			return nil, fmt.Errorf("prisma: relationship %q: model %q is not managed: %w",
				name, rel.Left.ModelName, ErrRelationship)
		}

		colName := rules.Underscore(rel.Right.Field) + "_id"
		// The owning field is optional exactly when the opposite model
		// occurs 0..1.
		var col *schema.Column
		onDelete := schema.NoAction
		if rel.Left.Cardinality == Optional {
			col = schema.NewNullIntColumn(colName, "bigint")
			onDelete = schema.SetNull
		} else {
			col = schema.NewIntColumn(colName, "bigint")
		}
		owner.AddColumns(col)

		refPK := columnOf(ref, "id")
		if refPK == nil {
			continue
		}
		owner.AddForeignKeys(schema.NewForeignKey(name).
			AddColumns(col).
			SetRefTable(ref).
			AddRefColumns(refPK).
			SetOnUpdate(schema.NoAction).
			SetOnDelete(onDelete))
	}
	return sch, nil
}

func columnOf(t *schema.Table, name string) *schema.Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// scalarColumn maps a scalar field to a column, unwrapping one layer of
// Optional into nullability. Non-scalar fields have no column.
func scalarColumn(s *store.Store, key string, id store.TypeID) (*schema.Column, error) {
	resolved, err := s.ResolveProxy(id)
	if err != nil {
		return nil, err
	}
	t, err := s.GetType(resolved)
	if err != nil {
		return nil, err
	}

	nullable := false
	if opt, ok := t.(*store.Optional); ok {
		nullable = true
		inner, err := s.ResolveProxy(opt.Of)
		if err != nil {
			return nil, err
		}
		if t, err = s.GetType(inner); err != nil {
			return nil, err
		}
	}

	name := rules.Underscore(key)
	switch t.(type) {
	case *store.Integer:
		if nullable {
			return schema.NewNullIntColumn(name, "bigint"), nil
		}
		return schema.NewIntColumn(name, "bigint"), nil
	case *store.Float:
		if nullable {
			return schema.NewNullFloatColumn(name, "double precision"), nil
		}
		return schema.NewFloatColumn(name, "double precision"), nil
	case *store.Boolean:
		if nullable {
			return schema.NewNullBoolColumn(name, "boolean"), nil
		}
		return schema.NewBoolColumn(name, "boolean"), nil
	case *store.StringT:
		if nullable {
			return schema.NewNullStringColumn(name, "varchar"), nil
		}
		return schema.NewStringColumn(name, "varchar"), nil
	}
	return nil, nil
}
