// Package golang renders the object types of a compiled typegraph as
// plain Go struct declarations, for consumers that want typed bindings
// against a graph's models.
package golang

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/gen"
)

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Generate renders every object node of the document, except the root
// namespace, as a Go struct in the given package. Optional fields become
// pointers, arrays become slices, and function-typed properties are
// skipped: a struct binding has no use for an executable member.
func Generate(tg *typegraph.Typegraph, pkg string) (string, error) {
	if len(tg.Types) == 0 {
		return "", fmt.Errorf("golang: typegraph %q has no types", tg.ID)
	}

	f := jen.NewFile(pkg)
	f.HeaderComment(fmt.Sprintf("Code generated from typegraph %q. DO NOT EDIT.", tg.ID))

	for idx, node := range tg.Types {
		if idx == 0 || node.Kind != typegraph.KindObject {
			continue
		}
		fields, err := structFields(tg, node)
		if err != nil {
			return "", err
		}
		f.Type().Id(structName(node, idx)).Struct(fields...)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("golang: %w", err)
	}
	return buf.String(), nil
}

func structFields(tg *typegraph.Typegraph, node *typegraph.TypeNode) ([]jen.Code, error) {
	fields := make([]jen.Code, 0, len(node.Properties))
	for _, prop := range node.Properties {
		if prop.Type < 0 || prop.Type >= len(tg.Types) {
			return nil, fmt.Errorf("golang: property %q references type %d out of range", prop.Key, prop.Type)
		}
		ref := tg.Types[prop.Type]
		if ref.Kind == typegraph.KindFunction {
			continue
		}
		typ, err := fieldType(tg, prop.Type)
		if err != nil {
			return nil, err
		}
		tag := prop.Key
		if ref.Kind == typegraph.KindOptional {
			tag += ",omitempty"
		}
		fields = append(fields, jen.Id(gen.Pascal(prop.Key)).Add(typ).Tag(map[string]string{"json": tag}))
	}
	return fields, nil
}

func fieldType(tg *typegraph.Typegraph, idx int) (jen.Code, error) {
	node := tg.Types[idx]
	switch node.Kind {
	case typegraph.KindInteger:
		return jen.Int64(), nil
	case typegraph.KindFloat:
		return jen.Float64(), nil
	case typegraph.KindBoolean:
		return jen.Bool(), nil
	case typegraph.KindString:
		return jen.String(), nil
	case typegraph.KindArray:
		elem, err := fieldType(tg, *node.Items)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	case typegraph.KindOptional:
		elem, err := fieldType(tg, *node.Item)
		if err != nil {
			return nil, err
		}
		// A nil slice already encodes absence.
		if tg.Types[*node.Item].Kind == typegraph.KindArray {
			return elem, nil
		}
		return jen.Op("*").Add(elem), nil
	case typegraph.KindObject:
		return jen.Id(structName(node, idx)), nil
	case typegraph.KindUnion, typegraph.KindEither:
		return jen.Any(), nil
	}
	return nil, fmt.Errorf("golang: kind %q at index %d cannot be a struct field", node.Kind, idx)
}

// structName derives the struct identifier from the node title, with
// non-identifier runes folded into underscores before casing.
func structName(node *typegraph.TypeNode, idx int) string {
	if node.Title == "" {
		return fmt.Sprintf("Type%d", idx)
	}
	return gen.Pascal(nonIdent.ReplaceAllString(node.Title, "_"))
}
