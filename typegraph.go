package typegraph

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Version is the typegraph document format version.
const Version = "0.0.2"

// Type node kinds. The set is closed: conversion code switches over it
// exhaustively and unknown kinds are a definitional error.
const (
	KindObject   = "object"
	KindInteger  = "integer"
	KindFloat    = "float"
	KindBoolean  = "boolean"
	KindString   = "string"
	KindArray    = "array"
	KindOptional = "optional"
	KindUnion    = "union"
	KindEither   = "either"
	KindFunction = "function"
)

// Typegraph is the compiled artifact of one compilation session.
// Types[0] is always the root object.
type Typegraph struct {
	ID            string          `json:"$id"`
	Types         []*TypeNode     `json:"types"`
	Materializers []*Materializer `json:"materializers"`
	Runtimes      []*Runtime      `json:"runtimes"`
	Policies      []*Policy       `json:"policies"`
	Meta          Meta            `json:"meta"`
}

// TypeNode is one flattened type of the output document. Kind selects the
// variant; the variant-specific fields are pointers so that unset fields
// are omitted from the serialized form.
type TypeNode struct {
	Kind     string            `json:"type"`
	Title    string            `json:"title"`
	Runtime  int               `json:"runtime"`
	Policies []PolicyIndices   `json:"policies"`
	Config   map[string]string `json:"config,omitempty"`

	// Injection is an opaque payload attached by injection wrappers.
	// The compiler never interprets it.
	Injection string `json:"injection,omitempty"`

	// Numeric bounds (integer, float).
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// Length bounds (string).
	MinLength *uint32 `json:"minLength,omitempty"`
	MaxLength *uint32 `json:"maxLength,omitempty"`

	// Array data.
	Items    *int    `json:"items,omitempty"`
	MinItems *uint32 `json:"minItems,omitempty"`
	MaxItems *uint32 `json:"maxItems,omitempty"`

	// Optional data.
	Item         *int `json:"item,omitempty"`
	DefaultValue any  `json:"default_value,omitempty"`

	// Union/either variants.
	AnyOf []int `json:"anyOf,omitempty"`
	OneOf []int `json:"oneOf,omitempty"`

	// Object data.
	Properties Properties `json:"properties,omitempty"`
	Required   []string   `json:"required,omitempty"`

	// Function data.
	Input        *int `json:"input,omitempty"`
	Output       *int `json:"output,omitempty"`
	Materializer *int `json:"materializer,omitempty"`
}

// Property is one named member of an object type node, referencing its
// type by output index.
type Property struct {
	Key  string `json:"key"`
	Type int    `json:"type"`
}

// Properties is the ordered property map of an object type node. Order is
// declaration order and is preserved by JSON serialization.
type Properties []Property

// Get returns the type index of the property with the given key.
func (p Properties) Get(key string) (int, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Type, true
		}
	}
	return 0, false
}

// Has reports if a property with the given key exists.
func (p Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// MarshalJSON encodes the properties as a JSON object in declaration order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", prop.Type)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into properties, preserving the
// order of the encoded keys.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("typegraph: properties must be a JSON object, got %v", tok)
	}
	props := Properties{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var idx int
		if err := dec.Decode(&idx); err != nil {
			return fmt.Errorf("typegraph: property %q: %w", key, err)
		}
		props = append(props, Property{Key: key, Type: idx})
	}
	*p = props
	return nil
}

// PolicyIndices is one entry of a type node's policy chain: either a
// single policy index, or a per-effect mapping of policy indices.
type PolicyIndices struct {
	Policy    *int
	PerEffect *PolicyIndicesByEffect
}

// PolicyIndicesByEffect maps mutation effects to policy indices. A nil
// entry means no policy is attached for that effect.
type PolicyIndicesByEffect struct {
	None   *int `json:"none,omitempty"`
	Create *int `json:"create,omitempty"`
	Update *int `json:"update,omitempty"`
	Delete *int `json:"delete,omitempty"`
}

// MarshalJSON encodes a single policy index as a bare number and a
// per-effect mapping as an object.
func (p PolicyIndices) MarshalJSON() ([]byte, error) {
	if p.Policy != nil {
		return json.Marshal(*p.Policy)
	}
	if p.PerEffect != nil {
		return json.Marshal(p.PerEffect)
	}
	return nil, fmt.Errorf("typegraph: empty policy indices entry")
}

// UnmarshalJSON decodes either encoding produced by MarshalJSON.
func (p *PolicyIndices) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		pe := &PolicyIndicesByEffect{}
		if err := json.Unmarshal(trimmed, pe); err != nil {
			return err
		}
		p.PerEffect = pe
		return nil
	}
	var idx int
	if err := json.Unmarshal(trimmed, &idx); err != nil {
		return err
	}
	p.Policy = &idx
	return nil
}

// Effect kinds of a materializer.
const (
	EffectNone   = "none"
	EffectCreate = "create"
	EffectUpdate = "update"
	EffectDelete = "delete"
)

// Effect describes the mutation effect of a materializer.
type Effect struct {
	Effect     string `json:"effect,omitempty"`
	Idempotent bool   `json:"idempotent"`
}

// Materializer is the executable binding of a function type, bound to a
// runtime by output index.
type Materializer struct {
	Name    string         `json:"name"`
	Runtime int            `json:"runtime"`
	Effect  Effect         `json:"effect"`
	Data    map[string]any `json:"data,omitempty"`
}

// Runtime is an execution backend referenced by materializers.
type Runtime struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data,omitempty"`
}

// Policy is an authorization check backed by a materializer.
type Policy struct {
	Name         string `json:"name"`
	Materializer int    `json:"materializer"`
}

// MarshalBinary encodes the typegraph in its compact msgpack form, used
// for caching compiled documents between runs.
func (tg *Typegraph) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(tg)
}

// UnmarshalBinary decodes a typegraph from its msgpack form.
func (tg *Typegraph) UnmarshalBinary(data []byte) error {
	return msgpack.Unmarshal(data, tg)
}
