// Package prisma infers relational associations between the model types
// of a database-backed runtime: given struct types referencing each
// other, directly or through named proxies, it deduces which fields form
// a bidirectional association, its cardinality, and which side owns the
// foreign key, flagging ambiguity or conflicting hints as errors.
package prisma

import (
	"github.com/syssam/typegraph/compiler/store"
)

// Cardinality is the multiplicity of one model within a relationship.
type Cardinality uint8

// Possible cardinalities, ordered by rank: a higher rank defaults to
// foreign-key ownership.
const (
	One Cardinality = iota
	Optional
	Many
)

// String returns the cardinality name.
func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case Optional:
		return "optional"
	case Many:
		return "many"
	}
	return "unknown"
}

// Side identifies one of the two sides of a relationship.
type Side uint8

// Relationship sides. Left is the side without the foreign key; Right
// owns it.
const (
	Left Side = iota
	Right
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// String returns the side name.
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

/// RelationshipModel describes one endpoint of a relationship: the model,
// its participating field and that field's declared wrapper type, and
// the multiplicity with which the model occurs (derived from how the
// opposite model's field references it).
type RelationshipModel struct {
	ModelType   store.TypeID
	ModelName   string
	WrapperType store.TypeID
	Cardinality Cardinality
	Field       string
}

// Relationship is a validated bidirectional association between two
// model fields.
//
// Valid cardinality pairs are:
//
//	(Optional, Optional): [Left] 0..1 --> 0..1 [Right]
//	(One, Optional):      [Left] 1..1 --> 0..1 [Right]
//	(Optional, Many):     [Left] 0..1 --> 0..n [Right]
//	(One, Many):          [Left] 1..1 --> 0..n [Right]
//
// The model on the right owns the foreign key.
type Relationship struct {
	Name  string
	Left  RelationshipModel
	Right RelationshipModel
}

// Get returns the endpoint on the given side.
func (r *Relationship) Get(side Side) *RelationshipModel {
	if side == Left {
		return &r.Left
	}
	return &r.Right
}

type sideOfModel uint8

const (
	sideNone sideOfModel = iota
	sideLeft
	sideRight
	sideBoth
)

func (r *Relationship) sideOf(modelType store.TypeID) sideOfModel {
	switch {
	case r.Left.ModelType == r.Right.ModelType:
		if r.Left.ModelType == modelType {
			return sideBoth
		}
		return sideNone
	case r.Left.ModelType == modelType:
		return sideLeft
	case r.Right.ModelType == modelType:
		return sideRight
	}
	return sideNone
}

// GetOppositeOf returns the endpoint opposite to the given model field,
// or nil if the field is not part of this relationship. Self
// relationships are disambiguated by the field name.
func (r *Relationship) GetOppositeOf(modelType store.TypeID, field string) *RelationshipModel {
	switch r.sideOf(modelType) {
	case sideBoth:
		if r.Left.Field == field {
			return &r.Right
		}
		if r.Right.Field == field {
			return &r.Left
		}
		return nil
	case sideLeft:
		if r.Left.Field != field {
			return nil
		}
		return &r.Right
	case sideRight:
		if r.Right.Field != field {
			return nil
		}
		return &r.Left
	}
	return nil
}

// SideOfType returns which side of the relationship the given declared
// field wrapper type belongs to.
func (r *Relationship) SideOfType(wrapperType store.TypeID) (Side, bool) {
	if r.Left.WrapperType == wrapperType {
		return Left, true
	}
	if r.Right.WrapperType == wrapperType {
		return Right, true
	}
	return 0, false
}
