package prisma

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRelationship is the sentinel matched by every relationship
// inference error.
var ErrRelationship = errors.New("prisma: invalid relationship")

// AmbiguousSideError reports a relationship whose foreign-key side
// cannot be decided: either the target declares several back-reference
// candidates without disambiguating names, or the cardinality pair is
// symmetric with no explicit hint.
type AmbiguousSideError struct {
	TargetModel  string
	TargetFields []string
	SourceModel  string
	SourceField  string
}

// Error implements the error interface.
func (e *AmbiguousSideError) Error() string {
	return fmt.Sprintf("prisma: ambiguous side: %s.{%s} vs %s.%s: add an explicit relationship name or fkey attribute",
		e.TargetModel, strings.Join(e.TargetFields, ","), e.SourceModel, e.SourceField)
}

// Is reports whether the target matches the relationship sentinel.
func (e *AmbiguousSideError) Is(target error) bool {
	return target == ErrRelationship
}

// NewAmbiguousSideError creates a new AmbiguousSideError.
func NewAmbiguousSideError(targetModel string, targetFields []string, sourceModel, sourceField string) *AmbiguousSideError {
	return &AmbiguousSideError{
		TargetModel:  targetModel,
		TargetFields: targetFields,
		SourceModel:  sourceModel,
		SourceField:  sourceField,
	}
}

// ConflictingAttributesError reports the same explicit attribute
// declared with incompatible values on both sides of a relationship.
type ConflictingAttributesError struct {
	Attr   string
	ModelA string
	FieldA string
	ModelB string
	FieldB string
}

// Error implements the error interface.
func (e *ConflictingAttributesError) Error() string {
	return fmt.Sprintf("prisma: conflicting %q attributes on %s.%s and %s.%s",
		e.Attr, e.ModelA, e.FieldA, e.ModelB, e.FieldB)
}

// Is reports whether the target matches the relationship sentinel.
func (e *ConflictingAttributesError) Is(target error) bool {
	return target == ErrRelationship
}

// NewConflictingAttributesError creates a new ConflictingAttributesError.
func NewConflictingAttributesError(attr, modelA, fieldA, modelB, fieldB string) *ConflictingAttributesError {
	return &ConflictingAttributesError{Attr: attr, ModelA: modelA, FieldA: fieldA, ModelB: modelB, FieldB: fieldB}
}

// NoRelationshipTargetError reports a model field referencing a model
// that declares no back-reference field.
type NoRelationshipTargetError struct {
	Model  string
	Field  string
	Target string
}

// Error implements the error interface.
func (e *NoRelationshipTargetError) Error() string {
	return fmt.Sprintf("prisma: no back-reference for %s.%s: model %s must declare a field referencing %s",
		e.Model, e.Field, e.Target, e.Model)
}

// Is reports whether the target matches the relationship sentinel.
func (e *NoRelationshipTargetError) Is(target error) bool {
	return target == ErrRelationship
}

// NewNoRelationshipTargetError creates a new NoRelationshipTargetError.
func NewNoRelationshipTargetError(model, field, target string) *NoRelationshipTargetError {
	return &NoRelationshipTargetError{Model: model, Field: field, Target: target}
}

// NameConflictError reports an attempt to register a different model
// pair under an already-used relationship name.
type NameConflictError struct {
	Name string
}

// Error implements the error interface.
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("prisma: relationship name %q is already used by another model pair", e.Name)
}

// Is reports whether the target matches the relationship sentinel.
func (e *NameConflictError) Is(target error) bool {
	return target == ErrRelationship
}

// NewNameConflictError creates a new NameConflictError.
func NewNameConflictError(name string) *NameConflictError {
	return &NameConflictError{Name: name}
}

// UnnamedModelError reports a model participating in relationship
// inference without a name.
type UnnamedModelError struct {
	Repr string
}

// Error implements the error interface.
func (e *UnnamedModelError) Error() string {
	return fmt.Sprintf("prisma: model %s must be named to participate in relationships", e.Repr)
}

// Is reports whether the target matches the relationship sentinel.
func (e *UnnamedModelError) Is(target error) bool {
	return target == ErrRelationship
}

// NewUnnamedModelError creates a new UnnamedModelError.
func NewUnnamedModelError(repr string) *UnnamedModelError {
	return &UnnamedModelError{Repr: repr}
}

// IsRelationshipError reports whether the error comes from relationship
// inference.
func IsRelationshipError(err error) bool {
	return errors.Is(err, ErrRelationship)
}
