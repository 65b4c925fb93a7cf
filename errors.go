package typegraph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the common failure classes. Typed errors below
// match these through errors.Is.
var (
	// ErrNotFound is returned when an internal id does not resolve to a
	// stored entity. It indicates a programming defect upstream, not
	// invalid user input.
	ErrNotFound = errors.New("typegraph: entity not found")

	// ErrInvalidType indicates a type construction error.
	ErrInvalidType = errors.New("typegraph: invalid type definition")

	// ErrSession indicates a session lifecycle error.
	ErrSession = errors.New("typegraph: invalid session state")

	// ErrExport indicates an export (expose) validation error.
	ErrExport = errors.New("typegraph: invalid export")

	// ErrUnresolvedProxy is returned when a proxy name was never
	// registered by the end of the session.
	ErrUnresolvedProxy = errors.New("typegraph: unresolved proxy reference")
)

// NotFoundError reports an out-of-range internal id.
type NotFoundError struct {
	Kind string // "type", "runtime", "materializer" or "policy"
	ID   uint32
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("typegraph: %s %d not found", e.Kind, e.ID)
}

// Is reports whether the target matches the sentinel error for NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(kind string, id uint32) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidMaxValueError reports a bounded type whose declared minimum is
// not strictly less than its maximum.
type InvalidMaxValueError struct {
	Min, Max float64
}

// Error implements the error interface.
func (e *InvalidMaxValueError) Error() string {
	return fmt.Sprintf("typegraph: invalid max value: min (%v) must be less than max (%v)", e.Min, e.Max)
}

// Is reports whether the target matches the sentinel error for InvalidMaxValueError.
func (e *InvalidMaxValueError) Is(target error) bool {
	return target == ErrInvalidType
}

// NewInvalidMaxValueError creates a new InvalidMaxValueError.
func NewInvalidMaxValueError(min, max float64) *InvalidMaxValueError {
	return &InvalidMaxValueError{Min: min, Max: max}
}

// InvalidPropKeyError reports a struct property key that does not satisfy
// the identifier grammar.
type InvalidPropKeyError struct {
	Key string
}

// Error implements the error interface.
func (e *InvalidPropKeyError) Error() string {
	return fmt.Sprintf("typegraph: invalid property key %q: not a valid identifier", e.Key)
}

// Is reports whether the target matches the sentinel error for InvalidPropKeyError.
func (e *InvalidPropKeyError) Is(target error) bool {
	return target == ErrInvalidType
}

// NewInvalidPropKeyError creates a new InvalidPropKeyError.
func NewInvalidPropKeyError(key string) *InvalidPropKeyError {
	return &InvalidPropKeyError{Key: key}
}

// DuplicateKeyError reports a struct property key declared twice.
type DuplicateKeyError struct {
	Key string
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("typegraph: duplicate property key %q", e.Key)
}

// Is reports whether the target matches the sentinel error for DuplicateKeyError.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrInvalidType
}

// NewDuplicateKeyError creates a new DuplicateKeyError.
func NewDuplicateKeyError(key string) *DuplicateKeyError {
	return &DuplicateKeyError{Key: key}
}

// InvalidInputTypeError reports a function whose input type does not
// resolve to a struct.
type InvalidInputTypeError struct {
	Repr string // textual representation of the offending type
}

// Error implements the error interface.
func (e *InvalidInputTypeError) Error() string {
	return fmt.Sprintf("typegraph: invalid function input type %s: struct required", e.Repr)
}

// Is reports whether the target matches the sentinel error for InvalidInputTypeError.
func (e *InvalidInputTypeError) Is(target error) bool {
	return target == ErrInvalidType
}

// NewInvalidInputTypeError creates a new InvalidInputTypeError.
func NewInvalidInputTypeError(repr string) *InvalidInputTypeError {
	return &InvalidInputTypeError{Repr: repr}
}

// NestedSessionError reports an attempt to start a session while another
// one is active.
type NestedSessionError struct {
	Active string // name of the active session
}

// Error implements the error interface.
func (e *NestedSessionError) Error() string {
	return fmt.Sprintf("typegraph: session %q is still active", e.Active)
}

// Is reports whether the target matches the sentinel error for NestedSessionError.
func (e *NestedSessionError) Is(target error) bool {
	return target == ErrSession
}

// NewNestedSessionError creates a new NestedSessionError.
func NewNestedSessionError(active string) *NestedSessionError {
	return &NestedSessionError{Active: active}
}

// NoActiveSessionError reports an operation that requires an active
// session while none is.
type NoActiveSessionError struct{}

// Error implements the error interface.
func (e *NoActiveSessionError) Error() string {
	return "typegraph: no active session"
}

// Is reports whether the target matches the sentinel error for NoActiveSessionError.
func (e *NoActiveSessionError) Is(target error) bool {
	return target == ErrSession
}

// NewNoActiveSessionError creates a new NoActiveSessionError.
func NewNoActiveSessionError() *NoActiveSessionError {
	return &NoActiveSessionError{}
}

// InvalidExportNameError reports an export key that does not satisfy the
// export-name grammar.
type InvalidExportNameError struct {
	Key string
}

// Error implements the error interface.
func (e *InvalidExportNameError) Error() string {
	return fmt.Sprintf("typegraph: invalid export name %q", e.Key)
}

// Is reports whether the target matches the sentinel error for InvalidExportNameError.
func (e *InvalidExportNameError) Is(target error) bool {
	return target == ErrExport
}

// NewInvalidExportNameError creates a new InvalidExportNameError.
func NewInvalidExportNameError(key string) *InvalidExportNameError {
	return &InvalidExportNameError{Key: key}
}

// DuplicateExportNameError reports an export key already attached to the
// root object.
type DuplicateExportNameError struct {
	Key string
}

// Error implements the error interface.
func (e *DuplicateExportNameError) Error() string {
	return fmt.Sprintf("typegraph: duplicate export name %q", e.Key)
}

// Is reports whether the target matches the sentinel error for DuplicateExportNameError.
func (e *DuplicateExportNameError) Is(target error) bool {
	return target == ErrExport
}

// NewDuplicateExportNameError creates a new DuplicateExportNameError.
func NewDuplicateExportNameError(key string) *DuplicateExportNameError {
	return &DuplicateExportNameError{Key: key}
}

// InvalidExportTypeError reports an exported type that is neither a
// struct namespace nor a function.
type InvalidExportTypeError struct {
	Key  string
	Repr string
}

// Error implements the error interface.
func (e *InvalidExportTypeError) Error() string {
	var b strings.Builder
	b.WriteString("typegraph: invalid export type for ")
	fmt.Fprintf(&b, "%q", e.Key)
	b.WriteString(": ")
	b.WriteString(e.Repr)
	b.WriteString(" is not a function or namespace")
	return b.String()
}

// Is reports whether the target matches the sentinel error for InvalidExportTypeError.
func (e *InvalidExportTypeError) Is(target error) bool {
	return target == ErrExport
}

// NewInvalidExportTypeError creates a new InvalidExportTypeError.
func NewInvalidExportTypeError(key, repr string) *InvalidExportTypeError {
	return &InvalidExportTypeError{Key: key, Repr: repr}
}

// UnresolvedProxyError reports a proxy whose name was never registered.
type UnresolvedProxyError struct {
	Name string
}

// Error implements the error interface.
func (e *UnresolvedProxyError) Error() string {
	return fmt.Sprintf("typegraph: no type named %q was registered", e.Name)
}

// Is reports whether the target matches the sentinel error for UnresolvedProxyError.
func (e *UnresolvedProxyError) Is(target error) bool {
	return target == ErrUnresolvedProxy
}

// NewUnresolvedProxyError creates a new UnresolvedProxyError.
func NewUnresolvedProxyError(name string) *UnresolvedProxyError {
	return &UnresolvedProxyError{Name: name}
}

// IsNotFound reports whether the error is a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSessionError reports whether the error is a session lifecycle error.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrSession)
}

// IsExportError reports whether the error is an export validation error.
func IsExportError(err error) bool {
	return errors.Is(err, ErrExport)
}

// IsValidationError reports whether the error is a type construction
// validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidType)
}
