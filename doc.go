// Package typegraph defines the compiled typegraph document model and the
// shared error taxonomy of the compiler.
//
// A typegraph describes one typed API as a single flattened, cycle-free
// document: a 0-indexed type array (index 0 is always the root object),
// a runtime array, a materializer array bound to runtimes by index, a
// policy array, and serving metadata. Every cross reference in the
// document is an integer index into one of these arrays; names are
// cosmetic.
//
// Documents are assembled by the compiler packages:
//
//   - compiler/store holds the mutable type arena of one compilation
//     session, with forward (proxy) references resolved by name.
//   - compiler/core is the session handle exposing the construction API.
//   - compiler/gen flattens the arena into a Typegraph using memoized,
//     cycle-safe registration.
//   - compiler/gen/prisma infers relational associations between model
//     types.
//
// The document serializes to JSON for consumers and to a compact msgpack
// form (MarshalBinary/UnmarshalBinary) for caching between compiler runs.
package typegraph
