// Package core is the compiler handle: it owns the type store, brackets
// one compilation session from start to finalize, and exposes the
// construction API consumed by builder layers.
package core

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/gen"
	"github.com/syssam/typegraph/compiler/store"
	"github.com/syssam/typegraph/endpoints"
	"github.com/syssam/typegraph/host"
)

// InitParams configures one compilation session.
type InitParams struct {
	// Name of the typegraph.
	Name string `yaml:"name" json:"name"`

	// Dynamic enables serving non-embedded queries. Defaults to true.
	Dynamic *bool `yaml:"dynamic,omitempty" json:"dynamic,omitempty"`

	// Path is the project root for endpoint discovery. Empty disables
	// discovery.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// Folder under Path holding the embedded query documents. Defaults
	// to the typegraph name.
	Folder string `yaml:"folder,omitempty" json:"folder,omitempty"`

	// Prefix prepended to the serving routes.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	Secrets []string         `yaml:"secrets,omitempty" json:"secrets,omitempty"`
	Cors    typegraph.Cors   `yaml:"cors,omitempty" json:"cors,omitempty"`
	Auths   []typegraph.Auth `yaml:"auths,omitempty" json:"auths,omitempty"`
	Rate    *typegraph.Rate  `yaml:"rate,omitempty" json:"rate,omitempty"`
}

// Compiler owns a type store and compiles one typegraph at a time.
// It is not safe for concurrent use: a compilation session is
// single-threaded by design, and each concurrent session must own its
// own Compiler.
type Compiler struct {
	store *store.Store
	host  host.ABI

	active    bool
	session   string
	sessionID uuid.UUID
	snapshot  store.Snapshot
	ctx       *gen.Context
	deno      store.RuntimeID
}

// New creates a compiler over a fresh store.
func New(h host.ABI) *Compiler {
	if h == nil {
		h = host.NewOS(nil)
	}
	return &Compiler{store: store.New(), host: h}
}

// Store exposes the underlying type store.
func (c *Compiler) Store() *store.Store {
	return c.store
}

// StartSession begins a compilation session: it snapshots the store,
// registers the default deno runtime as output runtime 0, and discovers
// the embedded query endpoints. Exactly one session may be active at a
// time; a reentrant start is rejected.
func (c *Compiler) StartSession(p InitParams) error {
	if c.active {
		return typegraph.NewNestedSessionError(c.session)
	}

	dynamic := true
	if p.Dynamic != nil {
		dynamic = *p.Dynamic
	}
	var eps []string
	if p.Path != "" {
		folder := p.Folder
		if folder == "" {
			folder = p.Name
		}
		var err error
		if eps, err = endpoints.Discover(c.host, p.Path, folder); err != nil {
			return err
		}
	}

	meta := typegraph.Meta{
		Prefix:  p.Prefix,
		Secrets: p.Secrets,
		Queries: typegraph.Queries{Dynamic: dynamic, Endpoints: eps},
		Cors:    p.Cors,
		Auths:   p.Auths,
		Rate:    p.Rate,
	}

	c.snapshot = c.store.Save()
	c.sessionID = uuid.New()
	c.session = p.Name
	c.ctx = gen.NewContext(c.store, p.Name, meta)

	c.deno = c.store.RegisterRuntime(store.Runtime{Name: "deno"})
	if _, err := c.ctx.RegisterRuntime(c.deno); err != nil {
		c.store.Restore(c.snapshot)
		c.ctx = nil
		return err
	}

	c.active = true
	c.host.Log(fmt.Sprintf("session %s started: typegraph %q", c.sessionID, p.Name))
	return nil
}

// Expose attaches fields to the root object of the active session.
func (c *Compiler) Expose(fields []gen.Export, defaultPolicy []store.PolicySpec) error {
	if !c.active {
		return typegraph.NewNoActiveSessionError()
	}
	return c.ctx.Expose(fields, defaultPolicy)
}

// AddSecret records a secret name in the active session's metadata.
func (c *Compiler) AddSecret(name string) error {
	if !c.active {
		return typegraph.NewNoActiveSessionError()
	}
	c.ctx.AddSecret(name)
	return nil
}

// FinalizeSession compiles the session into its output document and
// tears the session down, restoring the store to its pre-session
// snapshot. The session ends whether or not finalization succeeds; a
// failed finalize leaves no usable session behind.
func (c *Compiler) FinalizeSession() (*typegraph.Typegraph, error) {
	if !c.active {
		return nil, typegraph.NewNoActiveSessionError()
	}
	tg, err := c.ctx.Finalize()
	c.teardown()
	if err != nil {
		return nil, err
	}
	c.host.Log(fmt.Sprintf("session %s finalized: typegraph %q", c.sessionID, tg.ID))
	return tg, nil
}

// AbortSession tears down the active session without producing a
// document. Aborting with no active session is a no-op.
func (c *Compiler) AbortSession() {
	if !c.active {
		return
	}
	c.host.Log(fmt.Sprintf("session %s aborted", c.sessionID))
	c.teardown()
}

func (c *Compiler) teardown() {
	c.store.Restore(c.snapshot)
	c.ctx = nil
	c.active = false
	c.session = ""
}

// RegisterRuntime declares an execution backend.
func (c *Compiler) RegisterRuntime(name string, data map[string]any) store.RuntimeID {
	return c.store.RegisterRuntime(store.Runtime{Name: name, Data: data})
}

// RegisterModelRuntime declares a database-backed runtime managing the
// given model types. Its conversion is deferred to finalization, where
// the relationship registry is built over the models.
func (c *Compiler) RegisterModelRuntime(name string, data map[string]any, models []store.TypeID) store.RuntimeID {
	return c.store.RegisterRuntime(store.Runtime{Name: name, Data: data, Models: models})
}

// RegisterMaterializer declares the executable binding of a function.
func (c *Compiler) RegisterMaterializer(name string, rt store.RuntimeID, effect typegraph.Effect, data map[string]any) store.MaterializerID {
	return c.store.RegisterMaterializer(store.Materializer{Name: name, Runtime: rt, Effect: effect, Data: data})
}

// RegisterPolicy declares an authorization check backed by a
// materializer.
func (c *Compiler) RegisterPolicy(name string, mat store.MaterializerID) store.PolicyID {
	return c.store.RegisterPolicy(store.Policy{Name: name, Materializer: mat})
}
