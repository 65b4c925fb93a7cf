package core

import (
	"fmt"
	"regexp"

	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/store"
)

// Simple builds a policy chain entry from a single policy.
func Simple(id store.PolicyID) store.PolicySpec {
	return store.PolicySpec{Simple: &id}
}

// PerEffect builds a policy chain entry keyed by mutation effect. Nil
// entries leave the effect unguarded.
func PerEffect(none, create, update, del *store.PolicyID) store.PolicySpec {
	return store.PolicySpec{PerEffect: &store.EffectPolicies{
		None:   none,
		Create: create,
		Update: update,
		Delete: del,
	}}
}

// ContextCheck describes a context-based authorization check: an exact
// value match or a regular expression pattern. Exactly one must be set.
type ContextCheck struct {
	Value   string
	Pattern string
}

var policyNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// RegisterContextPolicy registers a policy granting access when the
// request context entry at the given key passes the check. The check is
// emitted as an opaque script payload bound to a deno materializer; the
// compiler never parses it. Returns the policy id and its derived name.
func (c *Compiler) RegisterContextPolicy(key string, check ContextCheck) (store.PolicyID, string, error) {
	if !c.active {
		return 0, "", typegraph.NewNoActiveSessionError()
	}

	var name, code string
	switch {
	case check.Pattern != "":
		name = fmt.Sprintf("__ctx_p_%s_%s", key, check.Pattern)
		code = fmt.Sprintf("(_, { context }) => new RegExp(%q).test(context[%q])", check.Pattern, key)
	case check.Value != "":
		name = fmt.Sprintf("__ctx_%s_%s", key, check.Value)
		code = fmt.Sprintf("(_, { context }) => context[%q] === %q", key, check.Value)
	default:
		return 0, "", fmt.Errorf("core: context check on %q requires a value or a pattern", key)
	}
	name = policyNameSanitizer.ReplaceAllString(name, "_")

	mat := c.store.RegisterMaterializer(store.Materializer{
		Name:    "function",
		Runtime: c.deno,
		Effect:  typegraph.Effect{Effect: typegraph.EffectNone, Idempotent: true},
		Data:    map[string]any{"script": fmt.Sprintf("var _my_lambda = %s;", code)},
	})
	id := c.store.RegisterPolicy(store.Policy{Name: name, Materializer: mat})
	return id, name, nil
}
