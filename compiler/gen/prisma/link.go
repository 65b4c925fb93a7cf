package prisma

import (
	"strconv"

	"github.com/syssam/typegraph/compiler/store"
)

// Link builds a proxy reference to a model carrying explicit
// relationship attributes, the escape hatch when implicit discovery
// would be ambiguous.
type Link struct {
	store       *store.Store
	typeName    string
	relName     string
	fkey        *bool
	targetField string
}

// LinkName starts a link to the model registered under the given name.
func LinkName(s *store.Store, name string) *Link {
	return &Link{store: s, typeName: name}
}

// LinkTo starts a link to the given model type, which must be named.
func LinkTo(s *store.Store, id store.TypeID) (*Link, error) {
	name, err := s.TypeName(id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, NewUnnamedModelError(s.Repr(id))
	}
	return LinkName(s, name), nil
}

// Name sets the explicit relationship name.
func (l *Link) Name(name string) *Link {
	l.relName = name
	return l
}

// Fkey declares whether the model declaring this link owns the foreign
// key.
func (l *Link) Fkey(fkey bool) *Link {
	l.fkey = &fkey
	return l
}

// Field names the back-reference field on the target model.
func (l *Link) Field(field string) *Link {
	l.targetField = field
	return l
}

// Build adds the proxy node and returns its id.
func (l *Link) Build() store.TypeID {
	extras := map[string]string{}
	if l.relName != "" {
		extras[attrRelName] = l.relName
	}
	if l.fkey != nil {
		extras[attrFkey] = strconv.FormatBool(*l.fkey)
	}
	if l.targetField != "" {
		extras[attrTargetField] = l.targetField
	}
	return l.store.AddType(func(id store.TypeID) store.Type {
		return &store.Proxy{To: l.typeName, Extras: extras}
	})
}
