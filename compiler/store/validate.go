package store

import (
	"regexp"

	"github.com/syssam/typegraph"
)

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether s satisfies the identifier grammar used for
// struct property keys and export names.
func ValidIdent(s string) bool {
	return identRE.MatchString(s)
}

// ValidateBounds checks the min/max ordering of a bounded numeric or
// length type. Both the inclusive and the exclusive pair must have min
// strictly less than max.
func ValidateBounds(min, max, xmin, xmax *float64) error {
	if min != nil && max != nil && *min >= *max {
		return typegraph.NewInvalidMaxValueError(*min, *max)
	}
	if xmin != nil && xmax != nil && *xmin >= *xmax {
		return typegraph.NewInvalidMaxValueError(*xmin, *xmax)
	}
	return nil
}

// ValidateLengthBounds checks min/max ordering for unsigned length
// bounds (string length, array size).
func ValidateLengthBounds(min, max *uint32) error {
	if min != nil && max != nil && *min >= *max {
		return typegraph.NewInvalidMaxValueError(float64(*min), float64(*max))
	}
	return nil
}

// ValidateProps checks struct property keys against the identifier
// grammar and rejects duplicates, failing fast before any arena
// mutation.
func ValidateProps(props []Prop) error {
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if !ValidIdent(p.Key) {
			return typegraph.NewInvalidPropKeyError(p.Key)
		}
		if _, dup := seen[p.Key]; dup {
			return typegraph.NewDuplicateKeyError(p.Key)
		}
		seen[p.Key] = struct{}{}
	}
	return nil
}

// ValidateFuncInput checks that a function input resolves, after proxy
// resolution, to a struct. Unresolved proxies are tolerated here; they
// are caught at finalization.
func (s *Store) ValidateFuncInput(input TypeID) error {
	resolved, err := s.ResolveProxy(input)
	if err != nil {
		if typegraph.IsNotFound(err) {
			return err
		}
		// Forward reference to a name not yet registered; defer the
		// struct check to finalization.
		return nil
	}
	t, err := s.GetType(resolved)
	if err != nil {
		return err
	}
	if _, ok := t.(*Struct); !ok {
		return typegraph.NewInvalidInputTypeError(s.Repr(resolved))
	}
	return nil
}
