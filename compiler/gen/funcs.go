package gen

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules  = inflect.NewDefaultRuleset()
	titler = cases.Title(language.Und, cases.NoLower)
)

// Pascal converts a snake_case identifier to PascalCase.
func Pascal(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = titler.String(p)
	}
	return strings.Join(parts, "")
}

// Snake converts an identifier to snake_case.
func Snake(s string) string {
	return rules.Underscore(s)
}

// Plural pluralizes a word.
func Plural(s string) string {
	return rules.Pluralize(s)
}

// Singular singularizes a word.
func Singular(s string) string {
	return rules.Singularize(s)
}
