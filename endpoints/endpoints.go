// Package endpoints discovers embedded query documents on disk and
// normalizes them into the canonical per-operation strings stored in a
// typegraph's metadata.
package endpoints

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/typegraph/host"
)

// Extensions of embedded query documents.
var Extensions = []string{"graphql", "gql"}

// readConcurrency bounds the parallel file reads of one discovery pass.
const readConcurrency = 8

// Discover globs for query documents under <root>/<folder>, parses each
// one, and returns the normalized text of every operation. File order is
// deterministic (sorted by path); operations keep their in-file order.
func Discover(h host.ABI, root, folder string) ([]string, error) {
	pattern := filepath.Join(root, folder, "**", "*")
	paths, err := h.Glob(pattern, Extensions)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	perFile := make([][]string, len(paths))
	var g errgroup.Group
	g.SetLimit(readConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			content, err := h.ReadFile(path)
			if err != nil {
				return err
			}
			ops, err := Normalize(path, string(content))
			if err != nil {
				return err
			}
			perFile[i] = ops
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, ops := range perFile {
		out = append(out, ops...)
	}
	return out, nil
}

// Normalize parses one query document and returns each of its operations
// re-formatted with collapsed whitespace. Fragments travel with every
// operation of their source document.
func Normalize(name, content string) ([]string, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: content})
	if err != nil {
		return nil, fmt.Errorf("endpoints: parse %q: %w", name, err)
	}

	ops := make([]string, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		single := &ast.QueryDocument{
			Operations: ast.OperationList{op},
			Fragments:  doc.Fragments,
		}
		var b strings.Builder
		formatter.NewFormatter(&b).FormatQueryDocument(single)
		ops = append(ops, collapseWhitespace(b.String()))
	}
	return ops, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
