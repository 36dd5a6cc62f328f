package graphql

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// DefaultMaxDepth admits navigateToFaculty { route { path { services { name } } } }
// with one level to spare.
const DefaultMaxDepth = 6

// depthWalker measures selection nesting. Only fields with sub-selections add a
// level; inline fragments and spreads are flattened into their parent.
type depthWalker struct {
	fragments map[string]*ast.FragmentDefinition
	onPath    map[string]bool
}

func newDepthWalker(doc *ast.Document) *depthWalker {
	w := &depthWalker{
		fragments: make(map[string]*ast.FragmentDefinition),
		onPath:    make(map[string]bool),
	}
	for _, def := range doc.Definitions {
		if frag, ok := def.(*ast.FragmentDefinition); ok && frag.Name != nil {
			w.fragments[frag.Name.Value] = frag
		}
	}
	return w
}

// document returns the deepest operation in doc.
func (w *depthWalker) document(doc *ast.Document) int {
	deepest := 0
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			deepest = max(deepest, w.set(op.SelectionSet, 1))
		}
	}
	return deepest
}

func (w *depthWalker) set(ss *ast.SelectionSet, depth int) int {
	if ss == nil {
		return depth
	}
	deepest := depth
	for _, sel := range ss.Selections {
		deepest = max(deepest, w.selection(sel, depth))
	}
	return deepest
}

func (w *depthWalker) selection(sel ast.Selection, depth int) int {
	switch s := sel.(type) {
	case *ast.Field:
		if s.SelectionSet == nil || strings.HasPrefix(s.Name.Value, "__") {
			return depth
		}
		return w.set(s.SelectionSet, depth+1)

	case *ast.InlineFragment:
		return w.set(s.SelectionSet, depth)

	case *ast.FragmentSpread:
		name := s.Name.Value
		frag, known := w.fragments[name]
		// A cycle or an unknown fragment is charged one level and not followed.
		if !known || w.onPath[name] {
			return depth + 1
		}
		w.onPath[name] = true
		defer delete(w.onPath, name)
		return w.set(frag.SelectionSet, depth)
	}
	return depth
}

// ValidateQueryDepth rejects queries nested deeper than maxDepth.
func ValidateQueryDepth(query string, maxDepth int) error {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}
	if depth := newDepthWalker(doc).document(doc); depth > maxDepth {
		return fmt.Errorf("query depth %d exceeds maximum allowed depth %d", depth, maxDepth)
	}
	return nil
}
