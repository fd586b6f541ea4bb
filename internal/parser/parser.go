// Package parser defines the common parser contract and a registry that
// dispatches a source file to the right language's extractor.
package parser

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// Parser extracts chunks from one file's worth of source text in one
// language. Implementations must not let an internal error propagate past
// Parse as a panic; the worst case is a (nil, err) or (empty, nil) return.
type Parser interface {
	// Language returns the language this parser handles (registry key).
	Language() string
	// Parse extracts chunks from source, sourceFile is used only to stamp
	// chunk.SourceFile and has no effect on parsing itself.
	Parse(ctx context.Context, source []byte, sourceFile string) ([]chunk.Chunk, error)
}

// TreeSitterLanguageFunc resolves the sitter.Language implementing a
// parser's grammar, deferred so registration doesn't force a grammar load.
type TreeSitterLanguageFunc func(ctx context.Context, language string) (*sitter.Language, error)

// TraverseDepthFirst walks tree in depth-first pre-order, left-to-right
// child order, calling visit for every node including root. It uses an
// explicit stack rather than recursion so arbitrarily deep trees (a
// pathological input a hostile or generated file can produce) cannot blow
// the goroutine stack.
func TraverseDepthFirst(root *sitter.Node, visit func(*sitter.Node)) {
	if root == nil {
		return
	}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)

		count := int(n.ChildCount())
		for i := count - 1; i >= 0; i-- {
			stack = append(stack, n.Child(i))
		}
	}
}
