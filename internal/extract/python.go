package extract

import (
	"context"
	"strings"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewPython returns the Python extractor: class_definition is the only
// type node; function_definition and async_function_definition are
// callables, class-stack qualified.
// Decorators live on a wrapping decorated_definition node (tree-sitter's
// grammar shape), so the hook walks up to the parent to collect them. The
// async flag is set from the node type or a leading "async" keyword.
func NewPython(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "python",
			typeRules: []typeRule{
				{nodeType: "class_definition", entityType: chunk.EntityClass},
			},
			callableRules: []callableRule{
				{nodeType: "function_definition", entityType: chunk.EntityFunction},
				{nodeType: "async_function_definition", entityType: chunk.EntityFunction},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return &fileContext{}
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if n.Type() != "function_definition" && n.Type() != "async_function_definition" {
					return false
				}
				isAsync := n.Type() == "async_function_definition" ||
					strings.HasPrefix(strings.TrimSpace(n.Content(source)), "async")
				attrs.Set(chunk.AttrAsync, boolStr(isAsync))

				if decorators := collectDecorators(n, source); len(decorators) > 0 {
					attrs.Set(chunk.AttrDecorators, strings.Join(decorators, ","))
				}

				if body := n.ChildByFieldName("body"); body != nil && body.NamedChildCount() > 0 {
					first := body.NamedChild(0)
					if first.Type() == "expression_statement" && first.NamedChildCount() > 0 {
						if expr := first.NamedChild(0); expr.Type() == "string" {
							attrs.Set(chunk.AttrDocstring, expr.Content(source))
						}
					}
				}
				return false
			},
		},
	}
}

// collectDecorators returns the trimmed source text of each decorator
// attached to n via a wrapping decorated_definition node.
func collectDecorators(n *sitter.Node, source []byte) []string {
	parent := n.Parent()
	if parent == nil || parent.Type() != "decorated_definition" {
		return nil
	}
	var out []string
	count := int(parent.NamedChildCount())
	for i := 0; i < count; i++ {
		c := parent.NamedChild(i)
		if c.Type() == "decorator" {
			out = append(out, strings.TrimSpace(c.Content(source)))
		}
	}
	return out
}
