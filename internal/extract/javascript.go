package extract

import (
	"context"
	"strings"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewJavaScript returns the JS extractor: class_declaration as the only
// type node; function_declaration and method_definition as callables,
// dot-qualified by the class stack, function_declaration promoted to
// "method" when inside a class.
func NewJavaScript(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "javascript",
			typeRules: []typeRule{
				{nodeType: "class_declaration", entityType: chunk.EntityClass},
			},
			callableRules: []callableRule{
				{nodeType: "function_declaration", entityType: chunk.EntityFunction, becomesMethod: true},
				{nodeType: "method_definition", entityType: chunk.EntityMethod},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return &fileContext{}
			},
			nodeHook: jsNodeHook,
		},
	}
}

func jsNodeHook(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
	switch n.Type() {
	case "class_declaration":
		if super := n.ChildByFieldName("superclass"); super != nil {
			attrs.Set(chunk.AttrSuperclass, super.Content(source))
		}
	case "function_declaration", "method_definition":
		content := n.Content(source)
		isAsync := strings.HasPrefix(strings.TrimSpace(content), "async")
		attrs.Set(chunk.AttrAsync, boolStr(isAsync))
	}
	return false
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
