package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewPHP returns a PHP extractor built on the same shape as the other
// languages: classes/interfaces/traits as types, methods and functions as
// callables, dot-joined qualification. Namespaces are not modeled; this
// follows the closest analog among the other extractors — C#/Java-style
// class-scoped methods.
func NewPHP(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "php",
			typeRules: []typeRule{
				{nodeType: "class_declaration", entityType: chunk.EntityClass},
				{nodeType: "interface_declaration", entityType: chunk.EntityInterface},
				{nodeType: "trait_declaration", entityType: chunk.EntityTrait},
			},
			callableRules: []callableRule{
				{nodeType: "method_declaration", entityType: chunk.EntityMethod},
				{nodeType: "function_definition", entityType: chunk.EntityFunction},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return scanRootForPackageAndImports(root, source, "namespace_definition")
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if fc.packageOrNamespace != "" {
					attrs.Set(chunk.AttrNamespace, fc.packageOrNamespace)
				}
				if n.Type() == "class_declaration" {
					if base := n.ChildByFieldName("base_clause"); base != nil {
						attrs.Set(chunk.AttrExtends, base.Content(source))
					}
				}
				if n.Type() == "method_declaration" || n.Type() == "function_definition" {
					if ret := n.ChildByFieldName("return_type"); ret != nil {
						attrs.Set(chunk.AttrReturnType, ret.Content(source))
					}
				}
				return false
			},
		},
	}
}
