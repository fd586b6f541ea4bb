package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewTypeScript returns the TS extractor: classes/interfaces/type aliases
// as types, methods/functions as callables, class-stack qualification.
func NewTypeScript(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "typescript",
			typeRules: []typeRule{
				{nodeType: "class_declaration", entityType: chunk.EntityClass},
				{nodeType: "interface_declaration", entityType: chunk.EntityInterface},
				{nodeType: "type_alias_declaration", entityType: chunk.EntityTypeAlias},
			},
			callableRules: []callableRule{
				{nodeType: "method_signature", entityType: chunk.EntityMethod},
				{nodeType: "method_definition", entityType: chunk.EntityMethod},
				{nodeType: "function_declaration", entityType: chunk.EntityFunction, becomesMethod: true},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return &fileContext{}
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				switch n.Type() {
				case "class_declaration":
					if heritage := n.ChildByFieldName("heritage"); heritage != nil {
						attrs.Set(chunk.AttrHeritage, heritage.Content(source))
					}
					if tp := n.ChildByFieldName("type_parameters"); tp != nil {
						attrs.Set(chunk.AttrTypeParameters, tp.Content(source))
					}
				case "interface_declaration":
					if tp := n.ChildByFieldName("type_parameters"); tp != nil {
						attrs.Set(chunk.AttrTypeParameters, tp.Content(source))
					}
				case "type_alias_declaration":
					if v := n.ChildByFieldName("value"); v != nil {
						attrs.Set(chunk.AttrValue, v.Content(source))
					}
				case "method_signature", "method_definition", "function_declaration":
					jsNodeHook(n, source, fc, typeStack, attrs, entityName, entityType)
				}
				return false
			},
		},
	}
}
