package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewRust returns the Rust extractor: struct/enum/trait/impl/mod items as
// types, function_item as callables, "::"-separated qualification by the
// stack of enclosing modules and types.
func NewRust(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "rust",
			typeRules: []typeRule{
				{nodeType: "struct_item", entityType: chunk.EntityStruct},
				{nodeType: "enum_item", entityType: chunk.EntityEnum},
				{nodeType: "trait_item", entityType: chunk.EntityTrait},
				{nodeType: "impl_item", entityType: chunk.EntityObject},
				{nodeType: "mod_item", entityType: chunk.EntityModule},
			},
			callableRules: []callableRule{
				{nodeType: "function_item", entityType: chunk.EntityFunction, becomesMethod: true},
			},
			separator: "::",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return &fileContext{}
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if n.Type() == "impl_item" {
					if t := n.ChildByFieldName("type"); t != nil {
						*entityName = t.Content(source)
						if len(typeStack) > 0 {
							*entityName = joinSep(typeStack, "::") + "::" + *entityName
						}
					}
				}
				if n.Type() == "function_item" {
					if ret := n.ChildByFieldName("return_type"); ret != nil {
						attrs.Set(chunk.AttrReturnType, ret.Content(source))
					}
					if params := n.ChildByFieldName("parameters"); params != nil {
						attrs.Set(chunk.AttrParameters, params.Content(source))
					}
				}
				return false
			},
		},
	}
}
