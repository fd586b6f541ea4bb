package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewSwift returns the Swift extractor: class/struct/enum/protocol/
// extension declarations as types, function_declaration as callables, dot
// separator, no package qualifier. An extension_declaration without a
// usable name is silently dropped.
func NewSwift(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "swift",
			typeRules: []typeRule{
				{nodeType: "class_declaration", entityType: chunk.EntityClass},
				{nodeType: "struct_declaration", entityType: chunk.EntityStruct},
				{nodeType: "enum_declaration", entityType: chunk.EntityEnum},
				{nodeType: "protocol_declaration", entityType: chunk.EntityProtocol},
				{nodeType: "extension_declaration", entityType: chunk.EntityExtension},
			},
			callableRules: []callableRule{
				{nodeType: "function_declaration", entityType: chunk.EntityFunction, becomesMethod: true},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return &fileContext{}
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if len(typeStack) > 0 {
					attrs.Set(chunk.AttrEnclosingType, typeStack[len(typeStack)-1])
				}
				switch n.Type() {
				case "extension_declaration":
					extended := n.ChildByFieldName("name")
					if extended == nil {
						return true // drop: no extended_type to name the chunk
					}
					attrs.Set(chunk.AttrExtendedType, extended.Content(source))
					*entityName = extended.Content(source)
					if len(typeStack) > 0 {
						*entityName = joinDot(typeStack, *entityName)
					}
				case "class_declaration", "struct_declaration", "enum_declaration", "protocol_declaration":
					if gp := n.ChildByFieldName("generic_parameter_clause"); gp != nil {
						attrs.Set(chunk.AttrGenericParameters, gp.Content(source))
					}
					if inh := n.ChildByFieldName("inheritance"); inh != nil {
						attrs.Set(chunk.AttrInheritance, inh.Content(source))
					}
				case "function_declaration":
					if mods := n.ChildByFieldName("modifiers"); mods != nil {
						attrs.Set(chunk.AttrModifiers, mods.Content(source))
					}
					if ret := n.ChildByFieldName("return_type"); ret != nil {
						attrs.Set(chunk.AttrReturnType, ret.Content(source))
					}
				}
				return false
			},
		},
	}
}
