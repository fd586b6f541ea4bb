package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewCSharp returns the C# extractor: class/interface/struct/enum/record
// declarations as types; methods, properties, and fields as callables;
// namespace context, dot separator.
func NewCSharp(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "csharp",
			typeRules: []typeRule{
				{nodeType: "class_declaration", entityType: chunk.EntityClass},
				{nodeType: "interface_declaration", entityType: chunk.EntityInterface},
				{nodeType: "struct_declaration", entityType: chunk.EntityStruct},
				{nodeType: "enum_declaration", entityType: chunk.EntityEnum},
				{nodeType: "record_declaration", entityType: chunk.EntityRecord},
			},
			callableRules: []callableRule{
				{nodeType: "method_declaration", entityType: chunk.EntityMethod},
				{nodeType: "property_declaration", entityType: chunk.EntityProperty},
				{nodeType: "field_declaration", entityType: chunk.EntityField},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return scanRootForPackageAndImports(root, source, "namespace_declaration", "using_directive")
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if fc.packageOrNamespace != "" {
					attrs.Set(chunk.AttrNamespace, fc.packageOrNamespace)
				}
				if len(typeStack) > 0 {
					attrs.Set(chunk.AttrEnclosingType, typeStack[len(typeStack)-1])
				}
				switch n.Type() {
				case "class_declaration", "interface_declaration", "struct_declaration", "enum_declaration", "record_declaration":
					if tp := n.ChildByFieldName("type_parameters"); tp != nil {
						attrs.Set(chunk.AttrTypeParameters, tp.Content(source))
					}
					if bases := n.ChildByFieldName("bases"); bases != nil {
						attrs.Set(chunk.AttrBaseList, bases.Content(source))
					}
				case "field_declaration":
					*entityType = chunk.EntityField
					if t := n.ChildByFieldName("type"); t != nil {
						attrs.Set(chunk.AttrType, t.Content(source))
					}
					if vd := findVariableDeclarator(n); vd != nil {
						if name := vd.ChildByFieldName("name"); name != nil {
							leaf := name.Content(source)
							if len(typeStack) > 0 {
								*entityName = joinDot(typeStack, leaf)
							} else {
								*entityName = leaf
							}
						}
					}
				case "property_declaration", "method_declaration":
					if t := n.ChildByFieldName("type"); t != nil {
						attrs.Set(chunk.AttrReturnType, t.Content(source))
					}
				}
				return false
			},
		},
	}
}

func findVariableDeclarator(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() == "variable_declaration" {
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if gc := c.NamedChild(j); gc.Type() == "variable_declarator" {
					return gc
				}
			}
		}
	}
	return nil
}

func joinDot(parts []string, leaf string) string {
	out := ""
	for _, p := range parts {
		out += p + "."
	}
	return out + leaf
}
