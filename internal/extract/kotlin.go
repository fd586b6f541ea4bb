package extract

import (
	"context"
	"strings"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewKotlin returns the Kotlin extractor: class/interface/enum/object/data/
// sealed/annotation declarations as types, functions and properties as
// callables, package_header context.
func NewKotlin(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "kotlin",
			typeRules: []typeRule{
				{nodeType: "class_declaration", entityType: chunk.EntityClass},
				{nodeType: "interface_declaration", entityType: chunk.EntityInterface},
				{nodeType: "enum_class", entityType: chunk.EntityEnum},
				{nodeType: "object_declaration", entityType: chunk.EntityObject},
				{nodeType: "data_class", entityType: chunk.EntityDataClass},
				{nodeType: "sealed_class", entityType: chunk.EntitySealedClass},
				{nodeType: "annotation_declaration", entityType: chunk.EntityAnnotation},
			},
			callableRules: []callableRule{
				{nodeType: "function_declaration", entityType: chunk.EntityFunction, becomesMethod: true},
				{nodeType: "property_declaration", entityType: chunk.EntityProperty},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				fc := scanRootForPackageAndImports(root, source, "package_header")
				count := int(root.NamedChildCount())
				for i := 0; i < count; i++ {
					if c := root.NamedChild(i); c.Type() == "import_list" {
						fc.imports = append(fc.imports, strings.TrimSpace(c.Content(source)))
					}
				}
				return fc
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if fc.packageOrNamespace != "" {
					attrs.Set(chunk.AttrPackage, fc.packageOrNamespace)
				}
				if len(fc.imports) > 0 {
					attrs.Set(chunk.AttrImports, strings.Join(fc.imports, ", "))
				}
				if len(typeStack) > 0 {
					attrs.Set(chunk.AttrEnclosingType, typeStack[len(typeStack)-1])
				}
				if modifiers := n.ChildByFieldName("modifiers"); modifiers != nil {
					attrs.Set(chunk.AttrModifiers, modifiers.Content(source))
				}
				if n.Type() == "function_declaration" {
					if ret := n.ChildByFieldName("type"); ret != nil {
						attrs.Set(chunk.AttrReturnType, ret.Content(source))
					}
				}
				if n.Type() == "property_declaration" {
					if t := n.ChildByFieldName("type"); t != nil {
						attrs.Set(chunk.AttrType, t.Content(source))
					}
				}
				return false
			},
		},
	}
}
