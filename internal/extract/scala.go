package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewScala returns the Scala extractor: class/trait/object/case_class
// definitions as types, function_definition as callables, package_clause
// context, dot separator.
func NewScala(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "scala",
			typeRules: []typeRule{
				{nodeType: "class_definition", entityType: chunk.EntityClass},
				{nodeType: "trait_definition", entityType: chunk.EntityTrait},
				{nodeType: "object_definition", entityType: chunk.EntityObject},
				{nodeType: "case_class_definition", entityType: chunk.EntityDataClass},
			},
			callableRules: []callableRule{
				{nodeType: "function_definition", entityType: chunk.EntityFunction, becomesMethod: true},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				fc := &fileContext{}
				count := int(root.NamedChildCount())
				for i := 0; i < count; i++ {
					if c := root.NamedChild(i); c.Type() == "package_clause" && c.NamedChildCount() > 0 {
						fc.packageOrNamespace = c.NamedChild(0).Content(source)
						break
					}
				}
				return fc
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if fc.packageOrNamespace != "" {
					attrs.Set(chunk.AttrPackage, fc.packageOrNamespace)
				}
				if len(typeStack) > 0 {
					attrs.Set(chunk.AttrEnclosingType, typeStack[len(typeStack)-1])
				}
				switch n.Type() {
				case "class_definition", "trait_definition", "case_class_definition":
					if tp := n.ChildByFieldName("type_parameters"); tp != nil {
						attrs.Set(chunk.AttrTypeParameters, tp.Content(source))
					}
					if ext := n.ChildByFieldName("extends"); ext != nil {
						attrs.Set(chunk.AttrExtends, ext.Content(source))
					}
				case "function_definition":
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
