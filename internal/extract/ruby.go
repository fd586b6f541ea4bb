package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewRuby returns the Ruby extractor: class/module/singleton_class as
// types, method/singleton_method as callables, "::"-separated
// qualification. A singleton method's receiver object can supply the
// entity name when the name field is absent.
func NewRuby(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "ruby",
			typeRules: []typeRule{
				{nodeType: "class", entityType: chunk.EntityClass},
				{nodeType: "module", entityType: chunk.EntityModule},
				{nodeType: "singleton_class", entityType: chunk.EntityClass},
			},
			callableRules: []callableRule{
				{nodeType: "method", entityType: chunk.EntityMethod},
				{nodeType: "singleton_method", entityType: chunk.EntitySingletonMethod},
			},
			separator: "::",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return &fileContext{}
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				switch n.Type() {
				case "class":
					if super := n.ChildByFieldName("superclass"); super != nil {
						attrs.Set(chunk.AttrSuperclass, super.Content(source))
					}
				case "singleton_method":
					if obj := n.ChildByFieldName("object"); obj != nil {
						objName := obj.Content(source)
						attrs.Set(chunk.AttrObject, objName)
						leaf := objName
						if name := n.ChildByFieldName("name"); name != nil {
							leaf = objName + "." + name.Content(source)
						}
						*entityName = leaf
						if len(typeStack) > 0 {
							*entityName = joinSep(typeStack, "::") + "::" + leaf
						}
					}
				}
				if len(typeStack) > 0 {
					attrs.Set(chunk.AttrEnclosingType, joinSep(typeStack, "::"))
				}
				return false
			},
		},
	}
}

func joinSep(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
