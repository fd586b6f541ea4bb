package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewC returns the C chunk extractor: structs as types, function
// definitions as callables, no package or namespace qualifier. The
// separator is left empty, so a struct nested in another struct is
// dot-joined to it by the walker's "." fallback.
func NewC(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "c",
			typeRules: []typeRule{
				{nodeType: "struct_specifier", entityType: chunk.EntityStruct},
			},
			callableRules: []callableRule{
				{nodeType: "function_definition", entityType: chunk.EntityFunction},
			},
			separator: "",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return &fileContext{}
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if declarator := n.ChildByFieldName("declarator"); declarator != nil {
					if fnDecl := findFunctionDeclarator(declarator); fnDecl != nil {
						if name := fnDecl.ChildByFieldName("declarator"); name != nil {
							*entityName = name.Content(source)
						}
						if params := fnDecl.ChildByFieldName("parameters"); params != nil {
							attrs.Set(chunk.AttrParameters, params.Content(source))
						}
					}
				}
				if ret := n.ChildByFieldName("type"); ret != nil {
					attrs.Set(chunk.AttrReturnType, ret.Content(source))
				}
				attrs.Set(chunk.AttrSignature, firstLine(n.Content(source)))
				return false
			},
		},
	}
}

// findFunctionDeclarator descends through pointer/array wrapper declarators
// to the function_declarator carrying the name and parameter list.
func findFunctionDeclarator(n *sitter.Node) *sitter.Node {
	for n != nil {
		if n.Type() == "function_declarator" {
			return n
		}
		n = n.ChildByFieldName("declarator")
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
