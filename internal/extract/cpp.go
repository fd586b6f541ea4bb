package extract

import (
	"context"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewCPP returns the C++ extractor: classes and structs are types;
// function_definition becomes "method" once inside a class/struct scope,
// dot-separated qualification.
func NewCPP(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "cpp",
			typeRules: []typeRule{
				{nodeType: "class_specifier", entityType: chunk.EntityClass},
				{nodeType: "struct_specifier", entityType: chunk.EntityStruct},
			},
			callableRules: []callableRule{
				{nodeType: "function_definition", entityType: chunk.EntityFunction, becomesMethod: true},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				return scanRootForPackageAndImports(root, source, "namespace_definition")
			},
			nodeHook: func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) bool {
				if parent := n.Parent(); parent != nil && parent.Type() == "template_declaration" {
					if tp := parent.ChildByFieldName("parameters"); tp != nil {
						attrs.Set(chunk.AttrTemplateParameters, tp.Content(source))
					}
				}
				if n.Type() == "class_specifier" || n.Type() == "struct_specifier" {
					if bases := n.ChildByFieldName("base_class_clause"); bases != nil {
						attrs.Set(chunk.AttrBases, bases.Content(source))
					}
					return false
				}
				if declarator := n.ChildByFieldName("declarator"); declarator != nil {
					if fnDecl := findFunctionDeclarator(declarator); fnDecl != nil {
						if name := fnDecl.ChildByFieldName("declarator"); name != nil {
							attrs.Set(chunk.AttrIdentifier, name.Content(source))
						}
						if params := fnDecl.ChildByFieldName("parameters"); params != nil {
							attrs.Set(chunk.AttrParameters, params.Content(source))
						}
					}
				}
				if ret := n.ChildByFieldName("type"); ret != nil {
					attrs.Set(chunk.AttrReturnType, ret.Content(source))
				}
				return false
			},
		},
	}
}
