package extract

import (
	"context"
	"strings"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewJavaTS returns the Tree-sitter-backed Java extractor, registered
// alongside the built-in AST parser in package javaast. The two paths
// intentionally diverge on qualifier separator — this one uses ".", the
// built-in parser uses "#" — and neither is normalized to match the other.
func NewJavaTS(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "java-ts",
			typeRules: []typeRule{
				{nodeType: "class_declaration", entityType: chunk.EntityClass},
				{nodeType: "interface_declaration", entityType: chunk.EntityInterface},
				{nodeType: "enum_declaration", entityType: chunk.EntityEnum},
				{nodeType: "record_declaration", entityType: chunk.EntityRecord},
			},
			callableRules: []callableRule{
				{nodeType: "method_declaration", entityType: chunk.EntityMethod},
				{nodeType: "constructor_declaration", entityType: chunk.EntityConstructor},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				fc := scanRootForPackageAndImports(root, source, "package_declaration")
				count := int(root.NamedChildCount())
				for i := 0; i < count; i++ {
					if c := root.NamedChild(i); c.Type() == "import_declaration" {
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
				switch n.Type() {
				case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
					if mods := n.ChildByFieldName("modifiers"); mods != nil {
						attrs.Set(chunk.AttrModifiers, mods.Content(source))
						attrs.Set(chunk.AttrAnnotations, extractAnnotations(mods, source))
					}
					if tp := n.ChildByFieldName("type_parameters"); tp != nil {
						attrs.Set(chunk.AttrTypeParameters, tp.Content(source))
					}
					if super := n.ChildByFieldName("superclass"); super != nil {
						attrs.Set(chunk.AttrSuperclass, super.Content(source))
					}
					if ifaces := n.ChildByFieldName("interfaces"); ifaces != nil {
						attrs.Set(chunk.AttrInterfaces, ifaces.Content(source))
					}
				case "method_declaration", "constructor_declaration":
					if ret := n.ChildByFieldName("type"); ret != nil {
						attrs.Set(chunk.AttrReturnType, ret.Content(source))
					}
					if throws := n.ChildByFieldName("throws"); throws != nil {
						attrs.Set(chunk.AttrThrows, throws.Content(source))
					}
				}
				return false
			},
		},
	}
}

func extractAnnotations(modifiers *sitter.Node, source []byte) string {
	var out []string
	count := int(modifiers.NamedChildCount())
	for i := 0; i < count; i++ {
		c := modifiers.NamedChild(i)
		if c.Type() == "marker_annotation" || c.Type() == "annotation" {
			out = append(out, c.Content(source))
		}
	}
	return strings.Join(out, ", ")
}
