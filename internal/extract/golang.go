package extract

import (
	"context"
	"strings"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

// NewGo returns the Go extractor: type declarations (including
// interface/struct bodies) as types, function and method declarations as
// callables — a method's receiver type (after stripping leading `*` and
// slice brackets) prefixes its name.
func NewGo(loader func(context.Context) (*sitter.Language, error)) *genericExtractor {
	return &genericExtractor{
		langLoader: loader,
		spec: languageSpec{
			language: "go",
			typeRules: []typeRule{
				{nodeType: "type_declaration", entityType: chunk.EntityType_},
			},
			callableRules: []callableRule{
				{nodeType: "function_declaration", entityType: chunk.EntityFunction},
				{nodeType: "method_declaration", entityType: chunk.EntityMethod},
			},
			separator: ".",
			buildContext: func(root *sitter.Node, source []byte) *fileContext {
				fc := scanRootForPackageAndImports(root, source, "package_clause")
				count := int(root.NamedChildCount())
				for i := 0; i < count; i++ {
					child := root.NamedChild(i)
					if child.Type() == "import_declaration" {
						fc.imports = append(fc.imports, strings.TrimSpace(child.Content(source)))
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

				switch n.Type() {
				case "type_declaration":
					if spec := firstNamedChildOfType(n, "type_spec"); spec != nil {
						if t := spec.ChildByFieldName("type"); t != nil {
							switch t.Type() {
							case "interface_type":
								*entityType = chunk.EntityInterface
							case "struct_type":
								*entityType = chunk.EntityStruct
							}
						}
					}
				case "method_declaration":
					recv := n.ChildByFieldName("receiver")
					if recv != nil {
						recvType := strings.TrimLeft(receiverTypeName(recv, source), "*[]")
						attrs.Set(chunk.AttrReceiver, recv.Content(source))
						attrs.Set(chunk.AttrEnclosingType, recvType)
						if name := n.ChildByFieldName("name"); name != nil {
							*entityName = recvType + "." + name.Content(source)
						}
					}
				}
				return false
			},
		},
	}
}

func firstNamedChildOfType(n *sitter.Node, nodeType string) *sitter.Node {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c.Type() == nodeType {
			return c
		}
	}
	return nil
}

func receiverTypeName(receiver *sitter.Node, source []byte) string {
	count := int(receiver.NamedChildCount())
	for i := 0; i < count; i++ {
		param := receiver.NamedChild(i)
		if t := param.ChildByFieldName("type"); t != nil {
			return t.Content(source)
		}
	}
	return ""
}
