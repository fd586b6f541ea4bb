// Package extract implements the Tree-sitter chunk extractors: one per
// language, each a depth-first walk over a concrete syntax tree that
// identifies type- and member-defining nodes, computes qualified names
// across nested scopes, and emits deduplicated chunks.
package extract

import (
	"context"
	"strings"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	"github.com/olexmal/megabrain-parsekit/internal/coords"
	sitter "github.com/smacker/go-tree-sitter"
)

// typeRule matches a node that introduces a named scope (class, struct,
// module, ...). Entering one pushes its leaf name on the type stack and
// recurses without re-walking via the generic callable path.
type typeRule struct {
	nodeType   string
	entityType chunk.EntityType
}

// callableRule matches a node that should be emitted as a leaf member
// (function, method, field, ...). becomesMethod upgrades the entity type
// from its base value to "method" when emitted inside an active type scope.
type callableRule struct {
	nodeType      string
	entityType    chunk.EntityType
	becomesMethod bool
}

// fileContext holds the per-file, read-only scope computed once from
// root-level nodes (package/namespace/imports) and never mutated afterward.
type fileContext struct {
	packageOrNamespace string
	imports            []string
}

// languageSpec is the data-driven description of one language's extractor.
// Most languages fit this shape; languages whose walk needs extra per-node
// behavior (Go receivers, Python decorators/docstrings, Ruby singleton
// methods, Swift extension naming, Java throws clauses) supply a nodeHook
// that runs after the generic attribute extraction.
type languageSpec struct {
	language      string
	typeRules     []typeRule
	callableRules []callableRule
	separator     string
	buildContext  func(root *sitter.Node, source []byte) *fileContext
	nodeHook      func(n *sitter.Node, source []byte, fc *fileContext, typeStack []string, attrs *chunk.AttributeMap, entityName *string, entityType *chunk.EntityType) (skip bool)
}

func (ls languageSpec) matchType(nodeType string) (chunk.EntityType, bool) {
	for _, r := range ls.typeRules {
		if r.nodeType == nodeType {
			return r.entityType, true
		}
	}
	return "", false
}

func (ls languageSpec) matchCallable(nodeType string) (callableRule, bool) {
	for _, r := range ls.callableRules {
		if r.nodeType == nodeType {
			return r, true
		}
	}
	return callableRule{}, false
}

// genericExtractor implements parser.Parser by running languageSpec's
// ruleset over a Tree-sitter tree. It is unexported; each per-language file
// in this package wraps one in a small exported constructor so
// parser.Registry.Register sees a distinct, named Parser value.
type genericExtractor struct {
	spec       languageSpec
	langLoader func(ctx context.Context) (*sitter.Language, error)
}

func (g *genericExtractor) Language() string { return g.spec.language }

func (g *genericExtractor) Parse(ctx context.Context, source []byte, sourceFile string) ([]chunk.Chunk, error) {
	lang, err := g.langLoader(ctx)
	if err != nil || lang == nil {
		return nil, err
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)
	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil || tree == nil {
		return nil, err
	}
	defer tree.Close()
	defer p.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	sc := coords.New(string(source))
	fc := g.spec.buildContext(root, source)
	if fc == nil {
		fc = &fileContext{}
	}

	w := &walker{
		spec:    g.spec,
		source:  source,
		sc:      sc,
		fc:      fc,
		sourceF: sourceFile,
		seen:    map[string]bool{},
	}
	w.walk(root, nil)
	return w.out, nil
}

type walker struct {
	spec    languageSpec
	source  []byte
	sc      *coords.SourceCoordinates
	fc      *fileContext
	sourceF string
	seen    map[string]bool
	out     []chunk.Chunk
}

func (w *walker) walk(n *sitter.Node, typeStack []string) {
	if n == nil {
		return
	}

	nodeType := n.Type()

	if entityType, ok := w.spec.matchType(nodeType); ok {
		name := nodeName(n, w.source)
		leaf := name
		if leaf == "" {
			leaf = anonymousLeaf(nodeType)
		}
		qualified := w.qualify(typeStack, leaf)
		attrs := chunk.NewAttributeMap()

		skip := false
		if w.spec.nodeHook != nil {
			skip = w.spec.nodeHook(n, w.source, w.fc, typeStack, attrs, &qualified, &entityType)
		}
		if !skip {
			w.emit(n, entityType, qualified, attrs)
		}

		childStack := append(append([]string{}, typeStack...), leaf)
		w.recurseChildren(n, childStack)
		return
	}

	if rule, ok := w.spec.matchCallable(nodeType); ok {
		name := nodeName(n, w.source)
		entityType := rule.entityType
		attrs := chunk.NewAttributeMap()
		populateCommonAttrs(n, w.source, attrs)

		qualified := name
		if len(typeStack) > 0 {
			qualified = w.qualify(typeStack, name)
			if rule.becomesMethod {
				entityType = chunk.EntityMethod
			}
		}

		if w.spec.nodeHook != nil {
			if skip := w.spec.nodeHook(n, w.source, w.fc, typeStack, attrs, &qualified, &entityType); skip {
				w.recurseChildren(n, typeStack)
				return
			}
		}

		w.emit(n, entityType, qualified, attrs)
	}

	w.recurseChildren(n, typeStack)
}

func (w *walker) recurseChildren(n *sitter.Node, typeStack []string) {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		w.walk(n.NamedChild(i), typeStack)
	}
}

func (w *walker) qualify(typeStack []string, leaf string) string {
	parts := make([]string, 0, len(typeStack)+2)
	if w.fc.packageOrNamespace != "" {
		parts = append(parts, w.fc.packageOrNamespace)
	}
	parts = append(parts, typeStack...)
	parts = append(parts, leaf)
	sep := w.spec.separator
	if sep == "" {
		sep = "."
	}
	return strings.Join(parts, sep)
}

func (w *walker) emit(n *sitter.Node, entityType chunk.EntityType, name string, attrs *chunk.AttributeMap) {
	startByte := int(n.StartByte())
	endByte := int(n.EndByte())
	if startByte < 0 || endByte > len(w.source) || startByte > endByte {
		return
	}

	startPoint := n.StartPoint()
	endPoint := n.EndPoint()

	c, err := chunk.New(
		string(w.source[startByte:endByte]),
		w.spec.language,
		entityType,
		name,
		w.sourceF,
		int(startPoint.Row)+1,
		int(endPoint.Row)+1,
		startByte,
		endByte,
		attrs,
	)
	if err != nil {
		return
	}

	key := c.DedupKey()
	if w.seen[key] {
		return
	}
	w.seen[key] = true
	w.out = append(w.out, c)
}

// nodeName looks for a "name" field child first, then falls back to
// scanning named children for a bare identifier-shaped node.
func nodeName(n *sitter.Node, source []byte) string {
	if named := n.ChildByFieldName("name"); named != nil {
		return named.Content(source)
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "identifier", "type_identifier", "field_identifier", "property_identifier", "constant":
			return c.Content(source)
		}
	}
	return ""
}

func anonymousLeaf(nodeType string) string {
	return "<anonymous:" + nodeType + ">"
}

// scanRootForPackageAndImports walks root's immediate named children once,
// collecting the first node matching packageNodeType (its name-bearing
// content becomes the package/namespace prefix) and the content of every
// node matching any of importNodeTypes. Used by the many languages whose
// file-level context is "one package/namespace clause plus a flat list of imports".
func scanRootForPackageAndImports(root *sitter.Node, source []byte, packageNodeType string, importNodeTypes ...string) *fileContext {
	fc := &fileContext{}
	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		child := root.NamedChild(i)
		t := child.Type()
		if t == packageNodeType && fc.packageOrNamespace == "" {
			fc.packageOrNamespace = nodeName(child, source)
			if fc.packageOrNamespace == "" {
				fc.packageOrNamespace = strings.TrimSpace(child.Content(source))
			}
			continue
		}
		for _, it := range importNodeTypes {
			if t == it {
				fc.imports = append(fc.imports, strings.TrimSpace(child.Content(source)))
				break
			}
		}
	}
	return fc
}

func populateCommonAttrs(n *sitter.Node, source []byte, attrs *chunk.AttributeMap) {
	if params := n.ChildByFieldName("parameters"); params != nil {
		attrs.Set(chunk.AttrParameters, params.Content(source))
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		attrs.Set(chunk.AttrReturnType, ret.Content(source))
	}
}

