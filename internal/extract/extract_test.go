package extract

import (
	"context"
	"testing"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// These tests use smacker's statically bound grammars rather than the
// dynamic grammar.Manager, so they exercise the real Tree-sitter parse/walk
// path without a network download.

func staticLoader(lang *sitter.Language) func(context.Context) (*sitter.Language, error) {
	return func(context.Context) (*sitter.Language, error) { return lang, nil }
}

func findChunk(chunks []chunk.Chunk, name string) (chunk.Chunk, bool) {
	for _, c := range chunks {
		if c.EntityName == name {
			return c, true
		}
	}
	return chunk.Chunk{}, false
}

func TestCExtractor_StructAndFunction(t *testing.T) {
	p := NewC(staticLoader(c.GetLanguage()))
	src := "typedef struct Foo { int x; } Foo;\nint add(int a, int b){return a+b;}"

	chunks, err := p.Parse(context.Background(), []byte(src), "sample.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	structChunk, ok := findChunk(chunks, "Foo")
	if !ok {
		t.Fatalf("expected a Foo struct chunk, got %+v", chunks)
	}
	if structChunk.EntityType != chunk.EntityStruct {
		t.Fatalf("expected entity_type struct, got %s", structChunk.EntityType)
	}

	addChunk, ok := findChunk(chunks, "add")
	if !ok {
		t.Fatalf("expected an add function chunk, got %+v", chunks)
	}
	if addChunk.EntityType != chunk.EntityFunction {
		t.Fatalf("expected entity_type function, got %s", addChunk.EntityType)
	}
	if params, _ := addChunk.Attributes.Get(chunk.AttrParameters); params == "" {
		t.Fatalf("expected non-empty parameters attribute")
	}
}

func TestPythonExtractor_AsyncDecoratedFunctionWithDocstring(t *testing.T) {
	p := NewPython(staticLoader(python.GetLanguage()))
	src := "@cache\nasync def fetch(url: str) -> bytes:\n    \"\"\"Fetch bytes.\"\"\"\n    ...\n"

	chunks, err := p.Parse(context.Background(), []byte(src), "sample.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetchChunk, ok := findChunk(chunks, "fetch")
	if !ok {
		t.Fatalf("expected a fetch function chunk, got %+v", chunks)
	}
	if async, _ := fetchChunk.Attributes.Get(chunk.AttrAsync); async != "true" {
		t.Fatalf("expected async=true, got %q", async)
	}
	if dec, _ := fetchChunk.Attributes.Get(chunk.AttrDecorators); dec != "@cache" {
		t.Fatalf("expected decorators \"@cache\", got %q", dec)
	}
	if doc, _ := fetchChunk.Attributes.Get(chunk.AttrDocstring); doc == "" {
		t.Fatalf("expected a non-empty docstring attribute")
	}
}

func TestJavaScriptExtractor_ClassMethodAndTopLevelFunction(t *testing.T) {
	p := NewJavaScript(staticLoader(javascript.GetLanguage()))
	src := "class A { foo() {} } function bar() {}"

	chunks, err := p.Parse(context.Background(), []byte(src), "sample.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks (class, method, function), got %d: %+v", len(chunks), chunks)
	}

	classChunk, ok := findChunk(chunks, "A")
	if !ok || classChunk.EntityType != chunk.EntityClass {
		t.Fatalf("expected class A, got %+v", chunks)
	}
	methodChunk, ok := findChunk(chunks, "A.foo")
	if !ok || methodChunk.EntityType != chunk.EntityMethod {
		t.Fatalf("expected method A.foo, got %+v", chunks)
	}
	funcChunk, ok := findChunk(chunks, "bar")
	if !ok || funcChunk.EntityType != chunk.EntityFunction {
		t.Fatalf("expected function bar, got %+v", chunks)
	}
}

func TestDedupSuppressesRepeatedEmission(t *testing.T) {
	src := []byte("int f(){return 0;}")
	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(c.GetLanguage())
	tree, err := sp.ParseCtx(context.Background(), nil, src)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer tree.Close()
	fn := tree.RootNode().NamedChild(0)

	w := &walker{
		spec:   languageSpec{language: "c"},
		source: src,
		seen:   map[string]bool{},
		fc:     &fileContext{},
	}
	w.emit(fn, chunk.EntityFunction, "f", chunk.NewAttributeMap())
	w.emit(fn, chunk.EntityFunction, "f", chunk.NewAttributeMap())

	if len(w.out) != 1 {
		t.Fatalf("expected the repeated emission to be suppressed, got %d chunks", len(w.out))
	}
}
