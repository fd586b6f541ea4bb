package parser

import (
	"context"
	"testing"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	sitter "github.com/smacker/go-tree-sitter"
)

type stubParser struct {
	lang   string
	chunks []chunk.Chunk
	err    error
}

func (s *stubParser) Language() string { return s.lang }

func (s *stubParser) Parse(ctx context.Context, source []byte, sourceFile string) ([]chunk.Chunk, error) {
	return s.chunks, s.err
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubParser{lang: "go", chunks: []chunk.Chunk{{Language: "go"}}})

	chunks, err := r.Parse(context.Background(), "go", []byte("package main"), "main.go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestRegistryUnknownLanguageYieldsEmpty(t *testing.T) {
	r := NewRegistry()
	chunks, err := r.Parse(context.Background(), "cobol", []byte("IDENTIFICATION DIVISION."), "prog.cob")
	if err != nil {
		t.Fatalf("unregistered language must not error, got %v", err)
	}
	if chunks != nil {
		t.Fatalf("expected nil chunk list, got %v", chunks)
	}
}

func TestLanguageForExtension(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubParser{lang: "rust"}, ".rs")

	lang, ok := r.LanguageForExtension(".rs")
	if !ok || lang != "rust" {
		t.Fatalf("expected .rs -> rust, got %s, %v", lang, ok)
	}
	if _, ok := r.LanguageForExtension(".unknown"); ok {
		t.Fatalf("expected unknown extension to be unmapped")
	}
}

func TestLanguageForExtensionLastRegisteredWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubParser{lang: "c"}, ".h")
	r.Register(&stubParser{lang: "cpp"}, ".h")

	lang, ok := r.LanguageForExtension(".h")
	if !ok || lang != "cpp" {
		t.Fatalf("expected the later Register call to win .h, got %s, %v", lang, ok)
	}
}

func TestTraverseDepthFirstNilRootVisitsNothing(t *testing.T) {
	visited := 0
	var root *sitter.Node
	TraverseDepthFirst(root, func(n *sitter.Node) {
		visited++
	})
	if visited != 0 {
		t.Fatalf("nil root must visit nothing")
	}
}
