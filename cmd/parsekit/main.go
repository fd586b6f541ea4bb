// Command parsekit walks a repository, detects each file's language by
// extension, and parses it into semantic chunks — the CLI entry point for
// the parsing engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	"github.com/olexmal/megabrain-parsekit/internal/extract"
	"github.com/olexmal/megabrain-parsekit/internal/grammar"
	"github.com/olexmal/megabrain-parsekit/internal/javaast"
	"github.com/olexmal/megabrain-parsekit/internal/parser"
	"github.com/olexmal/megabrain-parsekit/pkg/config"
	"github.com/olexmal/megabrain-parsekit/pkg/ignore"
	sitter "github.com/smacker/go-tree-sitter"
)

func main() {
	repoPath, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get current directory: %v", err)
	}
	if len(os.Args) > 1 {
		repoPath = os.Args[1]
	}

	slog.Info("starting repository scan", "repository", repoPath)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	hooks := config.NewHooks()
	mgr := grammar.NewManager("", &cfg.Grammars, hooks, githubReleaseResolver)
	registry := buildRegistry(mgr)
	matcher := ignore.NewMatcher(cfg.Ignore.Patterns)

	startTime := time.Now()
	var filesTotal, filesParsed, chunksTotal int
	var allChunks []chunk.Chunk

	walkErr := filepath.Walk(repoPath, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(repoPath, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if matcher.ShouldIgnore(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.ShouldIgnore(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		language, ok := registry.LanguageForExtension(ext)
		if !ok {
			return nil
		}
		filesTotal++

		source, readErr := os.ReadFile(path)
		if readErr != nil {
			slog.Warn("failed to read file", "path", path, "error", readErr)
			return nil
		}

		chunks, parseErr := registry.Parse(context.Background(), language, source, rel)
		if parseErr != nil {
			slog.Warn("failed to parse file", "path", path, "language", language, "error", parseErr)
			return nil
		}
		filesParsed++
		chunksTotal += len(chunks)
		allChunks = append(allChunks, chunks...)
		return nil
	})
	if walkErr != nil {
		log.Fatalf("failed to walk repository: %v", walkErr)
	}

	duration := time.Since(startTime)
	slog.Info("scan completed",
		"files_total", filesTotal,
		"files_parsed", filesParsed,
		"chunks_total", chunksTotal,
		"duration", duration)

	if err := json.NewEncoder(os.Stdout).Encode(chunksToRecords(allChunks)); err != nil {
		log.Fatalf("failed to encode chunks: %v", err)
	}
}

// languageLoader adapts a grammar.Manager into the lazy per-language loader
// signature every internal/extract constructor expects, so each Tree-sitter
// extractor downloads and links its grammar on first use rather than at
// registry construction time.
func languageLoader(mgr *grammar.Manager, language string) func(context.Context) (*sitter.Language, error) {
	return func(ctx context.Context) (*sitter.Language, error) {
		return mgr.LoadLanguage(ctx, language)
	}
}

// buildRegistry wires every Tree-sitter extractor plus the built-in Java AST
// parser into one registry, each Tree-sitter extractor sharing the same
// grammar.Manager as its lazy language loader.
//
// ".h" is claimed by both C and C++; registering C++ after C means C++
// wins the tie, per the registry's last-registered-wins rule. The
// Tree-sitter Java extractor is registered under "java-ts" with no
// extensions of its own, so ".java" resolves to the built-in parser and the
// Tree-sitter path is only reachable by explicit language key.
func buildRegistry(mgr *grammar.Manager) *parser.Registry {
	reg := parser.NewRegistry()

	reg.Register(extract.NewC(languageLoader(mgr, "c")), ".c", ".h")
	reg.Register(extract.NewCPP(languageLoader(mgr, "cpp")), ".cc", ".cpp", ".cxx", ".hpp", ".hh", ".h")
	reg.Register(extract.NewCSharp(languageLoader(mgr, "csharp")), ".cs")
	reg.Register(extract.NewGo(languageLoader(mgr, "go")), ".go")
	reg.Register(extract.NewJavaScript(languageLoader(mgr, "javascript")), ".js", ".jsx", ".mjs")
	reg.Register(extract.NewTypeScript(languageLoader(mgr, "typescript")), ".ts", ".tsx")
	reg.Register(extract.NewKotlin(languageLoader(mgr, "kotlin")), ".kt", ".kts")
	reg.Register(extract.NewPHP(languageLoader(mgr, "php")), ".php")
	reg.Register(extract.NewPython(languageLoader(mgr, "python")), ".py")
	reg.Register(extract.NewRuby(languageLoader(mgr, "ruby")), ".rb")
	reg.Register(extract.NewRust(languageLoader(mgr, "rust")), ".rs")
	reg.Register(extract.NewScala(languageLoader(mgr, "scala")), ".scala")
	reg.Register(extract.NewSwift(languageLoader(mgr, "swift")), ".swift")
	reg.Register(extract.NewJavaTS(languageLoader(mgr, "java")))
	reg.Register(javaast.New(), ".java")

	return reg
}

func githubReleaseResolver(spec grammar.Spec) (url, sha256 string, err error) {
	asset := fmt.Sprintf("%s-%s-%s.so", spec.LibraryName, runtime.GOOS, runtime.GOARCH)
	url = fmt.Sprintf("https://github.com/%s/releases/download/v%s/%s", spec.Repository, spec.Version, asset)
	return url, "", nil
}

type chunkRecord struct {
	Content    string            `json:"content"`
	Language   string            `json:"language"`
	EntityType string            `json:"entity_type"`
	EntityName string            `json:"entity_name"`
	SourceFile string            `json:"source_file"`
	StartLine  int               `json:"start_line"`
	EndLine    int               `json:"end_line"`
	StartByte  int               `json:"start_byte"`
	EndByte    int               `json:"end_byte"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func chunksToRecords(chunks []chunk.Chunk) []chunkRecord {
	out := make([]chunkRecord, 0, len(chunks))
	for _, c := range chunks {
		rec := chunkRecord{
			Content:    c.Content,
			Language:   c.Language,
			EntityType: string(c.EntityType),
			EntityName: c.EntityName,
			SourceFile: c.SourceFile,
			StartLine:  c.StartLine,
			EndLine:    c.EndLine,
			StartByte:  c.StartByte,
			EndByte:    c.EndByte,
		}
		if c.Attributes != nil && c.Attributes.Len() > 0 {
			rec.Attributes = make(map[string]string, c.Attributes.Len())
			for _, k := range c.Attributes.Keys() {
				v, _ := c.Attributes.Get(k)
				rec.Attributes[k] = v
			}
		}
		out = append(out, rec)
	}
	return out
}
