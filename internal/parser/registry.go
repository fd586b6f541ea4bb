package parser

import (
	"context"
	"sync"

	"github.com/olexmal/megabrain-parsekit/internal/chunk"
	"github.com/pkg/errors"
)

// Registry maps a language name to the Parser that handles it, and a file
// extension to the language that owns it.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
	exts    map[string]string // file extension (with leading dot) -> language
}

// NewRegistry returns an empty registry. Callers populate it with Register.
func NewRegistry() *Registry {
	return &Registry{
		parsers: map[string]Parser{},
		exts:    map[string]string{},
	}
}

// Register installs p under p.Language() and maps each of extensions to
// that language, replacing any existing parser or extension mapping. When
// two parsers claim the same extension (e.g. ".h" for both C and C++), the
// later Register call wins: resolving such ties is the caller's explicit
// choice, made by the order it registers parsers in.
func (r *Registry) Register(p Parser, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Language()] = p
	for _, ext := range extensions {
		r.exts[ext] = p.Language()
	}
}

// Get returns the parser registered for language, if any.
func (r *Registry) Get(language string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[language]
	return p, ok
}

// LanguageForExtension maps a file extension (with leading dot, e.g. ".go")
// to a language name, or ("", false) if unrecognized.
func (r *Registry) LanguageForExtension(ext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.exts[ext]
	return lang, ok
}

// Parse dispatches source to the parser registered for language. An
// unregistered language yields an empty chunk list rather than an error,
// so a directory walk over many languages doesn't abort because one file's
// language has no extractor.
func (r *Registry) Parse(ctx context.Context, language string, source []byte, sourceFile string) ([]chunk.Chunk, error) {
	p, ok := r.Get(language)
	if !ok {
		return nil, nil
	}
	chunks, err := p.Parse(ctx, source, sourceFile)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s as %s", sourceFile, language)
	}
	return chunks, nil
}
