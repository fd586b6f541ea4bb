package grammar

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unsafe"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/olexmal/megabrain-parsekit/pkg/config"
	"github.com/pkg/errors"
)

// rollbackMin is the minimum number of recent versions a rollback-preserving
// cleanup keeps per language, regardless of the caller's requested keep, so
// rollback always has somewhere to land. The public CleanupOldVersions takes
// keep at face value; rollbackMin exists as a floor for callers that need
// rollback safety on top of it.
const rollbackMin = 10

// SourceResolver supplies the download URL and expected SHA-256 digest for
// a grammar spec. Production callers point this at a release-asset index;
// tests substitute a local HTTP server. Decoupling this from Manager keeps
// the manager ignorant of any particular hosting scheme.
type SourceResolver func(spec Spec) (url, sha256 string, err error)

// CacheStats aggregates file and byte accounting across every cached
// language. It is a lock-free snapshot read, computed fresh on each call.
type CacheStats struct {
	TotalLanguages   int
	TotalVersions    int
	TotalFiles       int
	LibraryFiles     int
	MetadataFiles    int
	TotalSizeBytes   int64
	LibrarySizeBytes int64
}

// RollbackResult reports the outcome of a rollback attempt.
type RollbackResult struct {
	Success      bool
	Language     string
	FromVersion  string
	ToVersion    string
	ErrorMessage string
}

// Manager implements the grammar lifecycle: resolving an effective version
// from configuration, loading (downloading and dynamically linking on cache
// miss), recording history, and rolling back.
type Manager struct {
	mu      sync.Mutex
	langMu  map[string]*sync.Mutex
	specs   map[string]Spec
	config  *Config
	hooks   *config.Hooks
	cache   *cacheLayout
	hist    *history
	dl      *downloader
	resolve SourceResolver
	loader  nativeLoader
	loaded  map[string]*sitter.Language // keyed by "language@version"
	failed  map[string]bool             // keyed by "language@version"
}

// NewManager builds a Manager, using cfg for per-language version overrides
// and hooks for the cache-root and library-override precedence (a nil hooks
// is treated as an empty one). An empty cacheRoot defers to
// hooks.CacheRoot().
func NewManager(cacheRoot string, cfg *config.GrammarsConfig, hooks *config.Hooks, resolve SourceResolver) *Manager {
	if hooks == nil {
		hooks = config.NewHooks()
	}
	if cacheRoot == "" {
		cacheRoot = hooks.CacheRoot()
	}
	layout := newCacheLayout(cacheRoot)
	return &Manager{
		langMu:  map[string]*sync.Mutex{},
		specs:   Defaults(),
		config:  NewConfig(cfg),
		hooks:   hooks,
		cache:   layout,
		hist:    newHistory(cacheRoot),
		dl:      newDownloader(layout),
		resolve: resolve,
		loader:  currentLoader,
		loaded:  map[string]*sitter.Language{},
		failed:  map[string]bool{},
	}
}

func (m *Manager) lockFor(language string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.langMu[language]
	if !ok {
		l = &sync.Mutex{}
		m.langMu[language] = l
	}
	return l
}

func loadedKey(language, version string) string {
	return language + "@" + version
}

// LoadLanguage resolves the effective version for language, ensures it is
// cached and dynamically linked, and returns the resulting *sitter.Language.
// A download/link failure is caught and returns (nil, err) rather than
// panicking; a Tree-sitter extractor's Parse returns that error as is, and
// the parser registry wraps it with the file and language.
func (m *Manager) LoadLanguage(ctx context.Context, language string) (*sitter.Language, error) {
	spec, ok := m.specs[language]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown language %q", language)
	}

	version := m.config.EffectiveVersion(language, spec.Version)
	pinned := spec.WithVersion(version)

	lock := m.lockFor(language)
	lock.Lock()
	defer lock.Unlock()

	key := loadedKey(language, version)
	if lang, ok := m.loaded[key]; ok {
		return lang, nil
	}

	if overridePath, ok := m.hooks.LibraryOverride(language); ok {
		lang, err := m.linkPath(overridePath, spec.Symbol)
		if err != nil {
			m.recordFailure(language, version, err)
			return nil, err
		}
		m.loaded[key] = lang
		m.hist.record(HistoryEntry{Language: language, Version: version, Timestamp: time.Now().UTC(), Success: true})
		return lang, nil
	}

	if !m.cache.libraryExists(pinned) {
		if err := m.download(ctx, pinned); err != nil {
			m.recordFailure(language, version, err)
			return nil, err
		}
	}

	lang, err := m.link(pinned)
	if err != nil {
		m.recordFailure(language, version, err)
		return nil, err
	}

	m.loaded[key] = lang
	m.hist.record(HistoryEntry{Language: language, Version: version, Timestamp: time.Now().UTC(), Success: true})
	return lang, nil
}

func (m *Manager) download(ctx context.Context, spec Spec) error {
	if m.resolve == nil {
		return errors.Wrapf(ErrDownloadFailed, "no source resolver configured for %s", spec.Language)
	}
	url, digest, err := m.resolve(spec)
	if err != nil {
		return errors.Wrapf(ErrDownloadFailed, "resolve source for %s %s: %v", spec.Language, spec.Version, err)
	}
	return m.dl.fetch(ctx, spec, url, digest, NoProgress)
}

func (m *Manager) link(spec Spec) (*sitter.Language, error) {
	lang, err := m.linkPath(m.cache.libraryPath(spec), spec.Symbol)
	if err != nil {
		return nil, errors.Wrapf(ErrGrammarIncompatible, "%s %s: %v", spec.Language, spec.Version, err)
	}
	return lang, nil
}

func (m *Manager) linkPath(libraryPath, symbol string) (*sitter.Language, error) {
	ptr, err := m.loader.open(libraryPath, symbol)
	if err != nil {
		return nil, errors.Wrapf(ErrGrammarIncompatible, "%s: %v", libraryPath, err)
	}
	lang := sitter.NewLanguage(unsafe.Pointer(ptr))
	if lang == nil {
		return nil, errors.Wrapf(ErrGrammarIncompatible, "%s: native entry point returned an incompatible grammar", libraryPath)
	}
	return lang, nil
}

func (m *Manager) recordFailure(language, version string, err error) {
	m.hist.record(HistoryEntry{
		Language:     language,
		Version:      version,
		Timestamp:    time.Now().UTC(),
		Success:      false,
		ErrorMessage: err.Error(),
	})
	m.mu.Lock()
	m.failed[loadedKey(language, version)] = true
	m.mu.Unlock()
}

// MarkVersionAsFailed lets a caller flag a version as failed without going
// through LoadLanguage again.
func (m *Manager) MarkVersionAsFailed(language, version, reason string) {
	m.recordFailure(language, version, errors.New(reason))
}

// IsVersionFailed reports whether (language, version) has ever been marked
// failed in this process's lifetime (distinct from history, which only
// tracks the most recent attempt per version).
func (m *Manager) IsVersionFailed(language, version string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[loadedKey(language, version)]
}

// GetVersionHistory returns the newest-first, cap-100 history for language.
func (m *Manager) GetVersionHistory(language string) []HistoryEntry {
	return m.hist.forLanguage(language)
}

// GetCachedVersions lists cached versions for language, newest first.
func (m *Manager) GetCachedVersions(language string) []string {
	return m.cache.cachedVersions(language)
}

// GetVersionInfo returns metadata for version, or for the newest cached
// version (by descending lexicographic order of version directories) when
// version is "". Returns (nil, nil), not an error, when no matching version
// is cached: this is a lock-free read, not a failure.
func (m *Manager) GetVersionInfo(language, version string) (*VersionMetadata, error) {
	spec, ok := m.specs[language]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown language %q", language)
	}
	if version == "" {
		versions := m.cache.cachedVersions(language)
		if len(versions) == 0 {
			return nil, nil
		}
		version = versions[0]
	}
	return m.cache.readMetadata(spec.WithVersion(version)), nil
}

// CacheStats aggregates file and byte accounting across every cached
// language: a lock-free snapshot read.
func (m *Manager) CacheStats() CacheStats {
	return m.cache.stats()
}

// CleanupOldVersions removes cached versions for language beyond the keep
// most recent, never removing the currently loaded version. keep must be
// at least 1, else ErrInvalidArgument. Idempotent: a second call with
// nothing left to prune is a no-op.
func (m *Manager) CleanupOldVersions(language string, keep int) (removed []string, err error) {
	if keep < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "keep must be >= 1, got %d", keep)
	}

	versions := m.cache.cachedVersions(language)
	if len(versions) <= keep {
		return nil, nil
	}

	currentVersion := m.config.EffectiveVersion(language, m.specs[language].Version)
	for _, v := range versions[keep:] {
		if v == currentVersion {
			continue
		}
		if rmErr := m.cache.removeVersion(language, v); rmErr != nil {
			return removed, errors.Wrapf(ErrIoError, "remove %s %s: %v", language, v, rmErr)
		}
		removed = append(removed, v)
	}
	return removed, nil
}

// CleanupAllOldVersions runs CleanupOldVersions across every known language.
func (m *Manager) CleanupAllOldVersions(keep int) (removed map[string][]string, err error) {
	if keep < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "keep must be >= 1, got %d", keep)
	}

	removed = map[string][]string{}
	for language := range m.specs {
		r, cleanErr := m.CleanupOldVersions(language, keep)
		if cleanErr != nil {
			err = cleanErr
			continue
		}
		if len(r) > 0 {
			removed[language] = r
		}
	}
	return removed, err
}

// RollbackToVersion forces language to use version on its next LoadLanguage.
// It fails with "not found in cache" without attempting a download if
// version's library file is missing from the cache.
func (m *Manager) RollbackToVersion(ctx context.Context, language, version string) RollbackResult {
	spec, ok := m.specs[language]
	if !ok {
		return RollbackResult{Language: language, ToVersion: version, ErrorMessage: fmt.Sprintf("unknown language %q", language)}
	}
	from := m.config.EffectiveVersion(language, spec.Version)

	if !m.cache.libraryExists(spec.WithVersion(version)) {
		return RollbackResult{Language: language, FromVersion: from, ToVersion: version, ErrorMessage: "not found in cache"}
	}

	lock := m.lockFor(language)
	lock.Lock()
	delete(m.loaded, loadedKey(language, version))
	lock.Unlock()

	m.mu.Lock()
	m.config.perLanguage[language] = version
	m.mu.Unlock()

	if _, err := m.LoadLanguage(ctx, language); err != nil {
		return RollbackResult{Language: language, FromVersion: from, ToVersion: version, ErrorMessage: err.Error()}
	}
	return RollbackResult{Success: true, Language: language, FromVersion: from, ToVersion: version}
}

// RollbackToPrevious walks language's version history newest-first, and for
// each entry recorded success=true (skipping the current effective
// version and any version whose latest recorded attempt failed), attempts
// RollbackToVersion until one succeeds. It fails with
// "No version history available" when history is empty, or "No suitable
// previous version found" when every successful candidate fails to load
// (e.g. its cache entry has since been removed).
func (m *Manager) RollbackToPrevious(ctx context.Context, language string) RollbackResult {
	spec, ok := m.specs[language]
	if !ok {
		return RollbackResult{Language: language, ErrorMessage: fmt.Sprintf("unknown language %q", language)}
	}
	current := m.config.EffectiveVersion(language, spec.Version)

	entries := m.hist.forLanguage(language)
	if len(entries) == 0 {
		return RollbackResult{Language: language, FromVersion: current, ErrorMessage: "No version history available"}
	}

	for _, e := range entries {
		if !e.Success || e.Version == current || m.hist.isMarkedFailed(language, e.Version) {
			continue
		}
		if result := m.RollbackToVersion(ctx, language, e.Version); result.Success {
			return result
		}
	}
	return RollbackResult{Language: language, FromVersion: current, ErrorMessage: "No suitable previous version found"}
}
