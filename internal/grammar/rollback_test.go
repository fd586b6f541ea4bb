package grammar

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/olexmal/megabrain-parsekit/pkg/config"
)

// fakeLoader simulates a successful dlopen/dlsym for any library path that
// exists on disk, so Manager.LoadLanguage can be exercised without a real
// Tree-sitter shared library.
type fakeLoader struct{}

var fakeSymbol int

func (fakeLoader) open(libraryPath, symbol string) (LanguagePointer, error) {
	if _, err := os.Stat(libraryPath); err != nil {
		return nil, err
	}
	return LanguagePointer(unsafe.Pointer(&fakeSymbol)), nil
}

func (fakeLoader) close(libraryPath string) error { return nil }

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m := NewManager(dir, nil, nil, func(spec Spec) (string, string, error) {
		t.Fatalf("unexpected download attempt for %s %s", spec.Language, spec.Version)
		return "", "", nil
	})
	m.loader = fakeLoader{}
	return m, dir
}

// seedCachedVersion writes a non-empty fake library file (and metadata) for
// language@version directly into the cache, bypassing the downloader.
func seedCachedVersion(t *testing.T, m *Manager, language, version string) {
	t.Helper()
	spec := m.specs[language].WithVersion(version)
	dir := m.cache.platformDir(language, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("seed: %v", err)
	}
	libPath := filepath.Join(dir, m.specs[language].LibraryName+config.LibraryExtension())
	if err := os.WriteFile(libPath, []byte("fake-grammar-bytes"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := m.cache.writeMetadata(spec, 18); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// TestRollbackToPreviousSkipsUnloadableNewerVersion reproduces the scenario
// where the newest successful history entry's cache file has since been
// removed: RollbackToPrevious must fall through to the next successful
// candidate rather than failing outright.
func TestRollbackToPreviousSkipsUnloadableNewerVersion(t *testing.T) {
	m, _ := newTestManager(t)

	seedCachedVersion(t, m, "go", "1.0.0")
	// 3.0.0 is recorded as a past success but its cache entry never existed
	// (e.g. evicted by cleanup), so it must be skipped in favor of 1.0.0.
	m.hist.record(HistoryEntry{Language: "go", Version: "1.0.0", Success: true})
	m.hist.record(HistoryEntry{Language: "go", Version: "2.0.0", Success: false})
	m.hist.record(HistoryEntry{Language: "go", Version: "3.0.0", Success: true})

	result := m.RollbackToPrevious(context.Background(), "go")
	if !result.Success {
		t.Fatalf("expected rollback to succeed by falling through to 1.0.0, got error %q", result.ErrorMessage)
	}
	if result.ToVersion != "1.0.0" {
		t.Fatalf("expected fallthrough to land on 1.0.0, got %s", result.ToVersion)
	}
}

func TestRollbackToPreviousNoHistory(t *testing.T) {
	m, _ := newTestManager(t)

	result := m.RollbackToPrevious(context.Background(), "python")
	if result.Success {
		t.Fatalf("expected failure with no history recorded")
	}
	if result.ErrorMessage != "No version history available" {
		t.Fatalf("unexpected error message: %q", result.ErrorMessage)
	}
}

func TestRollbackToPreviousNoSuitableVersion(t *testing.T) {
	m, _ := newTestManager(t)

	// Every candidate either fails or has no cache entry.
	m.hist.record(HistoryEntry{Language: "rust", Version: "1.0.0", Success: false})
	m.hist.record(HistoryEntry{Language: "rust", Version: "2.0.0", Success: true})

	result := m.RollbackToPrevious(context.Background(), "rust")
	if result.Success {
		t.Fatalf("expected failure, no candidate has a cache entry")
	}
	if result.ErrorMessage != "No suitable previous version found" {
		t.Fatalf("unexpected error message: %q", result.ErrorMessage)
	}
}

func TestRollbackToVersionNotCached(t *testing.T) {
	m, _ := newTestManager(t)

	result := m.RollbackToVersion(context.Background(), "go", "9.9.9")
	if result.Success {
		t.Fatalf("expected failure for an uncached version")
	}
	if result.ErrorMessage != "not found in cache" {
		t.Fatalf("unexpected error message: %q", result.ErrorMessage)
	}
}

func TestCleanupOldVersionsRejectsNonPositiveKeep(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.CleanupOldVersions("go", 0); err == nil {
		t.Fatalf("expected InvalidArgument for keep=0")
	}
	if _, err := m.CleanupOldVersions("go", -1); err == nil {
		t.Fatalf("expected InvalidArgument for keep=-1")
	}
	if _, err := m.CleanupAllOldVersions(0); err == nil {
		t.Fatalf("expected InvalidArgument for keep=0 on CleanupAllOldVersions")
	}
}

func TestCleanupOldVersionsHonorsCallerSuppliedKeep(t *testing.T) {
	m, _ := newTestManager(t)

	for _, v := range []string{"1.0.0", "2.0.0", "3.0.0", "4.0.0"} {
		seedCachedVersion(t, m, "go", v)
	}

	removed, err := m.CleanupOldVersions("go", 2)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 versions removed, got %d (%v)", len(removed), removed)
	}
	remaining := m.GetCachedVersions("go")
	if len(remaining) != 2 {
		t.Fatalf("expected 2 versions remaining, got %d (%v)", len(remaining), remaining)
	}
}

func TestCacheStatsAggregatesAcrossLanguages(t *testing.T) {
	m, _ := newTestManager(t)

	seedCachedVersion(t, m, "go", "1.0.0")
	seedCachedVersion(t, m, "go", "1.1.0")
	seedCachedVersion(t, m, "python", "2.0.0")

	stats := m.CacheStats()
	if stats.TotalLanguages != 2 {
		t.Fatalf("expected 2 languages, got %d", stats.TotalLanguages)
	}
	if stats.TotalVersions != 3 {
		t.Fatalf("expected 3 versions, got %d", stats.TotalVersions)
	}
	if stats.LibraryFiles != 3 || stats.MetadataFiles != 3 {
		t.Fatalf("expected 3 library files and 3 metadata files, got library=%d metadata=%d", stats.LibraryFiles, stats.MetadataFiles)
	}
	if stats.TotalFiles != stats.LibraryFiles+stats.MetadataFiles {
		t.Fatalf("expected total files to equal library+metadata, got total=%d", stats.TotalFiles)
	}
	if stats.LibrarySizeBytes == 0 || stats.TotalSizeBytes < stats.LibrarySizeBytes {
		t.Fatalf("expected non-zero library bytes within total bytes, got library=%d total=%d", stats.LibrarySizeBytes, stats.TotalSizeBytes)
	}
}

func TestGetVersionInfoExplicitAndNewest(t *testing.T) {
	m, _ := newTestManager(t)

	seedCachedVersion(t, m, "go", "1.0.0")
	seedCachedVersion(t, m, "go", "2.0.0")

	info, err := m.GetVersionInfo("go", "1.0.0")
	if err != nil {
		t.Fatalf("GetVersionInfo: %v", err)
	}
	if info == nil || info.Version != "1.0.0" {
		t.Fatalf("expected metadata for 1.0.0, got %+v", info)
	}

	newest, err := m.GetVersionInfo("go", "")
	if err != nil {
		t.Fatalf("GetVersionInfo newest: %v", err)
	}
	if newest == nil || newest.Version != "2.0.0" {
		t.Fatalf("expected newest cached version 2.0.0, got %+v", newest)
	}
}

func TestGetVersionInfoUnknownLanguage(t *testing.T) {
	m, _ := newTestManager(t)

	if _, err := m.GetVersionInfo("not-a-language", ""); err == nil {
		t.Fatalf("expected InvalidArgument for an unknown language")
	}
}
