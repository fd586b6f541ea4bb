package grammar

import (
	"os"
	"testing"
)

func TestSpecWithVersionIdentity(t *testing.T) {
	spec := Defaults()["python"]
	same := spec.WithVersion(spec.Version)
	if same != spec {
		t.Fatalf("WithVersion with the existing version must return an equal Spec")
	}

	changed := spec.WithVersion("9.9.9")
	if changed.Version != "9.9.9" {
		t.Fatalf("expected version 9.9.9, got %s", changed.Version)
	}
	if changed.Language != spec.Language || changed.Symbol != spec.Symbol {
		t.Fatalf("WithVersion must not disturb other fields")
	}
}

func TestEffectiveVersionPrecedence(t *testing.T) {
	cfg := NewConfig(nil)
	if got := cfg.EffectiveVersion("python", "1.0.0"); got != "1.0.0" {
		t.Fatalf("expected spec default with no configuration, got %s", got)
	}

	withDefault := &Config{perLanguage: map[string]string{}, defaultVersion: "2.0.0"}
	if got := withDefault.EffectiveVersion("python", "1.0.0"); got != "2.0.0" {
		t.Fatalf("expected global default to win over spec default, got %s", got)
	}

	withOverride := &Config{perLanguage: map[string]string{"python": " 3.0.0 "}, defaultVersion: "2.0.0"}
	if got := withOverride.EffectiveVersion("python", "1.0.0"); got != "3.0.0" {
		t.Fatalf("expected trimmed per-language override to win, got %s", got)
	}

	blankOverride := &Config{perLanguage: map[string]string{"python": "   "}, defaultVersion: "2.0.0"}
	if got := blankOverride.EffectiveVersion("python", "1.0.0"); got != "2.0.0" {
		t.Fatalf("expected blank override to fall through to global default, got %s", got)
	}
}

func TestHistoryCapAndOrder(t *testing.T) {
	dir := t.TempDir()
	h := newHistory(dir)

	for i := 0; i < maxHistoryPerLanguage+10; i++ {
		h.record(HistoryEntry{Language: "go", Version: itoaTest(i), Success: true})
	}

	entries := h.forLanguage("go")
	if len(entries) != maxHistoryPerLanguage {
		t.Fatalf("expected history capped at %d entries, got %d", maxHistoryPerLanguage, len(entries))
	}
	if entries[0].Version != itoaTest(maxHistoryPerLanguage+9) {
		t.Fatalf("expected newest entry first, got version %s", entries[0].Version)
	}
}

func TestHistoryIsMarkedFailed(t *testing.T) {
	dir := t.TempDir()
	h := newHistory(dir)

	h.record(HistoryEntry{Language: "rust", Version: "1.0.0", Success: true})
	if h.isMarkedFailed("rust", "1.0.0") {
		t.Fatalf("freshly successful version must not read as failed")
	}

	h.record(HistoryEntry{Language: "rust", Version: "1.0.0", Success: false, ErrorMessage: "boom"})
	if !h.isMarkedFailed("rust", "1.0.0") {
		t.Fatalf("most recent attempt failed, isMarkedFailed must report true")
	}
}

func TestHistoryLastSuccessfulBefore(t *testing.T) {
	dir := t.TempDir()
	h := newHistory(dir)

	h.record(HistoryEntry{Language: "go", Version: "1.0.0", Success: true})
	h.record(HistoryEntry{Language: "go", Version: "1.1.0", Success: false})
	h.record(HistoryEntry{Language: "go", Version: "1.2.0", Success: true})

	got := h.lastSuccessfulBefore("go", "1.2.0")
	if got != "1.0.0" {
		t.Fatalf("expected 1.0.0 as the last successful version before 1.2.0, got %s", got)
	}
}

func TestCleanupOldVersionsPreservesRollbackMin(t *testing.T) {
	dir := t.TempDir()
	layout := newCacheLayout(dir)

	spec := Defaults()["go"]
	total := rollbackMin + 5
	for i := 0; i < total; i++ {
		s := spec.WithVersion(itoaTest(i))
		if err := os.MkdirAll(layout.platformDir(s.Language, s.Version), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := layout.writeMetadata(s, 0); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	removed, err := cleanupOldVersionsFor(layout, "go", "unused-current-marker")
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	remaining := layout.cachedVersions("go")
	if len(remaining) != rollbackMin {
		t.Fatalf("expected %d versions retained, got %d (%v)", rollbackMin, len(remaining), remaining)
	}
	if len(removed)+len(remaining) != total {
		t.Fatalf("expected removed+remaining to account for all %d versions, got removed=%d remaining=%d", total, len(removed), len(remaining))
	}
}

// cleanupOldVersionsFor exercises the same pruning logic as
// Manager.CleanupOldVersions without requiring a fully wired Manager
// (which needs a SourceResolver and nativeLoader not relevant here).
func cleanupOldVersionsFor(layout *cacheLayout, language string, currentVersion string) ([]string, error) {
	versions := layout.cachedVersions(language)
	if len(versions) <= rollbackMin {
		return nil, nil
	}
	var removed []string
	for _, v := range versions[rollbackMin:] {
		if v == currentVersion {
			continue
		}
		if err := layout.removeVersion(language, v); err != nil {
			return removed, err
		}
		removed = append(removed, v)
	}
	return removed, nil
}

func itoaTest(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
