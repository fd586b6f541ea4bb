package grammar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// maxHistoryPerLanguage caps the retained version history per language,
// newest entry first.
const maxHistoryPerLanguage = 100

// HistoryEntry records one load/download attempt for a language version.
type HistoryEntry struct {
	Language     string    `json:"language"`
	Version      string    `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// history is a per-language, newest-first, cap-100 log of load attempts,
// persisted as a single JSON file under the cache root so rollback
// decisions survive process restarts.
type history struct {
	mu      sync.Mutex
	path    string
	entries map[string][]HistoryEntry
}

func newHistory(cacheRoot string) *history {
	h := &history{
		path:    filepath.Join(cacheRoot, "history.json"),
		entries: map[string][]HistoryEntry{},
	}
	h.load()
	return h
}

func (h *history) load() {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return
	}
	var entries map[string][]HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}
	h.entries = entries
}

func (h *history) persist() error {
	data, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(h.path, data, 0o644)
}

// record prepends an entry for language, truncating to maxHistoryPerLanguage.
func (h *history) record(entry HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := append([]HistoryEntry{entry}, h.entries[entry.Language]...)
	if len(list) > maxHistoryPerLanguage {
		list = list[:maxHistoryPerLanguage]
	}
	h.entries[entry.Language] = list
	_ = h.persist()
}

// forLanguage returns a copy of the newest-first history for language.
func (h *history) forLanguage(language string) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	src := h.entries[language]
	out := make([]HistoryEntry, len(src))
	copy(out, src)
	return out
}

// lastSuccessfulBefore returns the most recent successful version recorded
// for language other than excludeVersion, or "" if none exists.
func (h *history) lastSuccessfulBefore(language, excludeVersion string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.entries[language] {
		if e.Success && e.Version != excludeVersion {
			return e.Version
		}
	}
	return ""
}

// isMarkedFailed reports whether the most recent entry for (language,
// version) recorded a failure. Rollback must never select a version whose
// latest recorded attempt failed.
func (h *history) isMarkedFailed(language, version string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.entries[language] {
		if e.Version == version {
			return !e.Success
		}
	}
	return false
}
