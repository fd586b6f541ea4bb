package grammar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olexmal/megabrain-parsekit/pkg/config"
)

// VersionMetadata is the contents of a cached grammar's sibling
// metadata.json file.
type VersionMetadata struct {
	Language      string    `json:"language"`
	Version       string    `json:"version"`
	Repository    string    `json:"repository"`
	DownloadedAt  time.Time `json:"downloaded_at"`
	Platform      string    `json:"platform"`
	FileSizeBytes int64     `json:"file_size_bytes"`
}

// cacheLayout resolves the on-disk paths for a grammar cache entry:
// {cache}/{language}/{version}/{platform}/{library-base}.{ext} with a
// sibling metadata.json.
type cacheLayout struct {
	root string
}

func newCacheLayout(root string) *cacheLayout {
	return &cacheLayout{root: root}
}

func (c *cacheLayout) languageDir(language string) string {
	return filepath.Join(c.root, language)
}

func (c *cacheLayout) versionDir(language, version string) string {
	return filepath.Join(c.languageDir(language), version)
}

func (c *cacheLayout) platformDir(language, version string) string {
	return filepath.Join(c.versionDir(language, version), config.PlatformName())
}

func (c *cacheLayout) libraryPath(spec Spec) string {
	return filepath.Join(c.platformDir(spec.Language, spec.Version), spec.LibraryName+config.LibraryExtension())
}

func (c *cacheLayout) metadataPath(spec Spec) string {
	return filepath.Join(c.platformDir(spec.Language, spec.Version), "metadata.json")
}

func (c *cacheLayout) writeMetadata(spec Spec, fileSize int64) error {
	meta := VersionMetadata{
		Language:      spec.Language,
		Version:       spec.Version,
		Repository:    spec.Repository,
		DownloadedAt:  time.Now().UTC(),
		Platform:      config.PlatformName(),
		FileSizeBytes: fileSize,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.metadataPath(spec), data, 0o644)
}

// readMetadata returns nil (not an error) for a missing or malformed file:
// a malformed metadata file is treated as absent.
func (c *cacheLayout) readMetadata(spec Spec) *VersionMetadata {
	data, err := os.ReadFile(c.metadataPath(spec))
	if err != nil {
		return nil
	}
	var meta VersionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}

// cachedVersions lists the version directories under {cache}/{language}/,
// in lexicographic-descending order.
func (c *cacheLayout) cachedVersions(language string) []string {
	entries, err := os.ReadDir(c.languageDir(language))
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(versions)))
	return versions
}

func (c *cacheLayout) libraryExists(spec Spec) bool {
	info, err := os.Stat(c.libraryPath(spec))
	return err == nil && !info.IsDir() && info.Size() > 0
}

func (c *cacheLayout) removeVersion(language, version string) error {
	return os.RemoveAll(c.versionDir(language, version))
}

// languages lists the language directories directly under the cache root.
func (c *cacheLayout) languages() []string {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil
	}
	var languages []string
	for _, e := range entries {
		if e.IsDir() {
			languages = append(languages, e.Name())
		}
	}
	return languages
}

// stats walks the whole cache root and aggregates file and byte counts
// across every cached language and version, distinguishing the grammar
// library file from its sibling metadata.json in each platform directory.
func (c *cacheLayout) stats() CacheStats {
	var s CacheStats
	libExt := config.LibraryExtension()

	for _, language := range c.languages() {
		versions := c.cachedVersions(language)
		if len(versions) == 0 {
			continue
		}
		s.TotalLanguages++
		s.TotalVersions += len(versions)

		for _, version := range versions {
			entries, err := os.ReadDir(c.platformDir(language, version))
			if err != nil {
				continue
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				s.TotalFiles++
				s.TotalSizeBytes += info.Size()
				switch {
				case e.Name() == "metadata.json":
					s.MetadataFiles++
				case strings.HasSuffix(e.Name(), libExt):
					s.LibraryFiles++
					s.LibrarySizeBytes += info.Size()
				}
			}
		}
	}
	return s
}
