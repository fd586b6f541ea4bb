package grammar

import (
	"strings"

	"github.com/olexmal/megabrain-parsekit/pkg/config"
)

// Config is a typed, read-only view over pkg/config.GrammarsConfig: the
// methods the grammar manager consumes to resolve an effective grammar
// version.
type Config struct {
	defaultVersion string
	perLanguage    map[string]string
}

// NewConfig builds a Config from loaded YAML configuration. A nil cfg
// yields an empty map and an absent default.
func NewConfig(cfg *config.GrammarsConfig) *Config {
	c := &Config{perLanguage: map[string]string{}}
	if cfg == nil {
		return c
	}
	c.defaultVersion = strings.TrimSpace(cfg.DefaultVersion)
	for lang, version := range cfg.Versions {
		c.perLanguage[lang] = version
	}
	return c
}

// DefaultVersion returns the configured global default version, if any.
func (c *Config) DefaultVersion() (string, bool) {
	if c == nil || c.defaultVersion == "" {
		return "", false
	}
	return c.defaultVersion, true
}

// LanguageVersions returns a copy of the per-language override map.
func (c *Config) LanguageVersions() map[string]string {
	out := make(map[string]string, len(c.perLanguage))
	if c == nil {
		return out
	}
	for k, v := range c.perLanguage {
		out[k] = v
	}
	return out
}

// EffectiveVersion resolves the version to use for language, taking the
// first non-empty (after trimming whitespace) of: the per-language
// override, the global default, then defaultSpecVersion.
func (c *Config) EffectiveVersion(language, defaultSpecVersion string) string {
	if c != nil {
		if v, ok := c.perLanguage[language]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
		if v, ok := c.DefaultVersion(); ok {
			return v
		}
	}
	return defaultSpecVersion
}
