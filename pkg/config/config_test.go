package config

import (
	"os"
	"testing"
)

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestDefaultConfigHasSaneDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Name == "" {
		t.Fatalf("expected a non-empty server name")
	}
	if len(cfg.Ignore.Patterns) == 0 {
		t.Fatalf("expected default ignore patterns")
	}
	if cfg.Grammars.Versions == nil {
		t.Fatalf("expected a non-nil (possibly empty) grammar version map")
	}
}

func TestApplyEnvOverridesSetsGrammarDefaultVersion(t *testing.T) {
	t.Setenv("MEGABRAIN_GRAMMAR_DEFAULT_VERSION", "1.2.3")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	if cfg.Grammars.DefaultVersion != "1.2.3" {
		t.Fatalf("expected env override to apply, got %q", cfg.Grammars.DefaultVersion)
	}
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/parsekit.yaml"
	if err := writeTestFile(path, "server:\n  name: custom-name\n"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Setenv("MEGABRAIN_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Name != "custom-name" {
		t.Fatalf("expected overridden server name, got %q", cfg.Server.Name)
	}
	if len(cfg.Ignore.Patterns) == 0 {
		t.Fatalf("expected default ignore patterns to survive a partial override file")
	}
}
