// Package grammar implements the Tree-sitter grammar manager: immutable
// grammar descriptors, a download-cache-verify-load pipeline keyed on
// (language, effective version), version history, and rollback.
package grammar

// Spec is an immutable descriptor of one language grammar. All fields are
// non-null; Spec values are process constants, built once from Defaults()
// and never mutated.
type Spec struct {
	Language    string
	Symbol      string // native entry-point name, e.g. "tree_sitter_python"
	LibraryName string // base name of the shared library file
	PropertyKey string
	EnvKey      string
	Repository  string // upstream repo slug, e.g. "tree-sitter/tree-sitter-python"
	Version     string // semver string
}

// WithVersion returns a copy of s with Version replaced. It returns s
// unchanged (by value equality) if version already equals s.Version.
func (s Spec) WithVersion(version string) Spec {
	if version == s.Version {
		return s
	}
	out := s
	out.Version = version
	return out
}

// Defaults returns the process-constant table of grammar specs for the
// Tree-sitter-backed languages. Java appears here once, for the optional
// Tree-sitter extractor that runs alongside the built-in Java AST parser
// (which has no grammar spec and never touches this package).
func Defaults() map[string]Spec {
	mk := func(language, symbol, repo, version string) Spec {
		return Spec{
			Language:    language,
			Symbol:      symbol,
			LibraryName: "tree-sitter-" + language,
			PropertyKey: "tree.sitter." + language + ".library",
			EnvKey:      "TREE_SITTER_" + upper(language) + "_LIB",
			Repository:  repo,
			Version:     version,
		}
	}

	specs := []Spec{
		mk("c", "tree_sitter_c", "tree-sitter/tree-sitter-c", "0.21.4"),
		mk("cpp", "tree_sitter_cpp", "tree-sitter/tree-sitter-cpp", "0.22.3"),
		mk("csharp", "tree_sitter_c_sharp", "tree-sitter/tree-sitter-c-sharp", "0.21.3"),
		mk("go", "tree_sitter_go", "tree-sitter/tree-sitter-go", "0.21.2"),
		mk("javascript", "tree_sitter_javascript", "tree-sitter/tree-sitter-javascript", "0.21.4"),
		mk("typescript", "tree_sitter_typescript", "tree-sitter/tree-sitter-typescript", "0.21.2"),
		mk("kotlin", "tree_sitter_kotlin", "tree-sitter-grammars/tree-sitter-kotlin", "0.3.8"),
		mk("php", "tree_sitter_php", "tree-sitter/tree-sitter-php", "0.22.8"),
		mk("python", "tree_sitter_python", "tree-sitter/tree-sitter-python", "0.21.0"),
		mk("ruby", "tree_sitter_ruby", "tree-sitter/tree-sitter-ruby", "0.21.2"),
		mk("rust", "tree_sitter_rust", "tree-sitter/tree-sitter-rust", "0.21.2"),
		mk("scala", "tree_sitter_scala", "tree-sitter/tree-sitter-scala", "0.21.0"),
		mk("swift", "tree_sitter_swift", "alex-pinkus/tree-sitter-swift", "0.4.2"),
		mk("java", "tree_sitter_java", "tree-sitter/tree-sitter-java", "0.21.0"),
	}

	out := make(map[string]Spec, len(specs))
	for _, s := range specs {
		out[s.Language] = s
	}
	return out
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
