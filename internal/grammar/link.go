package grammar

import "unsafe"

// LanguagePointer is the raw pointer returned by a grammar's native entry
// symbol (e.g. tree_sitter_python), suitable for sitter.NewLanguage.
type LanguagePointer unsafe.Pointer

// nativeLoader opens a shared library and resolves a language's entry
// symbol to a callable function pointer. Implemented per-platform in
// link_unix.go (purego/dlopen) and link_other.go (syscall.LoadDLL).
type nativeLoader interface {
	// open loads libraryPath and resolves symbol, returning a pointer
	// obtained by invoking the resolved entry function with no arguments.
	open(libraryPath, symbol string) (LanguagePointer, error)
	// close releases resources held for a previously opened library, if
	// the platform requires it. Implementations may no-op.
	close(libraryPath string) error
}

var currentLoader nativeLoader = newPlatformLoader()
