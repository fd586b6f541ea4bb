//go:build linux || darwin

package grammar

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

// unixLoader resolves native grammar entry points via dlopen/dlsym. purego
// lets this module dlopen arbitrary shared libraries without cgo.
type unixLoader struct {
	mu      sync.Mutex
	handles map[string]uintptr
}

func newPlatformLoader() nativeLoader {
	return &unixLoader{handles: map[string]uintptr{}}
}

func (l *unixLoader) open(libraryPath, symbol string) (LanguagePointer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	handle, ok := l.handles[libraryPath]
	if !ok {
		h, err := purego.Dlopen(libraryPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			return nil, errors.Wrapf(err, "dlopen %s", libraryPath)
		}
		handle = h
		l.handles[libraryPath] = handle
	}

	var entry func() uintptr
	purego.RegisterLibFunc(&entry, handle, symbol)
	ptr := entry()
	if ptr == 0 {
		return nil, errors.Errorf("symbol %s in %s returned a null language pointer", symbol, libraryPath)
	}
	return LanguagePointer(unsafe.Pointer(ptr)), nil
}

func (l *unixLoader) close(libraryPath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	handle, ok := l.handles[libraryPath]
	if !ok {
		return nil
	}
	delete(l.handles, libraryPath)
	return purego.Dlclose(handle)
}
