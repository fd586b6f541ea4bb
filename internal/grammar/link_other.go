//go:build !linux && !darwin

package grammar

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

// windowsLoader resolves native grammar entry points via LoadLibrary/
// GetProcAddress. purego's dlopen shim targets ELF/Mach-O loaders, so
// Windows falls back to syscall.
type windowsLoader struct {
	handles map[string]*syscall.DLL
}

func newPlatformLoader() nativeLoader {
	return &windowsLoader{handles: map[string]*syscall.DLL{}}
}

func (l *windowsLoader) open(libraryPath, symbol string) (LanguagePointer, error) {
	dll, ok := l.handles[libraryPath]
	if !ok {
		d, err := syscall.LoadDLL(libraryPath)
		if err != nil {
			return nil, errors.Wrapf(err, "LoadDLL %s", libraryPath)
		}
		dll = d
		l.handles[libraryPath] = dll
	}

	proc, err := dll.FindProc(symbol)
	if err != nil {
		return nil, errors.Wrapf(err, "FindProc %s in %s", symbol, libraryPath)
	}
	ptr, _, callErr := proc.Call()
	if ptr == 0 {
		return nil, errors.Wrapf(callErr, "symbol %s in %s returned a null language pointer", symbol, libraryPath)
	}
	return LanguagePointer(unsafe.Pointer(ptr)), nil
}

func (l *windowsLoader) close(libraryPath string) error {
	dll, ok := l.handles[libraryPath]
	if !ok {
		return nil
	}
	delete(l.handles, libraryPath)
	return dll.Release()
}
