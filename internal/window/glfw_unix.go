//go:build linux || darwin || freebsd

package window

import (
	"errors"
	"runtime"

	"github.com/ebitengine/purego"
)

func libraryNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libglfw.3.dylib", "libglfw.dylib", "/opt/homebrew/lib/libglfw.3.dylib", "/usr/local/lib/libglfw.3.dylib"}
	default:
		return []string{"libglfw.so.3", "libglfw.so"}
	}
}

func openLibrary() (uintptr, error) {
	var errs []error
	for _, name := range libraryNames() {
		lib, err := purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err == nil {
			return lib, nil
		}
		errs = append(errs, err)
	}
	return 0, errors.Join(errs...)
}
