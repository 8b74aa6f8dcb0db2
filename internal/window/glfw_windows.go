//go:build windows

package window

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func openLibrary() (uintptr, error) {
	lib, err := windows.LoadLibrary("glfw3.dll")
	if err != nil {
		return 0, fmt.Errorf("LoadLibrary glfw3.dll: %w", err)
	}
	return uintptr(lib), nil
}
