package text

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFont is always available, whatever the font directory holds.
const DefaultFont = "Go Regular"

// Library holds parsed fonts by name. It is immutable once loaded and can be
// shared by every window; faces are created per renderer.
type Library struct {
	fonts map[string]*opentype.Font
	names []string
}

// Load parses every .ttf and .otf file in dir. An empty dir yields a library
// with only DefaultFont. Each font is registered under its file name without
// extension and under its family name.
func Load(dir string) (*Library, error) {
	lib := &Library{fonts: make(map[string]*opentype.Font)}

	def, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	lib.add(DefaultFont, def)

	if dir == "" {
		return lib, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read font directory: %w", err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			slog.Warn("skipping unreadable font", "path", path, "err", err)
			continue
		}
		lib.add(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), f)
		if family, err := f.Name(nil, sfnt.NameIDFamily); err == nil && family != "" {
			lib.add(family, f)
		}
	}
	return lib, nil
}

func (l *Library) add(name string, f *opentype.Font) {
	if _, ok := l.fonts[name]; !ok {
		l.names = append(l.names, name)
		sort.Strings(l.names)
	}
	l.fonts[name] = f
}

// Names lists the registered font names in sorted order.
func (l *Library) Names() []string {
	return append([]string(nil), l.names...)
}

// Font returns the named font, falling back to DefaultFont.
func (l *Library) Font(name string) (*opentype.Font, bool) {
	if f, ok := l.fonts[name]; ok {
		return f, true
	}
	return l.fonts[DefaultFont], false
}
