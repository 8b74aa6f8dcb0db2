package text

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	glpkg "github.com/tinyrange/winframe/internal/gl"
	"github.com/tinyrange/winframe/internal/graphics"
)

func TestLoad_DefaultOnly(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{DefaultFont}, lib.Names())

	_, ok := lib.Font("Segoe UI")
	require.False(t, ok, "unknown fonts fall back")
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui.ttf"), goregular.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.otf"), []byte("not a font"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignored"), 0o644))

	lib, err := Load(dir)
	require.NoError(t, err)

	_, ok := lib.Font("ui")
	require.True(t, ok)
	_, ok = lib.Font("broken")
	require.False(t, ok)
	require.Contains(t, lib.Names(), "Go")
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRenderer_CachesAndEvicts(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)

	rec := glpkg.NewRecorder()
	c := graphics.NewCanvas(rec, nil)
	r := NewRenderer(lib, DefaultFont)
	r.max = 2
	c.SetText(r)

	c.BeginFrame(640, 480, 1)
	end, err := c.Text("hello", 10, 20, 16, graphics.ColorBlack, graphics.AlignLeft)
	require.NoError(t, err)
	require.Greater(t, end, float32(10))

	_, err = c.Text("hello", 10, 20, 16, graphics.ColorYellow, graphics.AlignLeft)
	require.NoError(t, err)
	require.Equal(t, 1, r.Cached(), "colour does not change the cached texture")
	require.Equal(t, 1, rec.LiveTextures())

	_, _ = c.Text("world", 10, 40, 16, graphics.ColorBlack, graphics.AlignLeft)
	_, _ = c.Text("again", 10, 60, 16, graphics.ColorBlack, graphics.AlignLeft)
	c.EndFrame()
	require.Equal(t, 2, r.Cached())
	require.Equal(t, 2, rec.LiveTextures())

	c.Release()
	require.Equal(t, 0, rec.LiveTextures())
}

func TestRenderer_Alignment(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)

	c := graphics.NewCanvas(glpkg.NewRecorder(), nil)
	r := NewRenderer(lib, DefaultFont)
	c.SetText(r)

	width, err := r.Measure("center", 20)
	require.NoError(t, err)

	c.BeginFrame(640, 480, 1)
	left, _ := c.Text("center", 100, 50, 20, graphics.ColorBlack, graphics.AlignLeft)
	mid, _ := c.Text("center", 100, 50, 20, graphics.ColorBlack, graphics.AlignCenter)
	right, _ := c.Text("center", 100, 50, 20, graphics.ColorBlack, graphics.AlignRight)
	c.EndFrame()

	require.InDelta(t, 100+width, left, 0.5)
	require.InDelta(t, 100+width/2, mid, 0.5)
	require.InDelta(t, 100, right, 0.5)
}
