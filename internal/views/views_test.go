package views

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	glpkg "github.com/tinyrange/winframe/internal/gl"
	"github.com/tinyrange/winframe/internal/graphics"
)

type stubView struct {
	name string
	log  *[]string
}

func (p stubView) Name() string { return p.name }

func (p stubView) Render(*graphics.Canvas) { *p.log = append(*p.log, p.name) }

func TestSet_RendersInInsertionOrder(t *testing.T) {
	var log []string
	s := NewSet()
	for _, n := range []string{"c", "a", "b"} {
		s.Add(stubView{n, &log})
	}
	s.Add(stubView{"a", &log})
	require.Equal(t, 3, s.Len())

	s.Render(nil)
	require.Equal(t, []string{"c", "a", "b"}, log)

	require.True(t, s.Remove("a"))
	require.False(t, s.Remove("a"))
	_, ok := s.Get("a")
	require.False(t, ok)

	log = nil
	s.Render(nil)
	require.Equal(t, []string{"c", "b"}, log)
}

func TestButton_BorderFollowsCursor(t *testing.T) {
	b := NewButton("b", "B", graphics.Rect{X: 0, Y: 0, Width: 100, Height: 40})

	p := b.BorderPaint(50, 0)
	require.Equal(t, b.Glow, p.ColorAt(50, 0))
	require.Equal(t, b.Border, p.ColorAt(50+200, 0))

	mid := p.ColorAt(50+75, 0)
	require.NotEqual(t, b.Glow, mid)
	require.NotEqual(t, b.Border, mid)

	b.GlowRadius = 0
	require.Equal(t, b.Border, b.BorderPaint(50, 0).ColorAt(50, 0))
}

func TestButton_Render(t *testing.T) {
	rec := glpkg.NewRecorder()
	c := graphics.NewCanvas(rec, nil)
	b := NewButton("b", "B", graphics.Rect{X: 10, Y: 10, Width: 100, Height: 40})

	c.BeginFrame(200, 200, 1)
	b.Render(c)
	c.EndFrame()

	// fill and border; no text renderer installed
	require.Equal(t, 2, rec.Primitives())
}

type textured struct {
	name     string
	tex      graphics.Texture
	released int
}

func (v *textured) Name() string { return v.name }

func (v *textured) Render(c *graphics.Canvas) {
	if v.tex == nil {
		v.tex, _ = c.Image(image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	}
}

func (v *textured) Release(c *graphics.Canvas) {
	v.released++
	c.DeleteTexture(v.tex)
	v.tex = nil
}

func TestSet_ReleasesRemovedViewsOnNextRender(t *testing.T) {
	rec := glpkg.NewRecorder()
	c := graphics.NewCanvas(rec, nil)
	s := NewSet()
	a := &textured{name: "a"}
	b := &textured{name: "b"}
	s.Add(a)
	s.Add(b)

	s.Render(c)
	require.Equal(t, 2, rec.LiveTextures())

	require.True(t, s.Remove("a"))
	require.Equal(t, 2, rec.LiveTextures())
	s.Render(c)
	require.Equal(t, 1, a.released)
	require.Equal(t, 1, rec.LiveTextures())

	// replacing b releases the old view
	b2 := &textured{name: "b"}
	s.Add(b2)
	s.Render(c)
	require.Equal(t, 1, b.released)
	require.Equal(t, 1, rec.LiveTextures())

	s.Release(c)
	require.Equal(t, 1, b2.released)
	require.Zero(t, rec.LiveTextures())
	require.Equal(t, 1, a.released)
}
