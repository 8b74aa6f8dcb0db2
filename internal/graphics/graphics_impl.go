package graphics

import (
	"errors"
	"image"
	"image/draw"
	"unsafe"

	glpkg "github.com/tinyrange/winframe/internal/gl"
)

var errNoFrame = errors.New("canvas used outside of a frame")

type glTexture struct {
	id uint32
	w  int
	h  int
}

func (t *glTexture) Size() (int, int) {
	return t.w, t.h
}

type Canvas struct {
	gl      glpkg.OpenGL
	surface Surface
	text    TextDrawer

	inFrame    bool
	width      float32
	height     float32
	pixelRatio float32
}

// NewCanvas prepares the blending state of the current context and returns a
// drawing context for it.
func NewCanvas(gl glpkg.OpenGL, surface Surface) *Canvas {
	gl.Enable(glpkg.Blend)
	gl.BlendFunc(glpkg.SrcAlpha, glpkg.OneMinusSrcAlpha)
	gl.PixelStorei(glpkg.UnpackAlignment, 1)
	return &Canvas{gl: gl, surface: surface, pixelRatio: 1}
}

func (c *Canvas) GL() glpkg.OpenGL { return c.gl }

// SetText installs the renderer used by Text.
func (c *Canvas) SetText(t TextDrawer) {
	c.text = t
}

// BeginFrame sets up a projection for a framebuffer of width x height pixels.
// Drawing coordinates are window coordinates, so the framebuffer size is
// divided by pixelRatio.
func (c *Canvas) BeginFrame(width, height int, pixelRatio float32) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	c.inFrame = true
	c.pixelRatio = pixelRatio
	c.width = float32(width) / pixelRatio
	c.height = float32(height) / pixelRatio

	c.gl.MatrixMode(glpkg.Projection)
	c.gl.LoadIdentity()
	c.gl.Ortho(0, float64(c.width), float64(c.height), 0, -1, 1)
	c.gl.MatrixMode(glpkg.ModelView)
	c.gl.LoadIdentity()
}

func (c *Canvas) EndFrame() {
	c.inFrame = false
}

// Size returns the frame size in window coordinates.
func (c *Canvas) Size() (float32, float32) { return c.width, c.height }

func (c *Canvas) PixelRatio() float32 { return c.pixelRatio }

// Cursor returns the last known cursor position.
func (c *Canvas) Cursor() (float64, float64) {
	if c.surface == nil {
		return 0, 0
	}
	return c.surface.Cursor()
}

// DrawTexture draws tex stretched over r and tinted by col.
func (c *Canvas) DrawTexture(r Rect, tex Texture, col Color) {
	t, ok := tex.(*glTexture)
	if !ok || !c.inFrame {
		return
	}

	rgba := col.Float32()
	c.gl.Enable(glpkg.Texture2D)
	c.gl.BindTexture(glpkg.Texture2D, t.id)
	c.gl.Begin(glpkg.TriangleStrip)
	c.gl.Color4fv(&rgba[0])
	c.gl.TexCoord2f(0, 0)
	c.gl.Vertex2f(r.X, r.Y)
	c.gl.TexCoord2f(1, 0)
	c.gl.Vertex2f(r.X+r.Width, r.Y)
	c.gl.TexCoord2f(0, 1)
	c.gl.Vertex2f(r.X, r.Y+r.Height)
	c.gl.TexCoord2f(1, 1)
	c.gl.Vertex2f(r.X+r.Width, r.Y+r.Height)
	c.gl.End()
	c.gl.Disable(glpkg.Texture2D)
}

// Text draws s with its baseline at y and returns the x coordinate after the
// last glyph. Without a text renderer nothing is drawn.
func (c *Canvas) Text(s string, x, y float32, size float64, col Color, align Align) (float32, error) {
	if !c.inFrame {
		return x, errNoFrame
	}
	if c.text == nil {
		return x, nil
	}
	return c.text.DrawText(c, s, x, y, size, col, align), nil
}

// DeleteTexture releases a texture created by Image.
func (c *Canvas) DeleteTexture(tex Texture) {
	if t, ok := tex.(*glTexture); ok && t.id != 0 {
		c.gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// Release frees resources owned by the canvas. The GL context must still be
// current.
func (c *Canvas) Release() {
	if c.text != nil {
		c.text.Release(c)
		c.text = nil
	}
}

func (c *Canvas) newTexture(img image.Image) (Texture, error) {
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*nrgba.Rect.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	var texID uint32
	c.gl.GenTextures(1, &texID)
	c.gl.BindTexture(glpkg.Texture2D, texID)
	c.gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMinFilter, glpkg.Linear)
	c.gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMagFilter, glpkg.Linear)

	if len(nrgba.Pix) > 0 {
		c.gl.TexImage2D(
			glpkg.Texture2D,
			0,
			int32(glpkg.RGBA),
			int32(nrgba.Rect.Dx()),
			int32(nrgba.Rect.Dy()),
			0,
			glpkg.RGBA,
			glpkg.UnsignedByte,
			unsafe.Pointer(&nrgba.Pix[0]),
		)
	}

	return &glTexture{id: texID, w: nrgba.Rect.Dx(), h: nrgba.Rect.Dy()}, nil
}
