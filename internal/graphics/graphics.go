// Package graphics is the per-window drawing context. A Canvas wraps the GL
// entry points of one window and must only be used from the goroutine that
// owns that window's context.
package graphics

import "image"

type Texture interface {
	Size() (width, height int)
}

// Align controls horizontal placement of text relative to its anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextDrawer renders strings onto a canvas. Implemented by package text.
type TextDrawer interface {
	DrawText(c *Canvas, s string, x, y float32, size float64, col Color, align Align) float32
	Release(c *Canvas)
}

// Rect is an axis aligned rectangle in window coordinates.
type Rect struct {
	X, Y, Width, Height float32
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Surface is what a Canvas needs from its window.
type Surface interface {
	Cursor() (x, y float64)
}

// Image uploads img and returns a texture usable with DrawTexture.
func (c *Canvas) Image(img image.Image) (Texture, error) {
	return c.newTexture(img)
}
