// Package text rasterises strings with OpenType fonts and draws them as
// textures on a graphics.Canvas.
package text

import (
	"container/list"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/tinyrange/winframe/internal/graphics"
)

const defaultCacheSize = 256

type faceKey struct {
	font string
	size float64
}

type entryKey struct {
	face faceKey
	text string
}

type entry struct {
	key     entryKey
	tex     graphics.Texture
	ascent  float32
	advance float32
}

// Renderer implements graphics.TextDrawer for one window. Rendered strings
// are kept as white textures and tinted when drawn; the least recently used
// ones are evicted once the cache is full.
type Renderer struct {
	lib     *Library
	font    string
	max     int
	faces   map[faceKey]font.Face
	entries map[entryKey]*list.Element
	lru     *list.List
}

func NewRenderer(lib *Library, fontName string) *Renderer {
	return &Renderer{
		lib:     lib,
		font:    fontName,
		max:     defaultCacheSize,
		faces:   make(map[faceKey]font.Face),
		entries: make(map[entryKey]*list.Element),
		lru:     list.New(),
	}
}

// SetFont changes the face used by subsequent DrawText calls.
func (r *Renderer) SetFont(name string) {
	r.font = name
}

// Cached returns the number of strings currently held as textures.
func (r *Renderer) Cached() int {
	return r.lru.Len()
}

func (r *Renderer) DrawText(c *graphics.Canvas, s string, x, y float32, size float64, col graphics.Color, align graphics.Align) float32 {
	if s == "" || size <= 0 {
		return x
	}
	ratio := float64(c.PixelRatio())
	e, err := r.lookup(c, s, size, ratio)
	if err != nil || e == nil {
		return x
	}

	switch align {
	case graphics.AlignCenter:
		x -= e.advance / 2
	case graphics.AlignRight:
		x -= e.advance
	}
	w, h := e.tex.Size()
	c.DrawTexture(graphics.Rect{
		X:      x,
		Y:      y - e.ascent,
		Width:  float32(float64(w) / ratio),
		Height: float32(float64(h) / ratio),
	}, e.tex, col)
	return x + e.advance
}

// Measure returns the advance width of s in window coordinates.
func (r *Renderer) Measure(s string, size float64) (float32, error) {
	face, err := r.face(faceKey{r.font, size})
	if err != nil {
		return 0, err
	}
	return fixedToFloat(font.MeasureString(face, s)), nil
}

func (r *Renderer) Release(c *graphics.Canvas) {
	for el := r.lru.Front(); el != nil; el = el.Next() {
		c.DeleteTexture(el.Value.(*entry).tex)
	}
	r.lru.Init()
	clear(r.entries)
	for _, f := range r.faces {
		_ = f.Close()
	}
	clear(r.faces)
}

func (r *Renderer) lookup(c *graphics.Canvas, s string, size, ratio float64) (*entry, error) {
	key := entryKey{faceKey{r.font, size * ratio}, s}
	if el, ok := r.entries[key]; ok {
		r.lru.MoveToFront(el)
		return el.Value.(*entry), nil
	}

	face, err := r.face(key.face)
	if err != nil {
		return nil, err
	}
	img, ascent, advance := rasterise(face, s)
	if img == nil {
		return nil, nil
	}
	tex, err := c.Image(img)
	if err != nil {
		return nil, err
	}

	for r.lru.Len() >= r.max {
		oldest := r.lru.Back()
		old := oldest.Value.(*entry)
		c.DeleteTexture(old.tex)
		delete(r.entries, old.key)
		r.lru.Remove(oldest)
	}

	e := &entry{
		key:     key,
		tex:     tex,
		ascent:  float32(float64(ascent) / ratio),
		advance: float32(float64(advance) / ratio),
	}
	r.entries[key] = r.lru.PushFront(e)
	return e, nil
}

func (r *Renderer) face(key faceKey) (font.Face, error) {
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	otf, _ := r.lib.Font(key.font)
	f, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s %.1f: %w", key.font, key.size, err)
	}
	r.faces[key] = f
	return f, nil
}

// rasterise draws s in white on a transparent image sized to its bounds. It
// returns the image, the distance from its top edge to the baseline, and the
// advance width, all in pixels.
func rasterise(face font.Face, s string) (*image.NRGBA, float32, float32) {
	bounds, advance := font.BoundString(face, s)
	metrics := face.Metrics()

	ascent := metrics.Ascent.Ceil()
	if top := -bounds.Min.Y.Floor(); top > ascent {
		ascent = top
	}
	descent := metrics.Descent.Ceil()
	if bottom := bounds.Max.Y.Ceil(); bottom > descent {
		descent = bottom
	}
	width := int(math.Ceil(fixedToFloat64(advance)))
	if right := bounds.Max.X.Ceil(); right > width {
		width = right
	}
	if width <= 0 || ascent+descent <= 0 {
		return nil, 0, 0
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, ascent+descent))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)

	// white glyphs with coverage in alpha, so the texture can be tinted
	img := image.NewNRGBA(mask.Rect)
	for i, a := range mask.Pix {
		img.Pix[i*4+0] = 0xff
		img.Pix[i*4+1] = 0xff
		img.Pix[i*4+2] = 0xff
		img.Pix[i*4+3] = a
	}
	return img, float32(ascent), fixedToFloat(advance)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(fixedToFloat64(v))
}

func fixedToFloat64(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
