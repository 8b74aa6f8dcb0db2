package graphics

import (
	"math"

	glpkg "github.com/tinyrange/winframe/internal/gl"
)

// Paint colours a point given in window coordinates.
type Paint interface {
	ColorAt(x, y float32) Color
}

// Solid paints every point with one colour.
type Solid struct {
	Color Color
}

func (s Solid) ColorAt(float32, float32) Color { return s.Color }

// LinearGradient blends From at the start point to To at the end point.
// Points beyond either end take the nearest end colour.
type LinearGradient struct {
	StartX, StartY float32
	EndX, EndY     float32
	From, To       Color
}

func (g LinearGradient) ColorAt(x, y float32) Color {
	dx, dy := g.EndX-g.StartX, g.EndY-g.StartY
	l := dx*dx + dy*dy
	if l == 0 {
		return g.From
	}
	t := ((x-g.StartX)*dx + (y-g.StartY)*dy) / l
	return g.From.Lerp(g.To, t)
}

// RadialGradient is From inside Inner, To beyond Outer and blended between.
type RadialGradient struct {
	CenterX, CenterY float32
	Inner, Outer     float32
	From, To         Color
}

func (g RadialGradient) ColorAt(x, y float32) Color {
	d := float32(math.Hypot(float64(x-g.CenterX), float64(y-g.CenterY)))
	span := g.Outer - g.Inner
	if span <= 0 {
		if d < g.Outer {
			return g.From
		}
		return g.To
	}
	return g.From.Lerp(g.To, (d-g.Inner)/span)
}

// Radii are corner radii clockwise from the top left corner.
type Radii [4]float32

type point struct{ x, y float32 }

const cornerSegments = 8

// outline returns the boundary of r with rounded corners, clockwise from the
// top left. Radii are clamped to half the shorter side; a zero radius gives a
// single corner point.
func outline(r Rect, radii Radii) []point {
	limit := r.Width / 2
	if r.Height/2 < limit {
		limit = r.Height / 2
	}
	if limit < 0 {
		limit = 0
	}
	corners := [4]struct {
		cx, cy float32
		start  float64
	}{
		{r.X, r.Y, math.Pi},
		{r.X + r.Width, r.Y, 3 * math.Pi / 2},
		{r.X + r.Width, r.Y + r.Height, 0},
		{r.X, r.Y + r.Height, math.Pi / 2},
	}
	signs := [4][2]float32{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}

	pts := make([]point, 0, 4*(cornerSegments+1))
	for i, corner := range corners {
		rad := radii[i]
		if rad > limit {
			rad = limit
		}
		if rad <= 0 {
			pts = append(pts, point{corner.cx, corner.cy})
			continue
		}
		cx := corner.cx + signs[i][0]*rad
		cy := corner.cy + signs[i][1]*rad
		for s := 0; s <= cornerSegments; s++ {
			a := corner.start + float64(s)*(math.Pi/2)/cornerSegments
			pts = append(pts, point{
				cx + rad*float32(math.Cos(a)),
				cy + rad*float32(math.Sin(a)),
			})
		}
	}
	return pts
}

// FillRoundedRect fills r with p. Each outline vertex takes the paint colour
// at its position and GL blends between them.
func (c *Canvas) FillRoundedRect(r Rect, radii Radii, p Paint) {
	if !c.inFrame || p == nil {
		return
	}
	cx, cy := r.X+r.Width/2, r.Y+r.Height/2
	pts := outline(r, radii)

	c.gl.Disable(glpkg.Texture2D)
	c.gl.Begin(glpkg.TriangleFan)
	c.vertex(p, cx, cy)
	for _, pt := range pts {
		c.vertex(p, pt.x, pt.y)
	}
	c.vertex(p, pts[0].x, pts[0].y)
	c.gl.End()
}

// StrokeRoundedRect outlines r with p.
func (c *Canvas) StrokeRoundedRect(r Rect, radii Radii, width float32, p Paint) {
	if !c.inFrame || p == nil || width <= 0 {
		return
	}
	c.gl.Disable(glpkg.Texture2D)
	c.gl.LineWidth(width * c.pixelRatio)
	c.gl.Begin(glpkg.LineLoop)
	for _, pt := range outline(r, radii) {
		c.vertex(p, pt.x, pt.y)
	}
	c.gl.End()
}

func (c *Canvas) vertex(p Paint, x, y float32) {
	rgba := p.ColorAt(x, y).Float32()
	c.gl.Color4fv(&rgba[0])
	c.gl.Vertex2f(x, y)
}
