package views

import (
	"github.com/tinyrange/winframe/internal/graphics"
)

// Button is a labelled rectangle whose border lights up as the cursor
// approaches.
type Button struct {
	ID       string
	Text     string
	Bounds   graphics.Rect
	FontSize float64

	Fill   graphics.Color
	Border graphics.Color
	Glow   graphics.Color
	Label  graphics.Color

	// GlowRadius is the cursor distance at which the border reaches Border.
	GlowRadius float64
	// Paint overrides Fill when set.
	Paint graphics.Paint
	Radii graphics.Radii
}

func NewButton(id, text string, bounds graphics.Rect) *Button {
	return &Button{
		ID:         id,
		Text:       text,
		Bounds:     bounds,
		FontSize:   20,
		Fill:       graphics.ColorWhite,
		Border:     graphics.ColorWhite,
		Glow:       graphics.ColorGray,
		Label:      graphics.ColorBlack,
		GlowRadius: 150,
		Radii:      graphics.Radii{0, 5, 0, 0},
	}
}

func (b *Button) Name() string { return b.ID }

// BorderPaint returns the border paint for a cursor at (x, y). Parts of the
// border near the cursor glow.
func (b *Button) BorderPaint(x, y float64) graphics.Paint {
	if b.GlowRadius <= 0 {
		return graphics.Solid{Color: b.Border}
	}
	return graphics.RadialGradient{
		CenterX: float32(x),
		CenterY: float32(y),
		Outer:   float32(b.GlowRadius),
		From:    b.Glow,
		To:      b.Border,
	}
}

func (b *Button) Render(c *graphics.Canvas) {
	fill := b.Paint
	if fill == nil {
		fill = graphics.Solid{Color: b.Fill}
	}
	c.FillRoundedRect(b.Bounds, b.Radii, fill)
	c.StrokeRoundedRect(b.Bounds, b.Radii, 6, b.BorderPaint(c.Cursor()))

	x := b.Bounds.X + b.Bounds.Width/2
	y := b.Bounds.Y + b.Bounds.Height/2 + float32(b.FontSize/4)
	_, _ = c.Text(b.Text, x, y, b.FontSize, b.Label, graphics.AlignCenter)
}
