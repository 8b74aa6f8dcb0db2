package graphics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrColorRange is returned when a color component is outside 0..255.
var ErrColorRange = errors.New("color component out of range")

// Color is a non-premultiplied RGBA color with 8 bits per component.
type Color struct {
	R, G, B, A uint8
}

var (
	ColorWhite       = Color{255, 255, 255, 255}
	ColorBlack       = Color{0, 0, 0, 255}
	ColorLightGray   = Color{230, 230, 230, 255}
	ColorGray        = Color{150, 150, 150, 255}
	ColorYellow      = Color{255, 255, 0, 255}
	ColorTransparent = Color{}
)

// NewColor validates each component before building the color.
func NewColor(r, g, b, a int) (Color, error) {
	for _, c := range []struct {
		name  string
		value int
	}{{"red", r}, {"green", g}, {"blue", b}, {"alpha", a}} {
		if c.value < 0 || c.value > 255 {
			return Color{}, fmt.Errorf("%w: %s component %d", ErrColorRange, c.name, c.value)
		}
	}
	return Color{uint8(r), uint8(g), uint8(b), uint8(a)}, nil
}

// ParseHex parses #RGB, #RRGGBB or #RRGGBBAA. The leading # is optional.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Hex formats the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Float32 returns the components scaled to 0..1, in the layout glColor4fv
// expects.
func (c Color) Float32() [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// Lerp mixes c towards o by t in 0..1.
func (c Color) Lerp(o Color, t float32) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
	}
	return Color{mix(c.R, o.R), mix(c.G, o.G), mix(c.B, o.B), mix(c.A, o.A)}
}

// UnmarshalText lets colors appear as hex strings in configuration files.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}
