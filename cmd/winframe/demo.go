package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/tinyrange/winframe/internal/app"
	"github.com/tinyrange/winframe/internal/config"
	"github.com/tinyrange/winframe/internal/graphics"
	"github.com/tinyrange/winframe/internal/views"
	"github.com/tinyrange/winframe/internal/window"
)

const (
	gridColumns = 3
	gridRows    = 2
	buttonSize  = 160
	buttonGap   = 40
	quadSize    = 48

	cursorView = "cursor"
)

type demo struct {
	app    *app.App
	cfg    *config.Config
	opened int
}

// open creates a window with a grid of buttons and a checker quad that
// follows the cursor. Key bindings: N opens a window, C toggles the checker
// quad, X exits, Escape closes the window.
func (d *demo) open(wc config.Window) (*app.Window, error) {
	d.opened++
	w, err := d.app.NewWindow(app.Config{
		Title:        wc.Title,
		Width:        wc.Width,
		Height:       wc.Height,
		SwapInterval: wc.SwapInterval,
		ClearColor:   d.cfg.ClearColor,
		Font:         d.cfg.Font,
		StatsInTitle: wc.StatsInTitle,
	})
	if err != nil {
		return nil, err
	}

	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridColumns; col++ {
			id := fmt.Sprintf("button-%d-%d", row, col)
			b := views.NewButton(id, fmt.Sprintf("%d", row*gridColumns+col+1), graphics.Rect{
				X:      float32(buttonGap + col*(buttonSize+buttonGap)),
				Y:      float32(buttonGap + row*(buttonSize+buttonGap)),
				Width:  buttonSize,
				Height: buttonSize,
			})
			b.Paint = graphics.LinearGradient{
				StartX: b.Bounds.X,
				StartY: b.Bounds.Y,
				EndX:   b.Bounds.X,
				EndY:   b.Bounds.Y + b.Bounds.Height,
				From:   graphics.ColorWhite,
				To:     graphics.ColorLightGray,
			}
			w.Views().Add(b)
		}
	}
	w.Views().Add(&checkerQuad{})

	w.OnKey(d.handleKey)
	w.Show()
	return w, nil
}

func (d *demo) handleKey(w *app.Window, key window.Key, action window.Action) {
	if action != window.Press {
		return
	}
	switch key {
	case window.KeyN:
		wc := d.cfg.Windows[0]
		wc.Title = fmt.Sprintf("%s %d", wc.Title, d.opened+1)
		if _, err := d.open(wc); err != nil {
			slog.Error("open window", "error", err)
		}
	case window.KeyC:
		if _, ok := w.Views().Get(cursorView); ok {
			w.Views().Remove(cursorView)
		} else {
			w.Views().Add(&checkerQuad{})
		}
	case window.KeyX:
		d.app.Exit()
	case window.KeyEscape:
		w.Close()
	}
}

// checkerQuad draws a checkerboard texture under the cursor. The texture is
// created on first render, on the window's render goroutine.
type checkerQuad struct {
	tex graphics.Texture
	err error
}

func (q *checkerQuad) Name() string { return cursorView }

func (q *checkerQuad) Render(c *graphics.Canvas) {
	if q.tex == nil && q.err == nil {
		q.tex, q.err = c.Image(checkerImage())
		if q.err != nil {
			slog.Error("checker texture", "error", q.err)
		}
	}
	if q.tex == nil {
		return
	}
	x, y := c.Cursor()
	c.DrawTexture(graphics.Rect{
		X:      float32(x) - quadSize/2,
		Y:      float32(y) - quadSize/2,
		Width:  quadSize,
		Height: quadSize,
	}, q.tex, graphics.ColorWhite)
}

// Release deletes the texture; a later Render creates it again.
func (q *checkerQuad) Release(c *graphics.Canvas) {
	if q.tex != nil {
		c.DeleteTexture(q.tex)
		q.tex = nil
	}
}

func checkerImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	red := color.NRGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff}
	green := color.NRGBA{R: 0x66, G: 0xff, B: 0x66, A: 0xff}

	for y := range 4 {
		for x := range 4 {
			if (x+y)%2 == 0 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, green)
			}
		}
	}
	return img
}
