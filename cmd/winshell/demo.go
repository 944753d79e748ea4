package main

import (
	"image"
	"image/color"
	"sync"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/shell"
	"github.com/1broseidon/winshell/internal/window"
)

var (
	crosshairColor = color.RGBA{R: 0xcd, G: 0xd6, B: 0xf4, A: 0xff}
	highlightColor = color.RGBA{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff}
)

// demo is the built-in program run by "winshell run". It paints a crosshair
// under the pointer, toggles a highlight on left click and closes a window
// on Escape.
type demo struct {
	mu      sync.Mutex
	pending []string
	titles  map[window.ID]string

	highlighted map[window.ID]bool
	hovering    map[window.ID]bool
}

func newDemo() *demo {
	return &demo{
		titles:      make(map[window.ID]string),
		highlighted: make(map[window.ID]bool),
		hovering:    make(map[window.ID]bool),
	}
}

// expect queues the title of the next window to open. Opens are serialized,
// so titles are handed out in queue order.
func (d *demo) expect(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, title)
}

// unexpect drops the most recently queued title after a failed open.
func (d *demo) unexpect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.pending); n > 0 {
		d.pending = d.pending[:n-1]
	}
}

func (d *demo) Title(id window.ID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if title, ok := d.titles[id]; ok {
		return title
	}
	title := "winshell"
	if len(d.pending) > 0 {
		title, d.pending = d.pending[0], d.pending[1:]
	}
	d.titles[id] = title
	return title
}

func (d *demo) ScaleFactor(window.ID) float64 { return 1 }

func (d *demo) Update(id window.ID, ev event.Event) shell.Action {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev := ev.(type) {
	case event.CursorMoved:
		d.hovering[id] = true
	case event.Unfocused:
		d.hovering[id] = false
	case event.ButtonPressed:
		if ev.Button == event.Left {
			d.highlighted[id] = !d.highlighted[id]
		}
	case event.KeyPressed:
		if ev.Text == "\x1b" {
			return shell.ActionClose
		}
	case event.CloseRequested:
		return shell.ActionClose
	case event.Closed:
		delete(d.titles, id)
		delete(d.highlighted, id)
		delete(d.hovering, id)
	}
	return shell.ActionNone
}

func (d *demo) Draw(id window.ID, r compositor.Renderer, state *window.State) {
	d.mu.Lock()
	highlighted := d.highlighted[id]
	d.mu.Unlock()

	size := state.PhysicalSize()
	if highlighted {
		r.Fill(image.Rect(0, 0, int(size.Width), int(size.Height)).Inset(16), highlightColor)
	}

	pos, ok := state.Cursor()
	if !ok {
		return
	}
	scale := state.ScaleFactor()
	p := pos.ToPhysical(scale)
	r.Fill(image.Rect(0, p.Y, int(size.Width), p.Y+1), crosshairColor)
	r.Fill(image.Rect(p.X, 0, p.X+1, int(size.Height)), crosshairColor)
}

func (d *demo) MouseInteraction(id window.ID) event.Interaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hovering[id] {
		return event.InteractionCrosshair
	}
	return event.InteractionIdle
}
