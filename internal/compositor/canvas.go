package compositor

import (
	"image"
	"image/color"
	"image/draw"
)

type opKind uint8

const (
	opClear opKind = iota
	opFill
)

type op struct {
	kind  opKind
	rect  image.Rectangle
	color color.Color
}

// Canvas is a Renderer that keeps a display list. The list is consumed by
// Present and rebuilt for every frame.
type Canvas struct {
	ops      []op
	released bool
}

var _ Renderer = (*Canvas)(nil)

// NewCanvas returns an empty display list.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Clear discards earlier commands and fills the whole surface.
func (c *Canvas) Clear(col color.Color) {
	c.ops = append(c.ops[:0], op{kind: opClear, color: col})
}

func (c *Canvas) Fill(r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	c.ops = append(c.ops, op{kind: opFill, rect: r, color: col})
}

// Len returns the number of queued commands.
func (c *Canvas) Len() int { return len(c.ops) }

// Released reports whether Release has been called.
func (c *Canvas) Released() bool { return c.released }

func (c *Canvas) Release() {
	c.ops = nil
	c.released = true
}

// rasterize draws the display list into dst and empties it.
func (c *Canvas) rasterize(dst draw.Image) {
	bounds := dst.Bounds()
	for _, o := range c.ops {
		src := image.NewUniform(o.color)
		switch o.kind {
		case opClear:
			draw.Draw(dst, bounds, src, image.Point{}, draw.Src)
		case opFill:
			draw.Draw(dst, o.rect.Add(bounds.Min).Intersect(bounds), src, image.Point{}, draw.Over)
		}
	}
	c.ops = c.ops[:0]
}

func asCanvas(r Renderer) (*Canvas, bool) {
	c, ok := r.(*Canvas)
	return c, ok
}
