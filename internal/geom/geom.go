package geom

import "math"

// PhysicalPosition is a position in physical (device) pixels.
type PhysicalPosition struct {
	X int
	Y int
}

// PhysicalSize is a size in physical (device) pixels.
type PhysicalSize struct {
	Width  uint32
	Height uint32
}

// Point is a position in logical pixels.
type Point struct {
	X float32
	Y float32
}

// Size is a size in logical pixels.
type Size struct {
	Width  float32
	Height float32
}

// Rect describes a rectangular region in physical screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ToLogical converts a physical position using the given scale factor.
func (p PhysicalPosition) ToLogical(scale float64) Point {
	scale = sanitizeScale(scale)
	return Point{
		X: float32(float64(p.X) / scale),
		Y: float32(float64(p.Y) / scale),
	}
}

// ToLogical converts a physical size using the given scale factor.
func (s PhysicalSize) ToLogical(scale float64) Size {
	scale = sanitizeScale(scale)
	return Size{
		Width:  float32(float64(s.Width) / scale),
		Height: float32(float64(s.Height) / scale),
	}
}

// ToPhysical converts a logical size to physical pixels, rounding to the
// nearest pixel.
func (s Size) ToPhysical(scale float64) PhysicalSize {
	scale = sanitizeScale(scale)
	return PhysicalSize{
		Width:  uint32(math.Round(float64(s.Width) * scale)),
		Height: uint32(math.Round(float64(s.Height) * scale)),
	}
}

// ToPhysical converts a logical point to physical pixels.
func (p Point) ToPhysical(scale float64) PhysicalPosition {
	scale = sanitizeScale(scale)
	return PhysicalPosition{
		X: int(math.Round(float64(p.X) * scale)),
		Y: int(math.Round(float64(p.Y) * scale)),
	}
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the center of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Intersect returns the overlap of r and o, or the zero Rect if they do not
// overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func sanitizeScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}
