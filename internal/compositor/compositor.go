// Package compositor owns the rendering resources attached to each window.
// A Compositor is shared by every window; each window gets its own Surface
// and Renderer.
package compositor

import (
	"image"
	"image/color"

	"github.com/1broseidon/winshell/internal/platform"
)

// Surface is the drawable backing store of one window.
type Surface interface {
	Size() (width, height uint32)
	Resize(width, height uint32)
	Release()
}

// Renderer records the drawing commands for one frame.
type Renderer interface {
	Clear(c color.Color)
	Fill(r image.Rectangle, c color.Color)
	Release()
}

// Compositor creates surfaces and renderers and presents frames.
type Compositor interface {
	CreateSurface(native platform.NativeWindow, width, height uint32) Surface
	CreateRenderer() Renderer
	// Present rasterizes the renderer's commands into the surface and shows
	// the result.
	Present(s Surface, r Renderer) error
}
