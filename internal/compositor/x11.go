package compositor

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xgraphics"

	"github.com/1broseidon/winshell/internal/platform"
)

// X11 is a software Compositor that paints xgraphics images into X windows.
type X11 struct {
	xu *xgbutil.XUtil
}

var _ Compositor = (*X11)(nil)

// NewX11 returns a compositor drawing through xu.
func NewX11(xu *xgbutil.XUtil) *X11 {
	return &X11{xu: xu}
}

type x11Surface struct {
	xu     *xgbutil.XUtil
	window xproto.Window
	img    *xgraphics.Image
	bound  bool
}

func (c *X11) CreateSurface(native platform.NativeWindow, width, height uint32) Surface {
	return &x11Surface{
		xu:     c.xu,
		window: xproto.Window(native.ID()),
		img:    xgraphics.New(c.xu, image.Rect(0, 0, int(width), int(height))),
	}
}

func (c *X11) CreateRenderer() Renderer {
	return NewCanvas()
}

func (c *X11) Present(s Surface, r Renderer) error {
	surface, ok := s.(*x11Surface)
	if !ok {
		return fmt.Errorf("x11 compositor: foreign surface %T", s)
	}
	canvas, ok := asCanvas(r)
	if !ok {
		return fmt.Errorf("x11 compositor: foreign renderer %T", r)
	}
	if surface.img == nil {
		return fmt.Errorf("x11 compositor: surface for window %d released", surface.window)
	}

	canvas.rasterize(surface.img)

	if !surface.bound {
		if err := surface.img.XSurfaceSet(surface.window); err != nil {
			return fmt.Errorf("x11 compositor: bind surface: %w", err)
		}
		surface.bound = true
	}
	surface.img.XDraw()
	surface.img.XPaint(surface.window)
	return nil
}

func (s *x11Surface) Size() (uint32, uint32) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}

func (s *x11Surface) Resize(width, height uint32) {
	if w, h := s.Size(); w == width && h == height {
		return
	}
	s.Release()
	s.img = xgraphics.New(s.xu, image.Rect(0, 0, int(width), int(height)))
}

func (s *x11Surface) Release() {
	if s.img == nil {
		return
	}
	s.img.Destroy()
	s.img = nil
	s.bound = false
}
