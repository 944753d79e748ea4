package compositor

import (
	"fmt"
	"image"
	"sync"

	"github.com/1broseidon/winshell/internal/platform"
)

// Memory is a Compositor that renders into in-memory RGBA images.
type Memory struct {
	mu       sync.Mutex
	presents int
	live     int
}

var _ Compositor = (*Memory)(nil)

// NewMemory returns a compositor without any display.
func NewMemory() *Memory {
	return &Memory{}
}

// MemorySurface is the Surface created by Memory.
type MemorySurface struct {
	owner    *Memory
	native   platform.WindowID
	img      *image.RGBA
	released bool
}

func (m *Memory) CreateSurface(native platform.NativeWindow, width, height uint32) Surface {
	m.mu.Lock()
	m.live++
	m.mu.Unlock()
	var id platform.WindowID
	if native != nil {
		id = native.ID()
	}
	return &MemorySurface{
		owner:  m,
		native: id,
		img:    image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
	}
}

func (m *Memory) CreateRenderer() Renderer {
	return NewCanvas()
}

func (m *Memory) Present(s Surface, r Renderer) error {
	surface, ok := s.(*MemorySurface)
	if !ok {
		return fmt.Errorf("memory compositor: foreign surface %T", s)
	}
	canvas, ok := asCanvas(r)
	if !ok {
		return fmt.Errorf("memory compositor: foreign renderer %T", r)
	}
	if surface.released {
		return fmt.Errorf("memory compositor: surface for window %d released", surface.native)
	}
	canvas.rasterize(surface.img)

	m.mu.Lock()
	m.presents++
	m.mu.Unlock()
	return nil
}

// Presents returns the number of frames presented.
func (m *Memory) Presents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presents
}

// LiveSurfaces returns the number of surfaces not yet released.
func (m *Memory) LiveSurfaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

func (s *MemorySurface) Size() (uint32, uint32) {
	b := s.img.Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}

// Resize reallocates the backing image. Contents are not preserved.
func (s *MemorySurface) Resize(width, height uint32) {
	if w, h := s.Size(); w == width && h == height {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
}

func (s *MemorySurface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.owner.mu.Lock()
	s.owner.live--
	s.owner.mu.Unlock()
}

// Image returns the last presented frame.
func (s *MemorySurface) Image() *image.RGBA { return s.img }
