package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
)

// Headless is an in-memory Backend. Windows exist only as bookkeeping and
// events are fed in with Inject. It backs --headless runs and tests.
type Headless struct {
	mu       sync.Mutex
	nextID   WindowID
	windows  map[WindowID]*HeadlessWindow
	monitors []Monitor
	events   chan Event
	closed   bool
}

var _ Backend = (*Headless)(nil)

// NewHeadless creates a headless backend with the given monitors. With no
// monitors a single 1920x1080 display at scale 1 is used.
func NewHeadless(monitors ...Monitor) *Headless {
	if len(monitors) == 0 {
		bounds := geom.Rect{Width: 1920, Height: 1080}
		monitors = []Monitor{{ID: 0, Name: "headless-0", Bounds: bounds, Usable: bounds, ScaleFactor: 1}}
	}
	return &Headless{
		nextID:   0x200001,
		windows:  make(map[WindowID]*HeadlessWindow),
		monitors: monitors,
		events:   make(chan Event, 256),
	}
}

// CreateWindow registers a new headless window.
func (h *Headless) CreateWindow(s Settings) (NativeWindow, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, fmt.Errorf("headless backend is closed")
	}

	mon := h.monitors[0]
	if s.Monitor != nil {
		mon = *s.Monitor
	}
	scale := mon.ScaleFactor
	if scale <= 0 {
		scale = 1
	}
	size := s.Size.ToPhysical(scale)
	if size.Width == 0 || size.Height == 0 {
		return nil, fmt.Errorf("invalid window size %vx%v", s.Size.Width, s.Size.Height)
	}

	var pos geom.PhysicalPosition
	if s.Position != nil {
		pos = s.Position.ToPhysical(scale)
	} else {
		pos = PlaceOn(mon, size)
	}

	id := h.nextID
	h.nextID++
	w := &HeadlessWindow{
		backend:   h,
		id:        id,
		title:     s.Title,
		scale:     scale,
		size:      size,
		position:  &pos,
		monitor:   mon,
		hasMon:    true,
		decorated: s.Decorations,
	}
	h.windows[id] = w
	return w, nil
}

// Monitors returns the configured monitors.
func (h *Headless) Monitors() ([]Monitor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Monitor, len(h.monitors))
	copy(out, h.monitors)
	return out, nil
}

// Events returns the injected event stream.
func (h *Headless) Events() <-chan Event {
	return h.events
}

// Run blocks until ctx is done.
func (h *Headless) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Close marks the backend closed. Further CreateWindow calls fail.
func (h *Headless) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

// Inject queues a raw event as if the windowing system reported it.
func (h *Headless) Inject(ev Event) {
	h.events <- ev
}

// Window returns the headless window with the given handle.
func (h *Headless) Window(id WindowID) (*HeadlessWindow, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[id]
	return w, ok
}

// post queues an event without blocking; events are dropped when the queue
// is full.
func (h *Headless) post(ev Event) {
	select {
	case h.events <- ev:
	default:
	}
}

// HeadlessWindow is the NativeWindow created by Headless.
type HeadlessWindow struct {
	backend *Headless

	mu        sync.Mutex
	id        WindowID
	title     string
	scale     float64
	size      geom.PhysicalSize
	position  *geom.PhysicalPosition
	monitor   Monitor
	hasMon    bool
	decorated bool
	redraws   int
	cursor    event.Interaction
	resizes   []ResizeDirection
	closed    bool
}

var _ NativeWindow = (*HeadlessWindow)(nil)

func (w *HeadlessWindow) ID() WindowID { return w.id }

func (w *HeadlessWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *HeadlessWindow) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *HeadlessWindow) InnerPosition() (geom.PhysicalPosition, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.position == nil {
		return geom.PhysicalPosition{}, ErrPositionUnavailable
	}
	return *w.position, nil
}

func (w *HeadlessWindow) SurfaceSize() geom.PhysicalSize {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *HeadlessWindow) CurrentMonitor() (Monitor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.monitor, w.hasMon
}

func (w *HeadlessWindow) Decorated() bool { return w.decorated }

// RequestRedraw counts the request and queues an expose event.
func (w *HeadlessWindow) RequestRedraw() {
	w.mu.Lock()
	w.redraws++
	closed := w.closed
	w.mu.Unlock()
	if !closed {
		w.backend.post(Event{Window: w.id, Kind: EventExpose})
	}
}

func (w *HeadlessWindow) DragResize(dir ResizeDirection) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resizes = append(w.resizes, dir)
	return nil
}

func (w *HeadlessWindow) SetCursor(i event.Interaction) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursor = i
}

// Close destroys the window and queues a destroy event.
func (w *HeadlessWindow) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.backend.mu.Lock()
	delete(w.backend.windows, w.id)
	w.backend.mu.Unlock()

	w.backend.post(Event{Window: w.id, Kind: EventDestroy})
	return nil
}

// Redraws returns the number of native redraw requests received.
func (w *HeadlessWindow) Redraws() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.redraws
}

// Cursor returns the last cursor set on the window.
func (w *HeadlessWindow) Cursor() event.Interaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

// DragResizes returns the drag-resize directions started on the window.
func (w *HeadlessWindow) DragResizes() []ResizeDirection {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ResizeDirection, len(w.resizes))
	copy(out, w.resizes)
	return out
}

// Closed reports whether Close has been called.
func (w *HeadlessWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// SetSurfaceSize changes the reported surface size.
func (w *HeadlessWindow) SetSurfaceSize(size geom.PhysicalSize) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = size
}

// SetScaleFactor changes the reported scale factor.
func (w *HeadlessWindow) SetScaleFactor(scale float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scale = scale
}

// SetInnerPosition changes the reported position; nil makes the position
// unavailable.
func (w *HeadlessWindow) SetInnerPosition(pos *geom.PhysicalPosition) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.position = pos
}

// SetMonitor changes the reported current monitor; nil clears it.
func (w *HeadlessWindow) SetMonitor(m *Monitor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if m == nil {
		w.hasMon = false
		return
	}
	w.monitor = *m
	w.hasMon = true
}
