//go:build linux

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/x11"
)

// LinuxBackend is the X11 Backend.
type LinuxBackend struct {
	conn   *x11.Connection
	events chan Event
	logger *slog.Logger

	closeOnce sync.Once
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxBackend{
		conn:   conn,
		events: make(chan Event, 256),
		logger: logger,
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection. An empty display uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Events returns the stream of translated X events.
func (b *LinuxBackend) Events() <-chan Event {
	return b.events
}

// Run pumps the X event loop until ctx is done.
func (b *LinuxBackend) Run(ctx context.Context) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, conn.Quit)
	defer stop()
	conn.EventLoop()
	return nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() {
	b.closeOnce.Do(func() {
		if b.conn != nil {
			b.conn.Close()
		}
	})
}

// Monitors returns all active monitors with their usable work areas.
func (b *LinuxBackend) Monitors() ([]Monitor, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	scale := conn.ScaleFactor()
	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, b.monitorFrom(m, scale))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateWindow creates, maps and starts tracking events for a new window.
func (b *LinuxBackend) CreateWindow(s Settings) (NativeWindow, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	scale := conn.ScaleFactor()
	size := s.Size.ToPhysical(scale)

	var pos geom.PhysicalPosition
	switch {
	case s.Position != nil:
		pos = s.Position.ToPhysical(scale)
	case s.Monitor != nil:
		pos = PlaceOn(*s.Monitor, size)
	default:
		if mon, err := conn.MonitorForPointer(); err == nil {
			pos = PlaceOn(b.monitorFrom(*mon, scale), size)
		}
	}

	wid, err := conn.CreateWindow(x11.WindowSpec{
		Title:       s.Title,
		X:           pos.X,
		Y:           pos.Y,
		Width:       int(size.Width),
		Height:      int(size.Height),
		Decorations: s.Decorations,
		Resizable:   s.Resizable,
	})
	if err != nil {
		return nil, err
	}

	w := &linuxWindow{
		backend:   b,
		conn:      conn,
		id:        wid,
		title:     s.Title,
		decorated: s.Decorations,
		size:      size,
	}
	b.attach(w)
	return w, nil
}

// monitorFrom converts an X11 monitor, preferring its own scale over the
// screen-wide fallback.
func (b *LinuxBackend) monitorFrom(m x11.Monitor, fallback float64) Monitor {
	scale := m.ScaleFactor()
	if scale == 0 {
		scale = fallback
	}
	usable := b.conn.UsableArea(m)
	return Monitor{
		ID:   m.ID,
		Name: m.Name,
		Bounds: geom.Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Usable: geom.Rect{
			X:      usable.X,
			Y:      usable.Y,
			Width:  usable.Width,
			Height: usable.Height,
		},
		ScaleFactor: scale,
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// post forwards an event to the shell. It runs on the xevent goroutine and
// blocks when the shell falls behind.
func (b *LinuxBackend) post(ev Event) {
	b.events <- ev
}

// attach connects xevent callbacks that translate X events for w.
func (b *LinuxBackend) attach(w *linuxWindow) {
	xu := b.conn.XUtil
	id := WindowID(w.id)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		// Only the last expose of a series triggers a repaint.
		if ev.Count != 0 {
			return
		}
		b.post(Event{Window: id, Kind: EventExpose})
	}).Connect(xu, w.id)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		size := geom.PhysicalSize{Width: uint32(ev.Width), Height: uint32(ev.Height)}
		w.setSize(size)
		b.post(Event{
			Window:   id,
			Kind:     EventConfigure,
			Position: geom.PhysicalPosition{X: int(ev.X), Y: int(ev.Y)},
			Size:     size,
		})
	}).Connect(xu, w.id)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		b.post(buttonEvent(id, EventButtonPress, ev.Detail, ev.State, ev.EventX, ev.EventY))
	}).Connect(xu, w.id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if _, ok := x11.ButtonCode(ev.Detail); !ok {
			// Wheel steps are reported on press only.
			return
		}
		b.post(buttonEvent(id, EventButtonRelease, ev.Detail, ev.State, ev.EventX, ev.EventY))
	}).Connect(xu, w.id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		b.post(Event{
			Window:    id,
			Kind:      EventMotion,
			Position:  geom.PhysicalPosition{X: int(ev.EventX), Y: int(ev.EventY)},
			Modifiers: x11.StateModifiers(ev.State),
		})
	}).Connect(xu, w.id)

	xevent.KeyPressFun(func(_ *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		b.post(Event{
			Window:    id,
			Kind:      EventKeyPress,
			Modifiers: x11.StateModifiers(ev.State),
			Text:      b.conn.KeyText(ev.State, ev.Detail),
		})
	}).Connect(xu, w.id)

	xevent.FocusInFun(func(_ *xgbutil.XUtil, _ xevent.FocusInEvent) {
		b.post(Event{Window: id, Kind: EventFocusIn})
	}).Connect(xu, w.id)

	xevent.FocusOutFun(func(_ *xgbutil.XUtil, _ xevent.FocusOutEvent) {
		b.post(Event{Window: id, Kind: EventFocusOut})
	}).Connect(xu, w.id)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if b.conn.IsDeleteWindow(*ev.ClientMessageEvent) {
			b.post(Event{Window: id, Kind: EventCloseRequest})
		}
	}).Connect(xu, w.id)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, _ xevent.DestroyNotifyEvent) {
		xevent.Detach(xu, w.id)
		b.post(Event{Window: id, Kind: EventDestroy})
	}).Connect(xu, w.id)
}

func buttonEvent(id WindowID, kind EventKind, detail xproto.Button, state uint16, x, y int16) Event {
	ev := Event{
		Window:    id,
		Kind:      kind,
		Position:  geom.PhysicalPosition{X: int(x), Y: int(y)},
		Modifiers: x11.StateModifiers(state),
	}
	if code, ok := x11.ButtonCode(detail); ok {
		ev.Button = code
		return ev
	}
	source, h, v, _ := x11.WheelAxis(detail)
	ev.Kind = EventAxis
	ev.AxisSource = &source
	ev.Horizontal = h
	ev.Vertical = v
	return ev
}

// linuxWindow is a NativeWindow backed by an X11 window.
type linuxWindow struct {
	backend   *LinuxBackend
	conn      *x11.Connection
	id        xproto.Window
	title     string
	decorated bool

	mu   sync.Mutex
	size geom.PhysicalSize
}

var _ NativeWindow = (*linuxWindow)(nil)

func (w *linuxWindow) ID() WindowID { return WindowID(w.id) }

func (w *linuxWindow) Title() string { return w.title }

func (w *linuxWindow) Decorated() bool { return w.decorated }

func (w *linuxWindow) ScaleFactor() float64 { return w.conn.ScaleFactor() }

func (w *linuxWindow) InnerPosition() (geom.PhysicalPosition, error) {
	x, y, _, _, err := w.conn.WindowRect(w.id)
	if err != nil {
		return geom.PhysicalPosition{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	return geom.PhysicalPosition{X: x, Y: y}, nil
}

// SurfaceSize returns the last size reported by the server, refreshing it
// with a round trip when none has been seen yet.
func (w *linuxWindow) SurfaceSize() geom.PhysicalSize {
	w.mu.Lock()
	size := w.size
	w.mu.Unlock()
	if size.Width != 0 && size.Height != 0 {
		return size
	}
	width, height, err := w.conn.WindowSize(w.id)
	if err != nil {
		return size
	}
	size = geom.PhysicalSize{Width: uint32(width), Height: uint32(height)}
	w.setSize(size)
	return size
}

func (w *linuxWindow) setSize(size geom.PhysicalSize) {
	w.mu.Lock()
	w.size = size
	w.mu.Unlock()
}

func (w *linuxWindow) CurrentMonitor() (Monitor, bool) {
	mon, err := w.conn.MonitorForWindow(w.id)
	if err != nil {
		return Monitor{}, false
	}
	return w.backend.monitorFrom(*mon, w.conn.ScaleFactor()), true
}

func (w *linuxWindow) RequestRedraw() {
	size := w.SurfaceSize()
	if err := w.conn.RequestExpose(w.id, int(size.Width), int(size.Height)); err != nil {
		w.backend.logger.Warn("redraw request failed", "window", uint32(w.id), "error", err)
	}
}

func (w *linuxWindow) DragResize(dir ResizeDirection) error {
	var d uint32
	switch dir {
	case ResizeNorth:
		d = x11.MoveResizeTop
	case ResizeSouth:
		d = x11.MoveResizeBottom
	case ResizeEast:
		d = x11.MoveResizeRight
	case ResizeWest:
		d = x11.MoveResizeLeft
	case ResizeNorthEast:
		d = x11.MoveResizeTopRight
	case ResizeNorthWest:
		d = x11.MoveResizeTopLeft
	case ResizeSouthEast:
		d = x11.MoveResizeBottomRight
	case ResizeSouthWest:
		d = x11.MoveResizeBottomLeft
	default:
		return fmt.Errorf("unknown resize direction %d", dir)
	}
	return w.conn.StartMoveResize(w.id, d)
}

func (w *linuxWindow) SetCursor(i event.Interaction) {
	glyph := uint16(x11.CursorDefault)
	switch i {
	case event.InteractionPointer:
		glyph = x11.CursorPointer
	case event.InteractionGrab:
		glyph = x11.CursorGrab
	case event.InteractionGrabbing:
		glyph = x11.CursorGrabbing
	case event.InteractionText:
		glyph = x11.CursorText
	case event.InteractionCrosshair:
		glyph = x11.CursorCrosshair
	case event.InteractionWorking:
		glyph = x11.CursorWorking
	case event.InteractionNotAllowed:
		glyph = x11.CursorNotAllowed
	case event.InteractionResizingHorizontally:
		glyph = x11.CursorResizeHorizontal
	case event.InteractionResizingVertically:
		glyph = x11.CursorResizeVertical
	case event.InteractionResizingDiagonallyUp:
		glyph = x11.CursorTopRight
	case event.InteractionResizingDiagonallyDown:
		glyph = x11.CursorTopLeft
	}
	if err := w.conn.SetCursor(w.id, glyph); err != nil {
		w.backend.logger.Debug("set cursor failed", "window", uint32(w.id), "error", err)
	}
}

func (w *linuxWindow) Close() error {
	w.conn.DestroyWindow(w.id)
	return nil
}
