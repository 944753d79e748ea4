package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// eventMask is the set of events selected on every application window.
const eventMask = xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskKeyPress |
	xproto.EventMaskFocusChange

// _NET_WM_MOVERESIZE directions.
const (
	MoveResizeTopLeft     = 0
	MoveResizeTop         = 1
	MoveResizeTopRight    = 2
	MoveResizeRight       = 3
	MoveResizeBottomRight = 4
	MoveResizeBottom      = 5
	MoveResizeBottomLeft  = 6
	MoveResizeLeft        = 7
)

// WindowSpec describes an application window to create.
type WindowSpec struct {
	Title       string
	X, Y        int
	Width       int
	Height      int
	Decorations bool
	Resizable   bool
}

// CreateWindow creates and maps a top-level application window.
func (c *Connection) CreateWindow(spec WindowSpec) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	if spec.Width < 1 || spec.Height < 1 {
		return 0, fmt.Errorf("invalid window size %dx%d", spec.Width, spec.Height)
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		int16(spec.X), int16(spec.Y),
		uint16(spec.Width), uint16(spec.Height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask.
		[]uint32{screen.BlackPixel, eventMask},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if err := c.SetTitle(wid, spec.Title); err != nil {
		c.DestroyWindow(wid)
		return 0, err
	}

	// Ask the window manager to send WM_DELETE_WINDOW instead of killing
	// the client.
	if err := icccm.WmProtocolsSet(c.XUtil, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		c.DestroyWindow(wid)
		return 0, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}

	if !spec.Decorations {
		hints := &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		}
		// Not fatal: some window managers ignore Motif hints.
		_ = motif.WmHintsSet(c.XUtil, wid, hints)
	}

	if !spec.Resizable {
		normal := &icccm.NormalHints{
			Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
			MinWidth:  uint(spec.Width),
			MinHeight: uint(spec.Height),
			MaxWidth:  uint(spec.Width),
			MaxHeight: uint(spec.Height),
		}
		_ = icccm.WmNormalHintsSet(c.XUtil, wid, normal)
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		c.DestroyWindow(wid)
		return 0, fmt.Errorf("failed to map window: %w", err)
	}

	// Window managers may ignore the position passed at creation.
	xwindow.New(c.XUtil, wid).Move(spec.X, spec.Y)

	return wid, nil
}

// SetTitle sets both the EWMH and ICCCM window names.
func (c *Connection) SetTitle(windowID xproto.Window, title string) error {
	if err := ewmh.WmNameSet(c.XUtil, windowID, title); err != nil {
		return fmt.Errorf("failed to set window title: %w", err)
	}
	return icccm.WmNameSet(c.XUtil, windowID, title)
}

// DestroyWindow destroys a window. Errors are ignored because the window may
// already be gone.
func (c *Connection) DestroyWindow(windowID xproto.Window) {
	xproto.DestroyWindow(c.XUtil.Conn(), windowID)
}

// WindowRect returns the client area of a window in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// WindowSize returns the size of a window's client area.
func (c *Connection) WindowSize(windowID xproto.Window) (width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(geom.Width), int(geom.Height), nil
}

// RequestExpose sends a synthetic Expose event covering the whole window, so
// that the window is repainted from the event loop.
func (c *Connection) RequestExpose(windowID xproto.Window, width, height int) error {
	ev := xproto.ExposeEvent{
		Window: windowID,
		Width:  uint16(width),
		Height: uint16(height),
		Count:  0,
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskExposure,
		string(ev.Bytes()),
	).Check()
}

// StartMoveResize hands an interactive resize from the given direction over
// to the window manager via _NET_WM_MOVERESIZE.
func (c *Connection) StartMoveResize(windowID xproto.Window, direction uint32) error {
	conn := c.XUtil.Conn()

	pointer, err := xproto.QueryPointer(conn, c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to query pointer: %w", err)
	}

	atom, err := c.Atom("_NET_WM_MOVERESIZE")
	if err != nil {
		return err
	}

	// The pointer grab from the button press must be released before the
	// window manager can take over.
	xproto.UngrabPointer(conn, xproto.TimeCurrentTime)

	const (
		buttonLeft       = 1
		sourceNormalApps = 1
	)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(pointer.RootX),
			uint32(pointer.RootY),
			direction,
			buttonLeft,
			sourceNormalApps,
		}),
	}

	return xproto.SendEventChecked(
		conn,
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// IsDeleteWindow reports whether a client message is a WM_DELETE_WINDOW
// protocol request.
func (c *Connection) IsDeleteWindow(ev xproto.ClientMessageEvent) bool {
	protocols, err := c.Atom("WM_PROTOCOLS")
	if err != nil || ev.Type != protocols || ev.Format != 32 {
		return false
	}
	deleteWindow, err := c.Atom("WM_DELETE_WINDOW")
	if err != nil {
		return false
	}
	return xproto.Atom(ev.Data.Data32[0]) == deleteWindow
}
