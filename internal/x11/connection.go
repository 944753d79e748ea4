package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	atomMu sync.Mutex
	atoms  map[string]xproto.Atom

	cursorMu sync.Mutex
	cursors  map[uint16]xproto.Cursor
}

// NewConnection establishes a connection to the X11 server. An empty display
// uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}

	// Required for keycode to string lookups on key presses.
	keybind.Initialize(xu)

	return &Connection{
		XUtil:   xu,
		Root:    xu.RootWin(),
		atoms:   make(map[string]xproto.Atom),
		cursors: make(map[uint16]xproto.Cursor),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops a running EventLoop.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// Atom interns name, caching the result.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	c.atomMu.Lock()
	defer c.atomMu.Unlock()
	if a, ok := c.atoms[name]; ok {
		return a, nil
	}
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	c.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// ScaleFactor derives a scale factor from the screen's reported physical
// size, rounded to quarter steps and never below 1.
func (c *Connection) ScaleFactor() float64 {
	screen := c.XUtil.Screen()
	if screen.WidthInMillimeters == 0 {
		return 1
	}
	dpi := float64(screen.WidthInPixels) * 25.4 / float64(screen.WidthInMillimeters)
	return scaleForDPI(dpi)
}

func scaleForDPI(dpi float64) float64 {
	scale := float64(int(dpi/96*4+0.5)) / 4
	if scale < 1 {
		return 1
	}
	return scale
}
