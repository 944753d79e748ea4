package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is a connected RandR output driving an active CRTC.
type Monitor struct {
	ID       int
	Name     string
	X        int
	Y        int
	Width    int
	Height   int
	WidthMM  uint32
	HeightMM uint32
	Primary  bool
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

func (m Monitor) bounds() box {
	return box{x1: m.X, y1: m.Y, x2: m.X + m.Width, y2: m.Y + m.Height}
}

// ScaleFactor derives the monitor's scale from its physical width, or 0 when
// the output does not report one.
func (m Monitor) ScaleFactor() float64 {
	if m.WidthMM == 0 || m.Width == 0 {
		return 0
	}
	return scaleForDPI(float64(m.Width) * 25.4 / float64(m.WidthMM))
}

// GetMonitors lists the active monitors, primary first.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	res, err := randr.GetScreenResourcesCurrent(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(xc, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(xc, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(xc, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil || crtc.Width == 0 || crtc.Height == 0 {
			continue
		}
		monitors = append(monitors, Monitor{
			Name:     string(info.Name),
			X:        int(crtc.X),
			Y:        int(crtc.Y),
			Width:    int(crtc.Width),
			Height:   int(crtc.Height),
			WidthMM:  info.MmWidth,
			HeightMM: info.MmHeight,
			Primary:  output == primary,
		})
	}

	slices.SortStableFunc(monitors, func(a, b Monitor) int {
		switch {
		case a.Primary == b.Primary:
			return 0
		case a.Primary:
			return -1
		default:
			return 1
		}
	})
	for i := range monitors {
		monitors[i].ID = i
	}
	return monitors, nil
}

// MonitorForWindow returns the monitor containing the center of a window.
func (c *Connection) MonitorForWindow(win xproto.Window) (*Monitor, error) {
	x, y, w, h, err := c.WindowRect(win)
	if err != nil {
		return nil, err
	}
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if m := monitorAt(monitors, x+w/2, y+h/2); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("window %d is not on any monitor", win)
}

// MonitorForPointer returns the monitor under the pointer, or the first
// monitor when the pointer cannot be located.
func (c *Connection) MonitorForPointer() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	if p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if m := monitorAt(monitors, int(p.RootX), int(p.RootY)); m != nil {
			return m, nil
		}
	}
	return &monitors[0], nil
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		if monitors[i].contains(x, y) {
			return &monitors[i]
		}
	}
	return nil
}

// UsableArea returns the part of the monitor not reserved by docks. Without
// dock struts it falls back to the EWMH work area, then to the full bounds.
func (c *Connection) UsableArea(m Monitor) Monitor {
	mon := m.bounds()
	if reserved, ok := c.dockReservations(); ok {
		area := insetFor(mon, reserved)
		if area != mon {
			return m.withBox(area)
		}
	}
	if wa, ok := c.workArea(); ok {
		if area := mon.clip(wa); !area.empty() {
			return m.withBox(area)
		}
	}
	return m
}

func (m Monitor) withBox(b box) Monitor {
	m.X, m.Y = b.x1, b.y1
	m.Width, m.Height = max(b.x2-b.x1, 1), max(b.y2-b.y1, 1)
	return m
}

func (c *Connection) workArea() (box, bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return box{}, false
	}
	i := 0
	if d, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(d) < len(areas) {
		i = int(d)
	}
	a := areas[i]
	return box{x1: a.X, y1: a.Y, x2: a.X + int(a.Width), y2: a.Y + int(a.Height)}, true
}

// box is a half-open rectangle [x1,x2) x [y1,y2) in root coordinates.
type box struct {
	x1, y1, x2, y2 int
}

func (b box) clip(o box) box {
	return box{x1: max(b.x1, o.x1), y1: max(b.y1, o.y1), x2: min(b.x2, o.x2), y2: min(b.y2, o.y2)}
}

func (b box) empty() bool { return b.x2 <= b.x1 || b.y2 <= b.y1 }

type edge uint8

const (
	edgeLeft edge = iota
	edgeRight
	edgeTop
	edgeBottom
)

// reservation is screen space claimed by a dock along one root edge.
type reservation struct {
	edge edge
	area box
}

// dockReservations collects the struts of every dock window.
func (c *Connection) dockReservations() ([]reservation, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, false
	}
	rw, rh := int(geom.Width), int(geom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, false
	}

	var out []reservation
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Older docks only set _NET_WM_STRUT, which spans the whole edge.
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(rh - 1), RightEndY: uint(rh - 1),
				TopEndX: uint(rw - 1), BottomEndX: uint(rw - 1),
			}
		}
		out = append(out, strutReservations(sp, rw, rh)...)
	}
	return out, len(out) > 0
}

func strutReservations(sp *ewmh.WmStrutPartial, rw, rh int) []reservation {
	var out []reservation
	if sp.Left > 0 {
		out = append(out, reservation{edgeLeft, box{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1}})
	}
	if sp.Right > 0 {
		out = append(out, reservation{edgeRight, box{rw - int(sp.Right), int(sp.RightStartY), rw, int(sp.RightEndY) + 1}})
	}
	if sp.Top > 0 {
		out = append(out, reservation{edgeTop, box{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)}})
	}
	if sp.Bottom > 0 {
		out = append(out, reservation{edgeBottom, box{int(sp.BottomStartX), rh - int(sp.Bottom), int(sp.BottomEndX) + 1, rh}})
	}
	return out
}

// insetFor shrinks mon by the largest overlap of each edge's reservations.
func insetFor(mon box, reserved []reservation) box {
	var inset [4]int
	for _, r := range reserved {
		overlap := mon.clip(r.area)
		if overlap.empty() {
			continue
		}
		switch r.edge {
		case edgeLeft, edgeRight:
			inset[r.edge] = max(inset[r.edge], overlap.x2-overlap.x1)
		case edgeTop, edgeBottom:
			inset[r.edge] = max(inset[r.edge], overlap.y2-overlap.y1)
		}
	}
	return box{
		x1: mon.x1 + inset[edgeLeft],
		y1: mon.y1 + inset[edgeTop],
		x2: mon.x2 - inset[edgeRight],
		y2: mon.y2 - inset[edgeBottom],
	}
}
