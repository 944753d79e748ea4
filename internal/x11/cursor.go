package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// Cursor font glyphs used for window cursors.
const (
	CursorDefault          = xcursor.LeftPtr
	CursorPointer          = xcursor.Hand2
	CursorGrab             = xcursor.Hand1
	CursorGrabbing         = xcursor.Fleur
	CursorText             = xcursor.XTerm
	CursorCrosshair        = xcursor.Crosshair
	CursorWorking          = xcursor.Watch
	CursorNotAllowed       = xcursor.XCursor
	CursorResizeHorizontal = xcursor.SBHDoubleArrow
	CursorResizeVertical   = xcursor.SBVDoubleArrow
	CursorTopLeft          = xcursor.TopLeftCorner
	CursorTopRight         = xcursor.TopRightCorner
	CursorBottomLeft       = xcursor.BottomLeftCorner
	CursorBottomRight      = xcursor.BottomRightCorner
)

// SetCursor shows the given cursor font glyph while the pointer is inside
// the window. Cursors are created once per connection.
func (c *Connection) SetCursor(windowID xproto.Window, glyph uint16) error {
	cursor, err := c.cursor(glyph)
	if err != nil {
		return err
	}
	return xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.CwCursor,
		[]uint32{uint32(cursor)},
	).Check()
}

func (c *Connection) cursor(glyph uint16) (xproto.Cursor, error) {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()
	if cur, ok := c.cursors[glyph]; ok {
		return cur, nil
	}
	cur, err := xcursor.CreateCursor(c.XUtil, glyph)
	if err != nil {
		return 0, fmt.Errorf("failed to create cursor %d: %w", glyph, err)
	}
	c.cursors[glyph] = cur
	return cur, nil
}
