package x11

import "testing"

func TestCursorGlyphs(t *testing.T) {
	glyphs := map[string]uint16{
		"default":           CursorDefault,
		"pointer":           CursorPointer,
		"grab":              CursorGrab,
		"grabbing":          CursorGrabbing,
		"text":              CursorText,
		"crosshair":         CursorCrosshair,
		"working":           CursorWorking,
		"not allowed":       CursorNotAllowed,
		"resize horizontal": CursorResizeHorizontal,
		"resize vertical":   CursorResizeVertical,
		"top left":          CursorTopLeft,
		"top right":         CursorTopRight,
		"bottom left":       CursorBottomLeft,
		"bottom right":      CursorBottomRight,
	}

	seen := make(map[uint16]string)
	for name, glyph := range glyphs {
		// Cursor font glyphs are even; the odd neighbour is the mask.
		if glyph%2 != 0 || glyph > 152 {
			t.Errorf("%s cursor glyph %d is not a cursor font shape", name, glyph)
		}
		if other, ok := seen[glyph]; ok {
			t.Errorf("%s and %s cursors share glyph %d", name, other, glyph)
		}
		seen[glyph] = name
	}

	if CursorText != 152 {
		t.Errorf("text cursor glyph = %d, want xterm (152)", CursorText)
	}
}
