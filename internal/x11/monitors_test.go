package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestInsetForDockStruts(t *testing.T) {
	left := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Monitor{X: 1920, Y: 0, Width: 2560, Height: 1440}
	rootW, rootH := 4480, 1440

	// A 32px top panel spanning only the left monitor.
	panel := &ewmh.WmStrutPartial{Top: 32, TopStartX: 0, TopEndX: 1919}
	reserved := strutReservations(panel, rootW, rootH)

	if got := insetFor(left.bounds(), reserved); got != (box{0, 32, 1920, 1080}) {
		t.Fatalf("left monitor usable = %+v, want top inset of 32", got)
	}
	if got := insetFor(right.bounds(), reserved); got != right.bounds() {
		t.Fatalf("right monitor usable = %+v, want full bounds", got)
	}

	// A bottom dock on the taller right monitor.
	dock := &ewmh.WmStrutPartial{Bottom: 48, BottomStartX: 1920, BottomEndX: 4479}
	reserved = append(reserved, strutReservations(dock, rootW, rootH)...)
	if got := insetFor(right.bounds(), reserved); got != (box{1920, 0, 4480, 1392}) {
		t.Fatalf("right monitor usable = %+v, want bottom inset of 48", got)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, X: 0, Y: 0, Width: 1920, Height: 1080},
		{ID: 1, X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 0},
		{1919, 1079, 0},
		{1920, 0, 1},
		{3839, 500, 1},
		{3840, 500, -1},
		{-1, 0, -1},
	}
	for _, tt := range tests {
		got := -1
		if m := monitorAt(monitors, tt.x, tt.y); m != nil {
			got = m.ID
		}
		if got != tt.want {
			t.Errorf("monitorAt(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMonitorScaleFactor(t *testing.T) {
	tests := []struct {
		name string
		m    Monitor
		want float64
	}{
		{"unknown size", Monitor{Width: 1920}, 0},
		{"96 dpi", Monitor{Width: 1920, WidthMM: 508}, 1},
		{"192 dpi", Monitor{Width: 3840, WidthMM: 508}, 2},
		{"low dpi clamps to 1", Monitor{Width: 1024, WidthMM: 600}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.ScaleFactor(); got != tt.want {
				t.Fatalf("ScaleFactor() = %v, want %v", got, tt.want)
			}
		})
	}
}
