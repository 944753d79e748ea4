package conversion

import (
	"math"
	"testing"

	"github.com/1broseidon/winshell/internal/event"
)

func TestPointerButton(t *testing.T) {
	tests := []struct {
		name   string
		code   uint32
		want   event.Button
		wantOK bool
	}{
		{name: "left", code: BtnLeft, want: event.Left, wantOK: true},
		{name: "right", code: BtnRight, want: event.Right, wantOK: true},
		{name: "middle", code: BtnMiddle, want: event.Middle, wantOK: true},
		{name: "side is back", code: BtnSide, want: event.Back, wantOK: true},
		{name: "extra is forward", code: BtnExtra, want: event.Forward, wantOK: true},
		{name: "unnamed in range", code: 0x115, want: event.Other(0x115), wantOK: true},
		{name: "zero", code: 0, want: event.Other(0), wantOK: true},
		{name: "max representable", code: math.MaxUint16, want: event.Other(math.MaxUint16), wantOK: true},
		{name: "out of range", code: math.MaxUint16 + 1, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PointerButton(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("PointerButton(%#x) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("PointerButton(%#x) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestPointerAxis_WheelUsesDiscreteInverted(t *testing.T) {
	src := AxisSourceWheel
	got, ok := PointerAxis(&src, AxisScroll{Discrete: 2, Absolute: 30}, AxisScroll{Discrete: 0, Absolute: 7})
	if !ok {
		t.Fatal("expected a mapping for wheel source")
	}
	if got.Unit != event.Lines || got.X != -2 || got.Y != 0 {
		t.Fatalf("PointerAxis = %v, want lines(-2, -0)", got)
	}
}

func TestPointerAxis_WheelTiltMatchesWheel(t *testing.T) {
	src := AxisSourceWheelTilt
	got, ok := PointerAxis(&src, AxisScroll{}, AxisScroll{Discrete: -3})
	if !ok || got.Unit != event.Lines || got.Y != 3 {
		t.Fatalf("PointerAxis = %v (ok=%v), want lines(0, 3)", got, ok)
	}
}

func TestPointerAxis_ContinuousUsesAbsoluteInverted(t *testing.T) {
	for _, src := range []AxisSource{AxisSourceFinger, AxisSourceContinuous} {
		got, ok := PointerAxis(&src, AxisScroll{Absolute: 1.5, Discrete: 9}, AxisScroll{Absolute: -4})
		if !ok {
			t.Fatalf("source %d: expected a mapping", src)
		}
		if got.Unit != event.Pixels || got.X != -1.5 || got.Y != 4 {
			t.Fatalf("source %d: PointerAxis = %v, want pixels(-1.5, 4)", src, got)
		}
	}
}

func TestPointerAxis_NoSourceIsUnmapped(t *testing.T) {
	if got, ok := PointerAxis(nil, AxisScroll{Discrete: 5, Absolute: 50}, AxisScroll{Discrete: 1}); ok {
		t.Fatalf("PointerAxis(nil) = %v, want no mapping", got)
	}
}

func TestModifiers(t *testing.T) {
	tests := []struct {
		name string
		in   NativeModifiers
		want event.Modifiers
	}{
		{name: "none", in: NativeModifiers{}, want: 0},
		{name: "alt and shift", in: NativeModifiers{Alt: true, Shift: true}, want: event.Alt | event.Shift},
		{name: "ctrl logo caps", in: NativeModifiers{Ctrl: true, Logo: true, CapsLock: true}, want: event.Ctrl | event.Logo | event.CapsLock},
		{name: "num lock dropped", in: NativeModifiers{NumLock: true}, want: 0},
		{name: "all", in: NativeModifiers{true, true, true, true, true, true}, want: event.Ctrl | event.Alt | event.Shift | event.CapsLock | event.Logo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Modifiers(tt.in); got != tt.want {
				t.Fatalf("Modifiers(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
