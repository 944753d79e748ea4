package shell

import (
	"context"
	"errors"
	"image/color"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/conversion"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/geom"
	"github.com/1broseidon/winshell/internal/platform"
	"github.com/1broseidon/winshell/internal/window"
)

type recorder struct {
	mu          sync.Mutex
	events      map[window.ID][]event.Event
	onClose     Action
	onOpened    Action
	onModifiers Action
	interaction event.Interaction
}

func newRecorder() *recorder {
	return &recorder{events: make(map[window.ID][]event.Event)}
}

func (r *recorder) Title(window.ID) string        { return "test" }
func (r *recorder) ScaleFactor(window.ID) float64 { return 1 }

func (r *recorder) Update(id window.ID, ev event.Event) Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[id] = append(r.events[id], ev)
	switch ev.(type) {
	case event.CloseRequested:
		return r.onClose
	case event.Opened:
		return r.onOpened
	case event.ModifiersChanged:
		return r.onModifiers
	}
	return ActionNone
}

func (r *recorder) Draw(window.ID, compositor.Renderer, *window.State) {}

func (r *recorder) MouseInteraction(window.ID) event.Interaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interaction
}

func (r *recorder) eventsFor(id window.ID) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events[id]))
	copy(out, r.events[id])
	return out
}

type harness struct {
	backend *platform.Headless
	comp    *compositor.Memory
	program *recorder
	shell   *Shell
	done    chan error
	cancel  context.CancelFunc
}

func start(t *testing.T, backend *platform.Headless, opts Options) *harness {
	t.Helper()
	if backend == nil {
		backend = platform.NewHeadless()
	}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &harness{
		backend: backend,
		comp:    compositor.NewMemory(),
		program: newRecorder(),
		done:    make(chan error, 1),
	}
	h.shell = New(h.backend, h.comp, h.program, opts)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.shell.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(5 * time.Second):
			t.Error("shell did not stop")
		}
	})
	return h
}

func (h *harness) snapshot(t *testing.T) []Info {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	infos, err := h.shell.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return infos
}

func (h *harness) only(t *testing.T) (Info, *platform.HeadlessWindow) {
	t.Helper()
	infos := h.snapshot(t)
	if len(infos) != 1 {
		t.Fatalf("Snapshot() returned %d windows, want 1", len(infos))
	}
	native, ok := h.backend.Window(infos[0].Handle)
	if !ok {
		t.Fatalf("headless window %d not found", infos[0].Handle)
	}
	return infos[0], native
}

func (h *harness) waitStopped(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		h.done <- err
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not stop")
		return nil
	}
}

func defaultWindow(title string) Settings {
	return Settings{Settings: platform.Settings{Title: title, Size: geom.Size{Width: 200, Height: 100}}}
}

func TestOpenDeliversOpenedAndRenders(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("main")}})
	info, native := h.only(t)

	events := h.program.eventsFor(info.ID)
	if len(events) == 0 {
		t.Fatal("no events delivered")
	}
	opened, ok := events[0].(event.Opened)
	if !ok {
		t.Fatalf("first event = %T, want event.Opened", events[0])
	}
	if opened.Size != (geom.Size{Width: 200, Height: 100}) {
		t.Fatalf("Opened.Size = %v, want 200x100", opened.Size)
	}
	if opened.Position == nil {
		t.Fatal("Opened.Position = nil, want a position")
	}

	if info.RedrawPending {
		t.Fatal("redraw still pending after expose")
	}
	if got := h.comp.Presents(); got != 1 {
		t.Fatalf("Presents() = %d, want 1", got)
	}
	if got := native.Redraws(); got != 1 {
		t.Fatalf("native redraws = %d, want 1", got)
	}
}

func TestInputIsConverted(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("main")}})
	info, native := h.only(t)

	wheel := conversion.AxisSourceWheel
	h.backend.Inject(platform.Event{
		Window:    info.Handle,
		Kind:      platform.EventMotion,
		Position:  geom.PhysicalPosition{X: 20, Y: 10},
		Modifiers: conversion.NativeModifiers{Shift: true, NumLock: true},
	})
	h.backend.Inject(platform.Event{
		Window:    info.Handle,
		Kind:      platform.EventButtonPress,
		Button:    conversion.BtnLeft,
		Position:  geom.PhysicalPosition{X: 20, Y: 10},
		Modifiers: conversion.NativeModifiers{Shift: true},
	})
	// Unmappable input is dropped.
	h.backend.Inject(platform.Event{Window: info.Handle, Kind: platform.EventButtonPress, Button: 0x10000})
	h.backend.Inject(platform.Event{Window: info.Handle, Kind: platform.EventAxis})
	h.backend.Inject(platform.Event{
		Window:     info.Handle,
		Kind:       platform.EventAxis,
		AxisSource: &wheel,
		Vertical:   conversion.AxisScroll{Discrete: 1, Absolute: 10},
		Modifiers:  conversion.NativeModifiers{Shift: true},
	})
	h.snapshot(t)

	got := h.program.eventsFor(info.ID)[1:]
	want := []event.Event{
		event.ModifiersChanged{Modifiers: event.Shift},
		event.CursorMoved{Position: geom.Point{X: 20, Y: 10}},
		event.ButtonPressed{Button: event.Left, Position: geom.Point{X: 20, Y: 10}},
		event.WheelScrolled{Delta: event.ScrollDelta{Unit: event.Lines, X: 0, Y: -1}},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}

	if native.Redraws() != h.comp.Presents() {
		t.Fatalf("native redraws = %d, presents = %d, want equal", native.Redraws(), h.comp.Presents())
	}
}

func TestCloseRequestDeliveredToProgram(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("main")}})
	h.program.mu.Lock()
	h.program.onClose = ActionClose
	h.program.mu.Unlock()
	info, native := h.only(t)

	h.backend.Inject(platform.Event{Window: info.Handle, Kind: platform.EventCloseRequest})
	if infos := h.snapshot(t); len(infos) != 0 {
		t.Fatalf("Snapshot() returned %d windows after close, want 0", len(infos))
	}
	if !native.Closed() {
		t.Fatal("native window was not closed")
	}
	if got := h.comp.LiveSurfaces(); got != 0 {
		t.Fatalf("LiveSurfaces() = %d, want 0", got)
	}

	events := h.program.eventsFor(info.ID)
	if _, ok := events[len(events)-1].(event.Closed); !ok {
		t.Fatalf("last event = %T, want event.Closed", events[len(events)-1])
	}
	if _, ok := events[len(events)-2].(event.CloseRequested); !ok {
		t.Fatalf("event before Closed = %T, want event.CloseRequested", events[len(events)-2])
	}
}

func TestCloseRequestIgnoredByProgram(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("main")}})
	info, native := h.only(t)

	h.backend.Inject(platform.Event{Window: info.Handle, Kind: platform.EventCloseRequest})
	if infos := h.snapshot(t); len(infos) != 1 {
		t.Fatalf("Snapshot() returned %d windows, want 1", len(infos))
	}
	if native.Closed() {
		t.Fatal("native window closed although the program ignored the request")
	}
}

func TestExitOnCloseRequestStopsShell(t *testing.T) {
	exiting := defaultWindow("main")
	exiting.ExitOnCloseRequest = true
	h := start(t, nil, Options{Windows: []Settings{exiting, defaultWindow("other")}})

	infos := h.snapshot(t)
	if len(infos) != 2 {
		t.Fatalf("Snapshot() returned %d windows, want 2", len(infos))
	}
	var natives []*platform.HeadlessWindow
	for _, info := range infos {
		native, _ := h.backend.Window(info.Handle)
		natives = append(natives, native)
	}

	h.backend.Inject(platform.Event{Window: infos[0].Handle, Kind: platform.EventCloseRequest})
	if err := h.waitStopped(t); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i, native := range natives {
		if !native.Closed() {
			t.Fatalf("window %d not closed on exit", i)
		}
	}
	if got := h.comp.LiveSurfaces(); got != 0 {
		t.Fatalf("LiveSurfaces() = %d, want 0", got)
	}

	if _, err := h.shell.Snapshot(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("Snapshot() after stop error = %v, want ErrStopped", err)
	}
}

func TestExitWhenEmpty(t *testing.T) {
	h := start(t, nil, Options{ExitWhenEmpty: true, Windows: []Settings{defaultWindow("main")}})
	info, _ := h.only(t)

	if err := h.shell.Close(context.Background(), info.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.waitStopped(t); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestDestroyRemovesWindow(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("a"), defaultWindow("b")}})
	infos := h.snapshot(t)

	h.backend.Inject(platform.Event{Window: infos[0].Handle, Kind: platform.EventDestroy})
	after := h.snapshot(t)
	if len(after) != 1 || after[0].ID != infos[1].ID {
		t.Fatalf("Snapshot() after destroy = %v, want only window %d", after, infos[1].ID)
	}
	if err := h.shell.Check(context.Background()); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
}

func TestUnknownCommandsTargets(t *testing.T) {
	h := start(t, nil, Options{})
	ctx := context.Background()

	if err := h.shell.Close(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Close() error = %v, want ErrNotFound", err)
	}
	if err := h.shell.Redraw(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Redraw() error = %v, want ErrNotFound", err)
	}

	// Events for handles the shell does not know are dropped.
	h.backend.Inject(platform.Event{Window: 42, Kind: platform.EventExpose})
	if infos := h.snapshot(t); len(infos) != 0 {
		t.Fatalf("Snapshot() returned %d windows, want 0", len(infos))
	}
}

func TestConfigureResizes(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("main")}})
	info, _ := h.only(t)

	h.backend.Inject(platform.Event{
		Window: info.Handle,
		Kind:   platform.EventConfigure,
		Size:   geom.PhysicalSize{Width: 300, Height: 150},
	})
	info, _ = h.only(t)
	if info.ViewportVersion != 1 {
		t.Fatalf("ViewportVersion = %d, want 1", info.ViewportVersion)
	}

	events := h.program.eventsFor(info.ID)
	resized, ok := events[len(events)-1].(event.Resized)
	if !ok {
		t.Fatalf("last event = %T, want event.Resized", events[len(events)-1])
	}
	if resized.Size != (geom.Size{Width: 300, Height: 150}) {
		t.Fatalf("Resized.Size = %v, want 300x150", resized.Size)
	}
}

func TestDragResizeConsumesEdgePress(t *testing.T) {
	resizable := defaultWindow("main")
	resizable.Resizable = true
	h := start(t, nil, Options{ResizeBorder: 8, Windows: []Settings{resizable}})
	info, native := h.only(t)
	if !info.ResizeEnabled {
		t.Fatal("ResizeEnabled = false for resizable window")
	}

	h.backend.Inject(platform.Event{
		Window:   info.Handle,
		Kind:     platform.EventButtonPress,
		Button:   conversion.BtnLeft,
		Position: geom.PhysicalPosition{X: 199, Y: 50},
	})
	h.snapshot(t)

	if got := native.DragResizes(); len(got) != 1 || got[0] != platform.ResizeEast {
		t.Fatalf("DragResizes() = %v, want [east]", got)
	}
	for _, ev := range h.program.eventsFor(info.ID) {
		if _, ok := ev.(event.ButtonPressed); ok {
			t.Fatal("edge press was delivered to the program")
		}
	}
}

func TestMouseInteractionAppliedAfterRender(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("main")}})
	h.program.mu.Lock()
	h.program.interaction = event.InteractionPointer
	h.program.mu.Unlock()

	info, native := h.only(t)
	if err := h.shell.Redraw(context.Background(), info.ID); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	info, _ = h.only(t)

	if got := native.Cursor(); got != event.InteractionPointer {
		t.Fatalf("native cursor = %v, want pointer", got)
	}
	if info.MouseInteraction != event.InteractionPointer {
		t.Fatalf("MouseInteraction = %v, want pointer", info.MouseInteraction)
	}
}

func TestNewWindowPlacedOnLastMonitor(t *testing.T) {
	left := platform.Monitor{ID: 0, Name: "left", Bounds: geom.Rect{Width: 1920, Height: 1080}, ScaleFactor: 1}
	left.Usable = left.Bounds
	right := platform.Monitor{ID: 1, Name: "right", Bounds: geom.Rect{X: 1920, Width: 1920, Height: 1080}, ScaleFactor: 1}
	right.Usable = right.Bounds

	first := defaultWindow("first")
	first.Monitor = &right
	h := start(t, platform.NewHeadless(left, right), Options{Windows: []Settings{first}})

	id, err := h.shell.Open(context.Background(), defaultWindow("second"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for _, info := range h.snapshot(t) {
		if info.ID != id {
			continue
		}
		if info.Position == nil || info.Position.X < 1920 {
			t.Fatalf("second window position = %v, want on the right monitor", info.Position)
		}
		return
	}
	t.Fatalf("window %d not in snapshot", id)
}

func TestSetBackgroundRepaintsEveryWindow(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("one"), defaultWindow("two")}})
	h.snapshot(t)
	if got := h.comp.Presents(); got != 2 {
		t.Fatalf("Presents() = %d after open, want 2", got)
	}

	if err := h.shell.SetBackground(context.Background(), color.White); err != nil {
		t.Fatalf("SetBackground() error = %v", err)
	}
	for _, info := range h.snapshot(t) {
		if info.RedrawPending {
			t.Fatalf("window %d still has a pending redraw", info.ID)
		}
	}
	if got := h.comp.Presents(); got != 4 {
		t.Fatalf("Presents() = %d after SetBackground, want 4", got)
	}
}

func TestCloseOnModifiersStopsDelivery(t *testing.T) {
	h := start(t, nil, Options{Windows: []Settings{defaultWindow("main")}})
	h.program.mu.Lock()
	h.program.onModifiers = ActionClose
	h.program.mu.Unlock()
	info, native := h.only(t)
	redraws := native.Redraws()

	h.backend.Inject(platform.Event{
		Window:    info.Handle,
		Kind:      platform.EventMotion,
		Position:  geom.PhysicalPosition{X: 20, Y: 10},
		Modifiers: conversion.NativeModifiers{Shift: true},
	})
	if infos := h.snapshot(t); len(infos) != 0 {
		t.Fatalf("Snapshot() returned %d windows, want 0", len(infos))
	}

	got := h.program.eventsFor(info.ID)
	if _, ok := got[len(got)-1].(event.Closed); !ok {
		t.Fatalf("last event = %#v, want Closed; events = %#v", got[len(got)-1], got)
	}
	for _, ev := range got {
		if _, ok := ev.(event.CursorMoved); ok {
			t.Fatal("CursorMoved delivered for a window closed by ModifiersChanged")
		}
	}
	if !native.Closed() {
		t.Fatal("native window not closed")
	}
	if native.Redraws() != redraws {
		t.Fatalf("native redraws = %d after close, want %d", native.Redraws(), redraws)
	}
}

func TestExitOnOpenedStopsShell(t *testing.T) {
	program := newRecorder()
	program.onOpened = ActionExit
	comp := compositor.NewMemory()
	sh := New(platform.NewHeadless(), comp, program, Options{
		Windows: []Settings{defaultWindow("main")},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	done := make(chan error, 1)
	go func() { done <- sh.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("shell kept running after the program exited on Opened")
	}
	if comp.LiveSurfaces() != 0 {
		t.Fatalf("LiveSurfaces() = %d after exit, want 0", comp.LiveSurfaces())
	}
}

func TestOpenReportsProgramAction(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{name: "close", action: ActionClose, want: ErrClosed},
		{name: "exit", action: ActionExit, want: ErrStopped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := start(t, nil, Options{})
			h.program.mu.Lock()
			h.program.onOpened = tt.action
			h.program.mu.Unlock()

			id, err := h.shell.Open(context.Background(), defaultWindow("main"))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Open() = (%d, %v), want error %v", id, err, tt.want)
			}
			if tt.action == ActionExit {
				h.waitStopped(t)
				return
			}
			if infos := h.snapshot(t); len(infos) != 0 {
				t.Fatalf("Snapshot() returned %d windows, want 0", len(infos))
			}
		})
	}
}

func TestCursorRestoredAfterLeavingResizeBorder(t *testing.T) {
	resizable := defaultWindow("main")
	resizable.Resizable = true
	h := start(t, nil, Options{ResizeBorder: 8, Windows: []Settings{resizable}})
	h.program.mu.Lock()
	h.program.interaction = event.InteractionCrosshair
	h.program.mu.Unlock()
	info, native := h.only(t)

	steps := []struct {
		pos  geom.PhysicalPosition
		want event.Interaction
	}{
		{pos: geom.PhysicalPosition{X: 100, Y: 50}, want: event.InteractionCrosshair},
		{pos: geom.PhysicalPosition{X: 199, Y: 50}, want: event.InteractionResizingHorizontally},
		{pos: geom.PhysicalPosition{X: 100, Y: 50}, want: event.InteractionCrosshair},
	}
	for i, step := range steps {
		h.backend.Inject(platform.Event{Window: info.Handle, Kind: platform.EventMotion, Position: step.pos})
		h.snapshot(t)
		if got := native.Cursor(); got != step.want {
			t.Fatalf("step %d: native cursor = %v, want %v", i, got, step.want)
		}
	}
}
