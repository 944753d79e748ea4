// Package window tracks the application's open windows and the platform
// windows backing them.
package window

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/1broseidon/winshell/internal/compositor"
	"github.com/1broseidon/winshell/internal/dragresize"
	"github.com/1broseidon/winshell/internal/event"
	"github.com/1broseidon/winshell/internal/platform"
)

// Manager maps application window IDs to their entries, and platform
// handles back to IDs. Both indices change together. A Manager is not safe
// for concurrent use.
type Manager struct {
	aliases map[platform.WindowID]ID
	entries map[ID]*Window
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		aliases: make(map[platform.WindowID]ID),
		entries: make(map[ID]*Window),
	}
}

// Insert registers native as window id, creating its surface and renderer.
// An existing entry for id, or for native's handle, is replaced and its
// resources released. resizeBorder is in logical pixels.
func (m *Manager) Insert(
	id ID,
	native platform.NativeWindow,
	program Program,
	comp compositor.Compositor,
	exitOnCloseRequest bool,
	resizeBorder uint32,
) *Window {
	if old, ok := m.Remove(id); ok {
		old.Release()
	}
	if prev, ok := m.aliases[native.ID()]; ok {
		if old, ok := m.Remove(prev); ok {
			old.Release()
		}
	}

	state := NewState(program, id, native)
	size := state.PhysicalSize()

	w := &Window{
		Native:             native,
		State:              state,
		ViewportVersion:    state.ViewportVersion(),
		ExitOnCloseRequest: exitOnCloseRequest,
		MouseInteraction:   event.InteractionNone,
		Surface:            comp.CreateSurface(native, size.Width, size.Height),
		Renderer:           comp.CreateRenderer(),
	}
	// Leaving the resize border resets the native cursor, so the cached
	// interaction no longer matches it.
	w.DragResize = dragresize.New(native, float64(resizeBorder)*native.ScaleFactor(), func() {
		w.MouseInteraction = event.InteractionNone
	})

	m.aliases[native.ID()] = id
	m.entries[id] = w
	return w
}

// Get returns the entry for id.
func (m *Manager) Get(id ID) (*Window, bool) {
	w, ok := m.entries[id]
	return w, ok
}

// GetAlias resolves a platform handle to its ID and entry.
func (m *Manager) GetAlias(handle platform.WindowID) (ID, *Window, bool) {
	id, ok := m.aliases[handle]
	if !ok {
		return 0, nil, false
	}
	w, ok := m.entries[id]
	if !ok {
		return 0, nil, false
	}
	return id, w, true
}

// Remove unregisters id and hands its entry back to the caller, who is
// responsible for releasing it.
func (m *Manager) Remove(id ID) (*Window, bool) {
	w, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	delete(m.entries, id)
	delete(m.aliases, w.Native.ID())
	return w, true
}

// IDs returns the managed IDs in ascending order.
func (m *Manager) IDs() []ID {
	return slices.Sorted(maps.Keys(m.entries))
}

// All iterates the entries in ascending ID order. Entries may be modified
// while iterating, but not added or removed.
func (m *Manager) All() iter.Seq2[ID, *Window] {
	return func(yield func(ID, *Window) bool) {
		for _, id := range m.IDs() {
			w, ok := m.entries[id]
			if !ok {
				continue
			}
			if !yield(id, w) {
				return
			}
		}
	}
}

// First returns the entry with the smallest ID.
func (m *Manager) First() (*Window, bool) {
	if len(m.entries) == 0 {
		return nil, false
	}
	return m.entries[slices.Min(slices.Collect(maps.Keys(m.entries)))], true
}

func (m *Manager) IsEmpty() bool { return len(m.entries) == 0 }

func (m *Manager) Len() int { return len(m.entries) }

// LastMonitor returns the monitor of the window with the greatest ID.
func (m *Manager) LastMonitor() (platform.Monitor, bool) {
	if len(m.entries) == 0 {
		return platform.Monitor{}, false
	}
	last := slices.Max(slices.Collect(maps.Keys(m.entries)))
	return m.entries[last].Native.CurrentMonitor()
}

// Check verifies that both indices describe the same set of windows.
func (m *Manager) Check() error {
	if len(m.aliases) != len(m.entries) {
		return fmt.Errorf("window index mismatch: %d entries, %d aliases", len(m.entries), len(m.aliases))
	}
	for handle, id := range m.aliases {
		w, ok := m.entries[id]
		if !ok {
			return fmt.Errorf("alias %d points at missing window %d", handle, id)
		}
		if got := w.Native.ID(); got != handle {
			return fmt.Errorf("alias %d points at window %d backed by %d", handle, id, got)
		}
	}
	return nil
}
