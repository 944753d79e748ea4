package event

import "strings"

// Modifiers is a set of keyboard modifiers.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
	Logo
	CapsLock
)

// Has reports whether all bits of o are set in m.
func (m Modifiers) Has(o Modifiers) bool {
	return m&o == o
}

// String returns the set modifiers joined by '+', e.g. "Ctrl+Shift".
func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	if m.Has(Ctrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(Alt) {
		parts = append(parts, "Alt")
	}
	if m.Has(Logo) {
		parts = append(parts, "Logo")
	}
	if m.Has(Shift) {
		parts = append(parts, "Shift")
	}
	if m.Has(CapsLock) {
		parts = append(parts, "CapsLock")
	}
	return strings.Join(parts, "+")
}
