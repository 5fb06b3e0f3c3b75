// Package interaction implements the generic interaction state machine shared
// by every headless widget: hover, press, focus and disabled tracking, and the
// activation signal produced by a completed press or an equivalent key.
//
// A Machine is a small value type. Widgets embed one per interactive target
// and copy it before a transition so that a failed widget-level step can
// restore it.
package interaction

import "github.com/go-drift/headless/pkg/events"

// State is the renderer-visible interaction state of one target.
type State struct {
	Hovered      bool `json:"hovered"`
	Pressed      bool `json:"pressed"`
	Focused      bool `json:"focused"`
	FocusVisible bool `json:"focusVisible"`
	Disabled     bool `json:"disabled"`
}

// Outcome reports what a single transition did.
type Outcome struct {
	// Changed is true when any State field changed.
	Changed bool `json:"changed"`
	// Activated is true when the event completed an activation.
	Activated bool `json:"activated"`
	// PreventDefault asks the host to suppress its default handling of the
	// event (page scrolling on Space).
	PreventDefault bool `json:"preventDefault"`
	// Handled is true when the machine consumed the event.
	Handled bool `json:"handled"`
}

// Merge combines two outcomes of the same event.
func (o Outcome) Merge(other Outcome) Outcome {
	return Outcome{
		Changed:        o.Changed || other.Changed,
		Activated:      o.Activated || other.Activated,
		PreventDefault: o.PreventDefault || other.PreventDefault,
		Handled:        o.Handled || other.Handled,
	}
}

// Machine is the transition function over State.
//
// Multiple pointers: the first pointer to go down owns the press. Downs from
// other pointers are ignored while it is held, as are their ups and cancels.
type Machine struct {
	state State
	owner events.PointerID
	// KeyboardActivation enables Enter/Space activation. Widgets that use
	// those keys for other purposes, like text input, turn it off.
	KeyboardActivation bool
}

// NewMachine returns a machine with keyboard activation enabled.
func NewMachine(disabled bool) Machine {
	return Machine{state: State{Disabled: disabled}, KeyboardActivation: true}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Handle applies ev to the machine. Events addressed to other components
// must not be passed in; the engine routes by target.
func (m *Machine) Handle(ev events.Event) Outcome {
	before := m.state
	var out Outcome

	switch ev.Kind {
	case events.KindPointerDown:
		out = m.pointerDown(ev)
	case events.KindPointerUp:
		out = m.pointerUp(ev)
	case events.KindPointerCancel:
		if m.state.Pressed && ev.Pointer == m.owner {
			m.state.Pressed = false
			out.Handled = true
		}
	case events.KindPointerEnter, events.KindPointerMove:
		if !ev.OutOfBounds {
			m.state.Hovered = true
		}
	case events.KindPointerLeave:
		m.state.Hovered = false
	case events.KindFocusGain:
		m.state.Focused = true
		m.state.FocusVisible = ev.Reason != events.FocusPointer
		out.Handled = true
	case events.KindFocusLoss:
		m.state.Focused = false
		m.state.FocusVisible = false
		out.Handled = true
	case events.KindKeyDown:
		out = m.keyDown(ev)
	}

	out.Changed = m.state != before
	return out
}

func (m *Machine) pointerDown(ev events.Event) Outcome {
	if m.state.Disabled || ev.OutOfBounds || ev.Button != events.ButtonPrimary {
		return Outcome{}
	}
	if m.state.Pressed {
		// First pointer wins.
		return Outcome{}
	}
	m.state.Pressed = true
	m.state.Hovered = true
	m.owner = ev.Pointer
	return Outcome{Handled: true}
}

func (m *Machine) pointerUp(ev events.Event) Outcome {
	if !m.state.Pressed || ev.Pointer != m.owner {
		return Outcome{}
	}
	m.state.Pressed = false
	if ev.OutOfBounds {
		m.state.Hovered = false
		return Outcome{Handled: true}
	}
	return Outcome{Handled: true, Activated: m.state.Hovered && !m.state.Disabled}
}

func (m *Machine) keyDown(ev events.Event) Outcome {
	if !m.KeyboardActivation || !m.state.Focused || m.state.Disabled || ev.Modifiers != 0 {
		return Outcome{}
	}
	switch {
	case ev.Key == events.KeyEnter:
		return Outcome{Handled: true, Activated: true}
	case ev.IsSpace():
		return Outcome{Handled: true, Activated: true, PreventDefault: true}
	}
	return Outcome{}
}

// SetDisabled applies a programmatic disabled change. Disabling clears the
// press and suppresses activation; focus is kept.
func (m *Machine) SetDisabled(disabled bool) Outcome {
	before := m.state
	m.state.Disabled = disabled
	if disabled {
		m.state.Pressed = false
	}
	return Outcome{Changed: m.state != before, Handled: true}
}

// PressedBy reports whether pointer p currently holds the press.
func (m *Machine) PressedBy(p events.PointerID) bool {
	return m.state.Pressed && m.owner == p
}
