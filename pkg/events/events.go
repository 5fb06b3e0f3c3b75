// Package events defines the normalized, framework-independent input events
// that a host feeds into headless components.
//
// A host translates whatever its GUI framework delivers (mouse, touch, key,
// focus callbacks) into Event values and passes them to the engine in the
// order it observed them. This package holds no state.
package events

import (
	"fmt"

	"github.com/google/uuid"
)

// ComponentID identifies a mounted component instance. It is opaque to the
// core and must stay stable for the lifetime of the mount.
type ComponentID string

// NewComponentID returns a fresh random id for hosts that do not assign
// their own.
func NewComponentID() ComponentID {
	return ComponentID(uuid.NewString())
}

// PointerID identifies a pointer device (mouse, a touch contact, a pen).
type PointerID int64

// Kind is the type of an event.
type Kind int

const (
	KindPointerDown Kind = iota
	KindPointerUp
	KindPointerMove
	KindPointerCancel
	KindPointerEnter
	KindPointerLeave
	KindKeyDown
	KindKeyUp
	KindFocusGain
	KindFocusLoss
)

var kindNames = [...]string{
	KindPointerDown:   "pointer-down",
	KindPointerUp:     "pointer-up",
	KindPointerMove:   "pointer-move",
	KindPointerCancel: "pointer-cancel",
	KindPointerEnter:  "pointer-enter",
	KindPointerLeave:  "pointer-leave",
	KindKeyDown:       "key-down",
	KindKeyUp:         "key-up",
	KindFocusGain:     "focus-gain",
	KindFocusLoss:     "focus-loss",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPointer reports whether k is one of the pointer kinds.
func (k Kind) IsPointer() bool {
	return k >= KindPointerDown && k <= KindPointerLeave
}

// IsKey reports whether k is a key kind.
func (k Kind) IsKey() bool {
	return k == KindKeyDown || k == KindKeyUp
}

// IsFocus reports whether k is a focus kind.
func (k Kind) IsFocus() bool {
	return k == KindFocusGain || k == KindFocusLoss
}

// Button is the pointer button that produced a pointer event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// FocusReason records what caused a focus change.
type FocusReason int

const (
	// FocusPointer means focus moved because the user pressed a pointer.
	FocusPointer FocusReason = iota
	// FocusKeyboard means focus moved through keyboard traversal.
	FocusKeyboard
	// FocusProgrammatic means the application moved focus.
	FocusProgrammatic
)

func (r FocusReason) String() string {
	switch r {
	case FocusPointer:
		return "pointer"
	case FocusKeyboard:
		return "keyboard"
	case FocusProgrammatic:
		return "programmatic"
	default:
		return fmt.Sprintf("FocusReason(%d)", int(r))
	}
}

// Event is a single normalized input event.
//
// Only the fields relevant to Kind are meaningful: pointer events use
// Pointer, Button and OutOfBounds; key events use Key, Text and Modifiers;
// focus events use Reason.
type Event struct {
	Kind   Kind
	Target ComponentID

	Pointer PointerID
	Button  Button
	// OutOfBounds marks a pointer event whose position lies outside the
	// target's bounds, such as a release after dragging off the widget.
	OutOfBounds bool

	Key Key
	// Text is the printable text produced by a KeyCharacter event.
	Text      string
	Modifiers Modifiers

	Reason FocusReason
}

func (e Event) String() string {
	switch {
	case e.Kind.IsPointer():
		return fmt.Sprintf("%s(%s, pointer=%d)", e.Kind, e.Target, e.Pointer)
	case e.Kind.IsKey():
		if e.Key == KeyCharacter {
			return fmt.Sprintf("%s(%s, %q%s)", e.Kind, e.Target, e.Text, e.Modifiers.suffix())
		}
		return fmt.Sprintf("%s(%s, %s%s)", e.Kind, e.Target, e.Key, e.Modifiers.suffix())
	default:
		return fmt.Sprintf("%s(%s, %s)", e.Kind, e.Target, e.Reason)
	}
}

// PointerDown returns a primary-button pointer-down from pointer 0.
func PointerDown(target ComponentID) Event {
	return Event{Kind: KindPointerDown, Target: target}
}

// PointerUp returns a primary-button pointer-up inside the target's bounds.
func PointerUp(target ComponentID) Event {
	return Event{Kind: KindPointerUp, Target: target}
}

// PointerUpOutside returns a pointer-up released outside the target's bounds.
func PointerUpOutside(target ComponentID) Event {
	return Event{Kind: KindPointerUp, Target: target, OutOfBounds: true}
}

// PointerMove returns a pointer-move over target.
func PointerMove(target ComponentID) Event {
	return Event{Kind: KindPointerMove, Target: target}
}

// PointerCancel returns a pointer-cancel for target.
func PointerCancel(target ComponentID) Event {
	return Event{Kind: KindPointerCancel, Target: target}
}

// PointerEnter returns a pointer-enter for target.
func PointerEnter(target ComponentID) Event {
	return Event{Kind: KindPointerEnter, Target: target}
}

// PointerLeave returns a pointer-leave for target.
func PointerLeave(target ComponentID) Event {
	return Event{Kind: KindPointerLeave, Target: target}
}

// WithPointer returns a copy of e attributed to pointer p.
func (e Event) WithPointer(p PointerID) Event {
	e.Pointer = p
	return e
}

// KeyDown returns a key-down for a named key.
func KeyDown(target ComponentID, key Key, mods Modifiers) Event {
	return Event{Kind: KindKeyDown, Target: target, Key: key, Modifiers: mods}
}

// KeyUp returns a key-up for a named key.
func KeyUp(target ComponentID, key Key, mods Modifiers) Event {
	return Event{Kind: KindKeyUp, Target: target, Key: key, Modifiers: mods}
}

// Char returns a key-down producing printable text.
func Char(target ComponentID, text string) Event {
	return Event{Kind: KindKeyDown, Target: target, Key: KeyCharacter, Text: text}
}

// FocusGain returns a focus-gain event.
func FocusGain(target ComponentID, reason FocusReason) Event {
	return Event{Kind: KindFocusGain, Target: target, Reason: reason}
}

// FocusLoss returns a focus-loss event.
func FocusLoss(target ComponentID) Event {
	return Event{Kind: KindFocusLoss, Target: target}
}
