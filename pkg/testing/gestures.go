package testing

import (
	"fmt"

	"github.com/go-drift/headless/pkg/events"
)

// Tap moves the mouse over id, presses and releases it. A focusable target
// takes focus on press, as it would under a real pointer.
func (t *Tester) Tap(id events.ComponentID) error {
	if err := t.Press(id); err != nil {
		return err
	}
	return t.Release(id)
}

// Press moves the mouse over id and presses it without releasing.
func (t *Tester) Press(id events.ComponentID) error {
	if err := t.sendAll(
		events.PointerMove(id).WithPointer(MousePointer),
		events.PointerDown(id).WithPointer(MousePointer),
	); err != nil {
		return err
	}
	if t.focused != id && t.focusable(id) {
		return t.Focus(id, events.FocusPointer)
	}
	return nil
}

// Release releases the mouse over id.
func (t *Tester) Release(id events.ComponentID) error {
	return t.sendAll(events.PointerUp(id).WithPointer(MousePointer))
}

// ReleaseOutside releases the mouse after dragging off id.
func (t *Tester) ReleaseOutside(id events.ComponentID) error {
	return t.sendAll(events.PointerUpOutside(id).WithPointer(MousePointer))
}

// Cancel cancels the mouse press on id.
func (t *Tester) Cancel(id events.ComponentID) error {
	return t.sendAll(events.PointerCancel(id).WithPointer(MousePointer))
}

// Hover moves the mouse over id.
func (t *Tester) Hover(id events.ComponentID) error {
	return t.sendAll(events.PointerMove(id).WithPointer(MousePointer))
}

// Leave moves the mouse off id.
func (t *Tester) Leave(id events.ComponentID) error {
	return t.sendAll(events.PointerLeave(id).WithPointer(MousePointer))
}

// Focus moves focus to id, taking it from the current holder first.
func (t *Tester) Focus(id events.ComponentID, reason events.FocusReason) error {
	if t.focused == id {
		return nil
	}
	if t.focused != "" {
		if err := t.Blur(); err != nil {
			return err
		}
	}
	if _, err := t.Send(events.FocusGain(id, reason)); err != nil {
		return err
	}
	t.focused = id
	return nil
}

// Blur removes focus from the current holder.
func (t *Tester) Blur() error {
	if t.focused == "" {
		return nil
	}
	prev := t.focused
	t.focused = ""
	_, err := t.Send(events.FocusLoss(prev))
	return err
}

// Key sends a key press described by keystroke, such as "ctrl-a" or
// "shift-left", to the focused component. An unhandled Tab or Shift+Tab
// moves focus to the next or previous tab stop.
func (t *Tester) Key(keystroke string) error {
	if err := t.requireFocus("Key"); err != nil {
		return err
	}
	ks, err := events.ParseKeystroke(keystroke)
	if err != nil {
		return err
	}
	res, err := t.Send(ks.Event(t.focused))
	if err != nil {
		return err
	}
	if ks.Key == events.KeyTab && !res.Handled && ks.Modifiers&^events.ModShift == 0 {
		return t.Tab(ks.Modifiers&events.ModShift != 0)
	}
	return nil
}

// Type sends text to the focused component one code point at a time.
func (t *Tester) Type(text string) error {
	if err := t.requireFocus("Type"); err != nil {
		return err
	}
	for _, r := range text {
		if _, err := t.Send(events.Char(t.focused, string(r))); err != nil {
			return err
		}
	}
	return nil
}

// Tab moves keyboard focus to the next tab stop, or the previous one when
// backward is set.
func (t *Tester) Tab(backward bool) error {
	next, ok := t.engine.NextTabStop(t.focused, backward)
	if !ok {
		return fmt.Errorf("Tab: no focusable component")
	}
	return t.Focus(next, events.FocusKeyboard)
}
