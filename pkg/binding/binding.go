// Package binding reconciles host-owned ("controlled") values with
// component-owned ("uncontrolled") values.
//
// A controlled binding never changes its own value in response to user
// input: it forwards the proposed value to the host's callback and waits for
// the host to feed a value back through Reconcile or Set. An uncontrolled
// binding applies the proposal immediately and still reports it.
//
// The mode is chosen at construction and fixed for the binding's lifetime.
package binding

import (
	"github.com/go-drift/headless/pkg/errors"
)

// Mode is the ownership mode of a binding.
type Mode int

const (
	// Uncontrolled bindings own their value.
	Uncontrolled Mode = iota
	// Controlled bindings mirror a value owned by the host.
	Controlled
)

func (m Mode) String() string {
	if m == Controlled {
		return "controlled"
	}
	return "uncontrolled"
}

// Binding holds a value of type T in a fixed mode.
type Binding[T comparable] struct {
	component string
	mode      Mode
	value     T
	onChange  func(T)
}

// New creates a binding. When controlled is true, value is the host's
// current value; otherwise it is the initial default.
func New[T comparable](component string, value T, controlled bool, onChange func(T)) *Binding[T] {
	mode := Uncontrolled
	if controlled {
		mode = Controlled
	}
	return &Binding[T]{component: component, mode: mode, value: value, onChange: onChange}
}

// Mode returns the binding's mode.
func (b *Binding[T]) Mode() Mode {
	return b.mode
}

// Controlled reports whether the host owns the value.
func (b *Binding[T]) Controlled() bool {
	return b.mode == Controlled
}

// Value returns the current value.
func (b *Binding[T]) Value() T {
	return b.value
}

// Propose records a user-driven change. It invokes the change callback
// exactly once when v differs from the current value and reports whether it
// did. Only uncontrolled bindings adopt v, and they drop it again if the
// callback panics.
func (b *Binding[T]) Propose(v T) bool {
	if v == b.value {
		return false
	}
	prev := b.value
	if b.mode == Uncontrolled {
		b.value = v
	}
	if b.onChange != nil {
		done := false
		defer func() {
			if !done {
				b.value = prev
			}
		}()
		b.onChange(v)
		done = true
	}
	return true
}

// Checkpoint returns a function that restores the current value.
func (b *Binding[T]) Checkpoint() (restore func()) {
	v := b.value
	return func() { b.value = v }
}

// Set applies an externally supplied value without invoking the callback.
func (b *Binding[T]) Set(v T) {
	b.value = v
}

// Reconcile is called by the host on every render with the value it
// supplies and whether it supplies one at all. A controlled binding adopts
// v; an uncontrolled binding ignores it. Changing mode is rejected with an
// InvalidTransition error, which is also reported to the error handler.
func (b *Binding[T]) Reconcile(v T, controlled bool) error {
	want := Uncontrolled
	if controlled {
		want = Controlled
	}
	if want != b.mode {
		return errors.At("binding.Reconcile", b.component).Reject(errors.KindInvalidTransition, errors.ErrModeSwitch)
	}
	if b.mode == Controlled {
		b.value = v
	}
	return nil
}
