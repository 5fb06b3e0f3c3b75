// Package errors provides structured error handling for headless components.
//
// Every failure returned by the core is an *Error carrying an ErrorKind from
// a small taxonomy, so hosts can branch on the category without string
// matching:
//
//	if errors.KindOf(err) == errors.KindInvalidTab {
//	    // ignore stale tab ids
//	}
//
// The specific cause is a sentinel reachable through Unwrap, so the standard
// library's errors.Is works as well.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvalidTransition indicates a transition the state machine refuses,
	// such as re-entrant mutation or switching a binding's mode.
	KindInvalidTransition
	// KindInvalidTab indicates a tab id that is not part of the tab sequence.
	KindInvalidTab
	// KindInvalidSelection indicates text selection bounds outside the text or
	// splitting a code point.
	KindInvalidSelection
	// KindConfiguration indicates an invalid component configuration.
	KindConfiguration
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTransition:
		return "invalid-transition"
	case KindInvalidTab:
		return "invalid-tab"
	case KindInvalidSelection:
		return "invalid-selection"
	case KindConfiguration:
		return "configuration"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel causes wrapped by *Error.
var (
	ErrReentrant       = stderrors.New("re-entrant mutation of component state")
	ErrModeSwitch      = stderrors.New("value binding mode cannot change after mount")
	ErrNotMounted      = stderrors.New("component is not mounted")
	ErrDuplicateID     = stderrors.New("duplicate component id")
	ErrUnknownTab      = stderrors.New("tab id not in sequence")
	ErrEmptyTabs       = stderrors.New("tab sequence must not be empty")
	ErrNotTabs         = stderrors.New("component is not a tab list")
	ErrSelectionBounds = stderrors.New("selection outside text bounds")
	ErrSplitCodePoint  = stderrors.New("selection splits a code point")
	ErrInvertedRange   = stderrors.New("range start exceeds end")
	ErrInvalidNumber   = stderrors.New("value is not a finite number")
	ErrInvalidText     = stderrors.New("text is not valid UTF-8")
)

// Error represents a structured failure reported by a component or the engine.
type Error struct {
	// Op is the operation that failed (e.g., "widgets.Tabs.Select").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Component is the id of the component involved, if any.
	Component string
	// Err is the underlying cause.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.Dispatch").
	Op string
	// Component is the id of the component being handled, if any.
	Component string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	switch {
	case e.Op != "" && e.Component != "":
		return fmt.Sprintf("panic in %s component=%s: %v", e.Op, e.Component, e.Value)
	case e.Op != "":
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// New builds an *Error of the given kind.
func New(op string, kind ErrorKind, component string, cause error) *Error {
	return &Error{Op: op, Kind: kind, Component: component, Err: cause}
}

// InvalidTransition builds a KindInvalidTransition error.
func InvalidTransition(op, component string, cause error) *Error {
	return New(op, KindInvalidTransition, component, cause)
}

// InvalidTab builds a KindInvalidTab error naming the offending tab.
func InvalidTab(op, component, tab string) *Error {
	return New(op, KindInvalidTab, component, fmt.Errorf("%w: %q", ErrUnknownTab, tab))
}

// InvalidSelection builds a KindInvalidSelection error.
func InvalidSelection(op, component string, cause error) *Error {
	return New(op, KindInvalidSelection, component, cause)
}

// Configuration builds a KindConfiguration error.
func Configuration(op, component string, cause error) *Error {
	return New(op, KindConfiguration, component, cause)
}

// KindOf returns the kind of the first *Error or *PanicError in err's chain,
// or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	var p *PanicError
	if stderrors.As(err, &p) {
		return KindPanic
	}
	return KindUnknown
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// ErrorHandler receives errors reported by the core.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
