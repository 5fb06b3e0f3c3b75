package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// slot boxes the installed handler for atomic.Pointer.
type slot struct{ h ErrorHandler }

var (
	installed      atomic.Pointer[slot]
	defaultHandler ErrorHandler = &LogHandler{}
)

// Handler returns the process-wide handler: the last one passed to
// SetHandler, or a non-verbose LogHandler writing to stderr.
func Handler() ErrorHandler {
	if s := installed.Load(); s != nil {
		return s.h
	}
	return defaultHandler
}

// SetHandler installs h and returns the handler it replaces, so a test can
// write defer errors.SetHandler(errors.SetHandler(h)). Nil restores the
// default.
func SetHandler(h ErrorHandler) (previous ErrorHandler) {
	var next *slot
	if h != nil {
		next = &slot{h: h}
	}
	if old := installed.Swap(next); old != nil {
		return old.h
	}
	return defaultHandler
}

// Report timestamps err and hands it to the handler.
func Report(err *Error) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleError(err)
}

// ReportPanic timestamps err and hands it to the handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandlePanic(err)
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Scope attributes errors and recovered panics to one operation on one
// component.
type Scope struct {
	Op        string
	Component string
}

// At returns the scope of op on component. component may be empty.
func At(op, component string) Scope {
	return Scope{Op: op, Component: component}
}

// Reject builds an error of the given kind, reports it and returns it, for
// failures the host must hear about even if the caller drops the error.
func (s Scope) Reject(kind ErrorKind, cause error) *Error {
	err := New(s.Op, kind, s.Component, cause)
	Report(err)
	return err
}

// Recover reports a panic in progress and passes it to onPanic. It only
// works when deferred directly:
//
//	defer errors.At("Engine.Dispatch", id).Recover(func(p *errors.PanicError) { ... })
func (s Scope) Recover(onPanic func(*PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	p := &PanicError{Op: s.Op, Component: s.Component, Value: r, StackTrace: captureStack(3)}
	ReportPanic(p)
	if onPanic != nil {
		onPanic(p)
	}
}

// CaptureStack returns the caller's stack, one "function file:line" entry
// per line.
func CaptureStack() string {
	return captureStack(3)
}

// captureStack skips skip frames, counting runtime.Callers itself.
func captureStack(skip int) string {
	pcs := make([]uintptr, 32)
	pcs = pcs[:runtime.Callers(skip, pcs)]
	if len(pcs) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s %s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return b.String()
		}
	}
}
