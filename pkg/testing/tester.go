package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-drift/headless/pkg/config"
	"github.com/go-drift/headless/pkg/engine"
	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/widgets"
)

// MousePointer is the pointer used by Tap, Press and Hover.
const MousePointer events.PointerID = 0

// Tester drives an engine the way a host would.
type Tester struct {
	engine    *engine.Engine
	focused   events.ComponentID
	last      widgets.Result
	errs      *recorder
	clipboard *MemoryClipboard
}

// NewTester creates a tester around a fresh engine with default
// configuration.
func NewTester() *Tester {
	return &Tester{engine: engine.New(), clipboard: &MemoryClipboard{}}
}

// NewTesterWithConfig creates a tester whose engine uses cfg.
func NewTesterWithConfig(cfg *config.Resolved) *Tester {
	return &Tester{engine: engine.NewFromConfig(cfg), clipboard: &MemoryClipboard{}}
}

// NewTesterWithT creates a tester that records reported errors instead of
// logging them, and restores the default handler via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester()
	tester.errs = &recorder{}
	errors.SetHandler(tester.errs)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return tester
}

// Engine returns the underlying engine.
func (t *Tester) Engine() *engine.Engine {
	return t.engine
}

// Mount mounts widgets in order.
func (t *Tester) Mount(ws ...widgets.Widget) error {
	for _, w := range ws {
		if err := t.engine.Mount(w); err != nil {
			return err
		}
	}
	return nil
}

// Focused returns the component holding focus, or "".
func (t *Tester) Focused() events.ComponentID {
	return t.focused
}

// LastResult returns the result of the most recent event.
func (t *Tester) LastResult() widgets.Result {
	return t.last
}

// Snapshot returns the snapshot of the widget owning id.
func (t *Tester) Snapshot(id events.ComponentID) (widgets.Snapshot, error) {
	return t.engine.Snapshot(id)
}

// Reported returns the errors and panics reported to the global handler
// since the tester was created with NewTesterWithT.
func (t *Tester) Reported() []error {
	if t.errs == nil {
		return nil
	}
	return t.errs.all()
}

// Send dispatches ev and follows any focus change the widget requests.
func (t *Tester) Send(ev events.Event) (widgets.Result, error) {
	res, err := t.engine.Dispatch(ev)
	if err != nil {
		return res, err
	}
	t.last = res
	if res.FocusTarget != "" {
		t.focused = res.FocusTarget
	}
	return res, nil
}

func (t *Tester) sendAll(evs ...events.Event) error {
	for _, ev := range evs {
		if _, err := t.Send(ev); err != nil {
			return err
		}
	}
	return nil
}

// focusable reports whether id can take focus: an enabled interactive
// widget or an enabled tab.
func (t *Tester) focusable(id events.ComponentID) bool {
	snap, err := t.engine.Snapshot(id)
	if err != nil {
		return false
	}
	if snap.ID == id {
		return snap.Semantics.Focusable
	}
	for _, tab := range snap.Tabs {
		if tab.ID == id {
			return tab.Semantics.Focusable
		}
	}
	return false
}

func (t *Tester) requireFocus(op string) error {
	if t.focused == "" {
		return fmt.Errorf("%s: no component has focus", op)
	}
	return nil
}

// Clipboard returns the in-memory clipboard shared by widgets mounted
// from scenarios.
func (t *Tester) Clipboard() *MemoryClipboard {
	return t.clipboard
}

// MemoryClipboard is a widgets.Clipboard backed by a string.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	set  bool
}

// ReadText returns the clipboard text and whether any was written.
func (c *MemoryClipboard) ReadText() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.set
}

// WriteText replaces the clipboard text.
func (c *MemoryClipboard) WriteText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text, c.set = text, true
}

// recorder is an errors.ErrorHandler that keeps everything reported.
type recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *recorder) HandleError(err *errors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) all() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}
