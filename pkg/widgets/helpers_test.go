package widgets

import (
	"testing"

	"github.com/go-drift/headless/pkg/events"
)

// send applies events in order and fails the test on the first error.
func send(t *testing.T, w Widget, evs ...events.Event) Result {
	t.Helper()
	var last Result
	for _, ev := range evs {
		r, err := w.Handle(ev)
		if err != nil {
			t.Fatalf("Handle(%v): %v", ev, err)
		}
		last = r
	}
	return last
}

// mustPanic runs fn and fails the test unless it panics.
func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	fn()
}

func tap(id events.ComponentID) []events.Event {
	return []events.Event{events.PointerEnter(id), events.PointerDown(id), events.PointerUp(id)}
}

func key(t *testing.T, id events.ComponentID, keystroke string) events.Event {
	t.Helper()
	ks, err := events.ParseKeystroke(keystroke)
	if err != nil {
		t.Fatalf("ParseKeystroke(%q): %v", keystroke, err)
	}
	return ks.Event(id)
}

type fakeClipboard struct {
	text string
	ok   bool
}

func (c *fakeClipboard) ReadText() (string, bool) { return c.text, c.ok }

func (c *fakeClipboard) WriteText(text string) {
	c.text = text
	c.ok = true
}
