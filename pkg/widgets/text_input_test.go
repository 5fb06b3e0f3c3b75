package widgets

import (
	"testing"

	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
)

const field events.ComponentID = "field"

func newField(t *testing.T, cfg TextInputConfig) *TextInput {
	t.Helper()
	cfg.ID = field
	ti, err := NewTextInput(cfg)
	if err != nil {
		t.Fatalf("NewTextInput: %v", err)
	}
	send(t, ti, events.FocusGain(field, events.FocusKeyboard))
	return ti
}

func typeKeys(t *testing.T, ti *TextInput, keys ...string) {
	t.Helper()
	for _, k := range keys {
		send(t, ti, key(t, field, k))
	}
}

func assertValue(t *testing.T, ti *TextInput, text string, sel Selection) {
	t.Helper()
	if got := ti.Value(); got.Text != text || got.Selection != sel {
		t.Errorf("value = %q %v, want %q %v", got.Text, got.Selection, text, sel)
	}
}

func TestTextInput_TypingReplacesSelection(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "ab"})
	if err := ti.SetSelection(0, 2); err != nil {
		t.Fatal(err)
	}
	send(t, ti, events.Char(field, "x"))
	assertValue(t, ti, "x", Collapsed(1))
}

func TestTextInput_SpaceAndEnter(t *testing.T) {
	var submitted []string
	ti := newField(t, TextInputConfig{Value: "a", OnSubmitted: func(s string) { submitted = append(submitted, s) }})
	r := send(t, ti, key(t, field, "space"))
	if r.Activated {
		t.Error("Space must not activate a text input")
	}
	send(t, ti, key(t, field, "enter"))
	assertValue(t, ti, "a ", Collapsed(2))
	if len(submitted) != 1 || submitted[0] != "a " {
		t.Errorf("OnSubmitted calls = %q", submitted)
	}
}

func TestTextInput_BackspaceMultiByte(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "hé👋"})
	typeKeys(t, ti, "backspace")
	assertValue(t, ti, "hé", Collapsed(3))
	typeKeys(t, ti, "backspace")
	assertValue(t, ti, "h", Collapsed(1))
	typeKeys(t, ti, "left", "delete")
	assertValue(t, ti, "", Collapsed(0))
	typeKeys(t, ti, "backspace", "delete")
	assertValue(t, ti, "", Collapsed(0))
}

func TestTextInput_ArrowSelection(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "añb"})
	typeKeys(t, ti, "home", "right", "right")
	assertValue(t, ti, "añb", Collapsed(3))
	typeKeys(t, ti, "shift-left", "shift-left")
	assertValue(t, ti, "añb", Selection{0, 3})
	typeKeys(t, ti, "right")
	assertValue(t, ti, "añb", Collapsed(3))
	typeKeys(t, ti, "shift-end")
	assertValue(t, ti, "añb", Selection{3, 4})
	typeKeys(t, ti, "left")
	assertValue(t, ti, "añb", Collapsed(3))
	typeKeys(t, ti, "end", "right")
	assertValue(t, ti, "añb", Collapsed(4))
}

func TestTextInput_ReversedSelectionAnchor(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "abcd"})
	typeKeys(t, ti, "left", "left", "shift-right", "shift-left", "shift-left")
	// The anchor stays at 2 while the cursor crosses it.
	assertValue(t, ti, "abcd", Selection{1, 2})
}

func TestTextInput_WordNavigation(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "hello big world"})
	typeKeys(t, ti, "alt-left")
	assertValue(t, ti, "hello big world", Collapsed(10))
	typeKeys(t, ti, "alt-shift-left")
	assertValue(t, ti, "hello big world", Selection{6, 10})
	typeKeys(t, ti, "home", "alt-right")
	assertValue(t, ti, "hello big world", Collapsed(5))
	typeKeys(t, ti, "alt-delete")
	assertValue(t, ti, "hello world", Collapsed(5))
	typeKeys(t, ti, "end", "alt-backspace")
	assertValue(t, ti, "hello ", Collapsed(6))
	typeKeys(t, ti, "cmd-backspace")
	assertValue(t, ti, "", Collapsed(0))
}

func TestTextInput_SelectAllAndUndo(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "abc"})
	typeKeys(t, ti, "ctrl-a")
	assertValue(t, ti, "abc", Selection{0, 3})
	typeKeys(t, ti, "x", "y")
	assertValue(t, ti, "xy", Collapsed(2))

	typeKeys(t, ti, "ctrl-z")
	assertValue(t, ti, "abc", Selection{0, 3})
	typeKeys(t, ti, "ctrl-z")
	assertValue(t, ti, "abc", Selection{0, 3})
	typeKeys(t, ti, "ctrl-shift-z")
	assertValue(t, ti, "xy", Collapsed(2))
}

func TestTextInput_UndoStepsSplitOnMove(t *testing.T) {
	ti := newField(t, TextInputConfig{})
	typeKeys(t, ti, "a", "b", "left", "c")
	assertValue(t, ti, "acb", Collapsed(2))
	typeKeys(t, ti, "cmd-z")
	assertValue(t, ti, "ab", Collapsed(1))
	typeKeys(t, ti, "cmd-z")
	assertValue(t, ti, "", Collapsed(0))
	typeKeys(t, ti, "ctrl-y")
	assertValue(t, ti, "ab", Collapsed(2))
}

func TestTextInput_Clipboard(t *testing.T) {
	cb := &fakeClipboard{}
	ti := newField(t, TextInputConfig{Value: "copy me", Clipboard: cb})
	typeKeys(t, ti, "alt-shift-left", "ctrl-c")
	if cb.text != "me" {
		t.Errorf("clipboard = %q, want %q", cb.text, "me")
	}
	typeKeys(t, ti, "ctrl-x")
	assertValue(t, ti, "copy ", Collapsed(5))

	cb.text = "multi\nline"
	typeKeys(t, ti, "ctrl-v")
	assertValue(t, ti, "copy multi line", Collapsed(15))
}

func TestTextInput_ObscureDisablesCopy(t *testing.T) {
	cb := &fakeClipboard{}
	ti := newField(t, TextInputConfig{Value: "secret", Obscure: true, Clipboard: cb})
	typeKeys(t, ti, "ctrl-a", "ctrl-c", "ctrl-x")
	if cb.ok {
		t.Error("obscured text must not reach the clipboard")
	}
	assertValue(t, ti, "secret", Selection{0, 6})
	if got := ti.Snapshot().Semantics.Value; got != "••••••" {
		t.Errorf("announced value = %q", got)
	}
}

func TestTextInput_ReadOnly(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "fixed", ReadOnly: true})
	typeKeys(t, ti, "x", "backspace", "ctrl-a", "ctrl-x")
	assertValue(t, ti, "fixed", Selection{0, 5})
}

func TestTextInput_IgnoresKeysWithoutFocus(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "a"})
	send(t, ti, events.FocusLoss(field), events.Char(field, "b"))
	assertValue(t, ti, "a", Collapsed(1))
}

func TestTextInput_EditingComplete(t *testing.T) {
	var done []string
	ti := newField(t, TextInputConfig{OnEditingComplete: func(s string) { done = append(done, s) }})
	send(t, ti, events.FocusLoss(field))
	if len(done) != 0 {
		t.Fatal("unchanged text must not complete")
	}
	send(t, ti, events.FocusGain(field, events.FocusPointer), events.Char(field, "z"), events.FocusLoss(field))
	send(t, ti, events.FocusLoss(field))
	if len(done) != 1 || done[0] != "z" {
		t.Errorf("OnEditingComplete calls = %q", done)
	}
}

func TestTextInput_Normalize(t *testing.T) {
	ti := newField(t, TextInputConfig{Normalize: true})
	send(t, ti, events.Char(field, "e\u0301"))
	assertValue(t, ti, "\u00e9", Collapsed(2))
}

func TestTextInput_Controlled(t *testing.T) {
	var proposed []string
	ti := newField(t, TextInputConfig{Value: "ab", Controlled: true, OnChanged: func(s string) { proposed = append(proposed, s) }})

	send(t, ti, events.Char(field, "c"))
	assertValue(t, ti, "ab", Collapsed(2))
	if len(proposed) != 1 || proposed[0] != "abc" {
		t.Fatalf("proposed = %q", proposed)
	}

	if err := ti.Reconcile("abc", true); err != nil {
		t.Fatal(err)
	}
	assertValue(t, ti, "abc", Collapsed(3))

	// A host-side rewrite clamps the caret into the new text.
	if err := ti.Reconcile("x", true); err != nil {
		t.Fatal(err)
	}
	assertValue(t, ti, "x", Collapsed(1))
}

func TestTextInput_SetSelectionErrors(t *testing.T) {
	ti := newField(t, TextInputConfig{Value: "\u00e9"})
	tests := []struct {
		start, end int
		cause      error
	}{
		{0, 5, errors.ErrSelectionBounds},
		{-1, 0, errors.ErrSelectionBounds},
		{1, 2, errors.ErrSplitCodePoint},
	}
	for _, tt := range tests {
		err := ti.SetSelection(tt.start, tt.end)
		if errors.KindOf(err) != errors.KindInvalidSelection || !errors.Is(err, tt.cause) {
			t.Errorf("SetSelection(%d, %d) = %v, want %v", tt.start, tt.end, err, tt.cause)
		}
	}
	assertValue(t, ti, "\u00e9", Collapsed(2))

	if err := ti.SetSelection(2, 0); err != nil {
		t.Fatal(err)
	}
	typeKeys(t, ti, "shift-right")
	assertValue(t, ti, "\u00e9", Selection{2, 2})
}

func TestTextInput_SetValue(t *testing.T) {
	called := false
	ti := newField(t, TextInputConfig{Value: "a", OnChanged: func(string) { called = true }})
	typeKeys(t, ti, "b")
	called = false
	if err := ti.SetValue("new"); err != nil {
		t.Fatal(err)
	}
	assertValue(t, ti, "new", Collapsed(3))
	if called || ti.History().CanUndo() {
		t.Errorf("SetValue: called=%v canUndo=%v", called, ti.History().CanUndo())
	}
	if err := ti.SetValue("\xff"); !errors.Is(err, errors.ErrInvalidText) {
		t.Errorf("SetValue(invalid) error = %v", err)
	}
}

func TestTextInput_DropsControlCharacters(t *testing.T) {
	cb := &fakeClipboard{text: "x\ty", ok: true}
	ti := newField(t, TextInputConfig{Value: "ab", Clipboard: cb})
	for _, text := range []string{"\n", "\x00", "\t"} {
		send(t, ti, events.Char(field, text))
	}
	assertValue(t, ti, "ab", Collapsed(2))

	typeKeys(t, ti, "ctrl-v")
	assertValue(t, ti, "abxy", Collapsed(4))
}

func TestTextInput_PanickingCallbackLeavesNoTrace(t *testing.T) {
	fail := false
	ti := newField(t, TextInputConfig{Value: "ab", OnChanged: func(string) {
		if fail {
			panic("boom")
		}
	}})
	typeKeys(t, ti, "c")

	fail = true
	mustPanic(t, func() { _, _ = ti.Handle(events.Char(field, "d")) })
	assertValue(t, ti, "abc", Collapsed(3))

	fail = false
	typeKeys(t, ti, "ctrl-z")
	assertValue(t, ti, "ab", Selection{Start: 2, End: 2})
}
