package widgets

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/go-drift/headless/pkg/binding"
	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/interaction"
	"github.com/go-drift/headless/pkg/semantics"
)

// Selection is a byte range [Start, End] of the text, Start <= End. A
// collapsed selection (Start == End) is the caret.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Collapsed returns a caret at offset.
func Collapsed(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// IsCollapsed reports whether the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return s.Start == s.End
}

func (s Selection) String() string {
	return fmt.Sprintf("(%d,%d)", s.Start, s.End)
}

// TextValue is the value of a TextInput.
type TextValue struct {
	Text      string    `json:"text"`
	Selection Selection `json:"selection"`
}

// Clipboard gives a TextInput access to the host clipboard.
type Clipboard interface {
	ReadText() (string, bool)
	WriteText(text string)
}

// DefaultMask is the character shown for each code point of obscured text.
const DefaultMask = "•"

// TextInputConfig configures a TextInput.
type TextInputConfig struct {
	ID       events.ComponentID
	Label    string
	Disabled bool
	// Value is the initial text, or the host's text when Controlled.
	Value      string
	Controlled bool
	// ReadOnly allows focus, navigation and copy but no edits.
	ReadOnly bool
	// Obscure hides the text (password fields). Copy and cut are disabled.
	Obscure bool
	// Mask replaces each code point of obscured text. Defaults to DefaultMask.
	Mask string
	// Normalize converts inserted text to Unicode NFC.
	Normalize bool
	// HistorySize bounds the undo stack. Defaults to DefaultHistorySize.
	HistorySize int
	// Clipboard enables copy, cut and paste.
	Clipboard Clipboard
	// OnChanged receives every user-driven text change.
	OnChanged func(string)
	// OnSubmitted is called with the text when Enter is pressed.
	OnSubmitted func(string)
	// OnEditingComplete is called on focus loss when the text differs from
	// the text at the previous call.
	OnEditingComplete func(string)
}

type pendingEdit struct {
	text string
	sel  Selection
}

// TextInput is a single-line text field. It tracks text, a selection in
// byte offsets that never split a code point, and an undo history.
//
// Space and Enter do not activate a text input: Space inserts a space and
// Enter submits.
type TextInput struct {
	core
	text      *binding.Binding[string]
	sel       Selection
	reversed  bool
	history   *History
	pending   *pendingEdit
	committed string

	readOnly  bool
	obscure   bool
	mask      string
	normalize bool
	clipboard Clipboard

	onSubmitted       func(string)
	onEditingComplete func(string)
}

// NewTextInput creates a text input with the caret at the end of the text.
func NewTextInput(cfg TextInputConfig) (*TextInput, error) {
	t := &TextInput{
		core:              newCore(cfg.ID, cfg.Label, cfg.Disabled),
		history:           NewHistory(cfg.HistorySize),
		readOnly:          cfg.ReadOnly,
		obscure:           cfg.Obscure,
		mask:              cfg.Mask,
		normalize:         cfg.Normalize,
		clipboard:         cfg.Clipboard,
		onSubmitted:       cfg.OnSubmitted,
		onEditingComplete: cfg.OnEditingComplete,
	}
	t.machine.KeyboardActivation = false
	if t.mask == "" {
		t.mask = DefaultMask
	}
	if !utf8.ValidString(cfg.Value) {
		return nil, errors.Configuration("NewTextInput", string(t.id), errors.ErrInvalidText)
	}
	t.text = binding.New(string(t.id), cfg.Value, cfg.Controlled, cfg.OnChanged)
	t.sel = Collapsed(len(cfg.Value))
	t.committed = cfg.Value
	t.save = t.checkpoint
	return t, nil
}

// checkpoint captures text, selection, pending edit and history.
func (t *TextInput) checkpoint() func() {
	restoreText := t.text.Checkpoint()
	restoreHistory := t.history.checkpoint()
	sel, reversed, pending, committed := t.sel, t.reversed, t.pending, t.committed
	readOnly, obscure := t.readOnly, t.obscure
	return func() {
		restoreText()
		restoreHistory()
		t.sel, t.reversed, t.pending, t.committed = sel, reversed, pending, committed
		t.readOnly, t.obscure = readOnly, obscure
	}
}

func (t *TextInput) Kind() semantics.Kind { return semantics.KindTextInput }

// Text returns the current text.
func (t *TextInput) Text() string { return t.text.Value() }

// Selection returns the current selection.
func (t *TextInput) Selection() Selection { return t.sel }

// Value returns text and selection.
func (t *TextInput) Value() TextValue {
	return TextValue{Text: t.text.Value(), Selection: t.sel}
}

// Controlled reports whether the host owns the text.
func (t *TextInput) Controlled() bool { return t.text.Controlled() }

// History exposes the undo history.
func (t *TextInput) History() *History { return t.history }

// Handle applies ev. Key events are only processed while focused and
// enabled.
func (t *TextInput) Handle(ev events.Event) (Result, error) {
	return t.dispatch("TextInput.Handle", ev, func(out interaction.Outcome) (Result, error) {
		r := Result{Outcome: out}
		st := t.machine.State()
		switch ev.Kind {
		case events.KindFocusLoss:
			if out.Changed {
				t.history.PreventMerge()
				t.complete()
			}
		case events.KindKeyDown:
			if st.Focused && !st.Disabled && t.keyDown(ev) {
				r.Handled = true
				r.PreventDefault = true
				r.Changed = true
			}
		}
		return r, nil
	})
}

func (t *TextInput) keyDown(ev events.Event) bool {
	shift := ev.Modifiers.Has(events.ModShift)
	word := ev.Modifiers.Has(events.ModAlt)
	line := ev.Modifiers.Has(events.ModMeta)
	text := t.text.Value()

	switch ev.Key {
	case events.KeyArrowLeft:
		switch {
		case line:
			t.moveOrSelect(0, shift)
		case word:
			t.moveOrSelect(prevWordBoundary(text, t.cursor()), shift)
		case shift:
			t.selectTo(prevCodePoint(text, t.cursor()))
		case t.sel.IsCollapsed():
			t.moveTo(prevCodePoint(text, t.sel.Start))
		default:
			t.moveTo(t.sel.Start)
		}
		return true
	case events.KeyArrowRight:
		switch {
		case line:
			t.moveOrSelect(len(text), shift)
		case word:
			t.moveOrSelect(nextWordBoundary(text, t.cursor()), shift)
		case shift:
			t.selectTo(nextCodePoint(text, t.cursor()))
		case t.sel.IsCollapsed():
			t.moveTo(nextCodePoint(text, t.sel.End))
		default:
			t.moveTo(t.sel.End)
		}
		return true
	case events.KeyHome, events.KeyArrowUp:
		t.moveOrSelect(0, shift)
		return true
	case events.KeyEnd, events.KeyArrowDown:
		t.moveOrSelect(len(text), shift)
		return true
	case events.KeyBackspace:
		switch {
		case t.readOnly:
			return false
		case !t.sel.IsCollapsed():
		case line:
			t.selectTo(0)
		case word:
			t.selectTo(prevWordBoundary(text, t.cursor()))
		default:
			t.selectTo(prevCodePoint(text, t.cursor()))
		}
		return t.replaceSelection("")
	case events.KeyDelete:
		switch {
		case t.readOnly:
			return false
		case !t.sel.IsCollapsed():
		case line:
			t.selectTo(len(text))
		case word:
			t.selectTo(nextWordBoundary(text, t.cursor()))
		default:
			t.selectTo(nextCodePoint(text, t.cursor()))
		}
		return t.replaceSelection("")
	case events.KeyEnter:
		t.history.PreventMerge()
		if t.onSubmitted != nil {
			t.onSubmitted(text)
		}
		return true
	case events.KeyEscape, events.KeyTab:
		return false
	}

	if ev.Modifiers.Command() {
		return t.shortcut(strings.ToLower(ev.Text), shift)
	}
	s, ok := ev.Printable()
	if !ok || t.readOnly {
		return false
	}
	return t.insert(s)
}

func (t *TextInput) shortcut(key string, shift bool) bool {
	switch key {
	case "a":
		t.sel = Selection{Start: 0, End: len(t.text.Value())}
		t.reversed = false
		return true
	case "z":
		if shift {
			return t.redo()
		}
		return t.undo()
	case "y":
		return t.redo()
	case "c":
		return t.copySelection()
	case "x":
		if t.readOnly || !t.copySelection() {
			return false
		}
		return t.replaceSelection("")
	case "v":
		return t.paste()
	}
	return false
}

// cursor is the moving end of the selection.
func (t *TextInput) cursor() int {
	if t.reversed {
		return t.sel.Start
	}
	return t.sel.End
}

func (t *TextInput) moveTo(offset int) {
	t.sel = Collapsed(offset)
	t.reversed = false
	t.history.PreventMerge()
}

func (t *TextInput) moveOrSelect(offset int, extend bool) {
	if extend {
		t.selectTo(offset)
		return
	}
	t.moveTo(offset)
}

// selectTo moves the cursor end of the selection, keeping the anchor.
func (t *TextInput) selectTo(offset int) {
	if t.reversed {
		t.sel.Start = offset
	} else {
		t.sel.End = offset
	}
	if t.sel.End < t.sel.Start {
		t.reversed = !t.reversed
		t.sel.Start, t.sel.End = t.sel.End, t.sel.Start
	}
}

func (t *TextInput) insert(s string) bool {
	s = singleLine(strings.ToValidUTF8(s, string(utf8.RuneError)))
	if t.normalize {
		s = norm.NFC.String(s)
	}
	if s == "" {
		return false
	}
	return t.replaceSelection(s)
}

// replaceSelection replaces the selected text with s, records the change
// and collapses the caret after s.
func (t *TextInput) replaceSelection(s string) bool {
	text := t.text.Value()
	if t.sel.IsCollapsed() && s == "" {
		return false
	}
	c := Change{Start: t.sel.Start, Old: text[t.sel.Start:t.sel.End], New: s}
	next, _ := c.Apply(text)
	t.history.Push(c)
	t.commit(next, Collapsed(c.Start+len(s)))
	return true
}

// commit stores an edit. Controlled inputs only propose the text and keep
// the selection pending until the host passes the text back.
func (t *TextInput) commit(text string, sel Selection) {
	t.reversed = false
	if t.text.Controlled() {
		t.pending = &pendingEdit{text: text, sel: sel}
	} else {
		t.sel = sel
	}
	t.text.Propose(text)
}

func (t *TextInput) undo() bool {
	c, ok := t.history.Undo()
	if !ok {
		return false
	}
	return t.applyHistory(c, Selection{Start: c.Start, End: c.Start + len(c.New)})
}

func (t *TextInput) redo() bool {
	c, ok := t.history.Redo()
	if !ok {
		return false
	}
	return t.applyHistory(c, Collapsed(c.Start+len(c.New)))
}

func (t *TextInput) applyHistory(c Change, sel Selection) bool {
	next, ok := c.Apply(t.text.Value())
	if !ok {
		t.history.Clear()
		return false
	}
	t.commit(next, sel)
	return true
}

func (t *TextInput) copySelection() bool {
	if t.clipboard == nil || t.obscure || t.sel.IsCollapsed() {
		return false
	}
	t.clipboard.WriteText(t.text.Value()[t.sel.Start:t.sel.End])
	return true
}

func (t *TextInput) paste() bool {
	if t.clipboard == nil || t.readOnly {
		return false
	}
	s, ok := t.clipboard.ReadText()
	if !ok {
		return false
	}
	t.history.PreventMerge()
	return t.insert(s)
}

func (t *TextInput) complete() {
	text := t.text.Value()
	if text == t.committed {
		return
	}
	t.committed = text
	if t.onEditingComplete != nil {
		t.onEditingComplete(text)
	}
}

// SetValue replaces the text without invoking OnChanged. The caret moves to
// the end and the undo history is cleared.
func (t *TextInput) SetValue(text string) error {
	return t.run("TextInput.SetValue", func() error {
		if !utf8.ValidString(text) {
			return errors.Configuration("TextInput.SetValue", string(t.id), errors.ErrInvalidText)
		}
		t.text.Set(text)
		t.sel = Collapsed(len(text))
		t.reversed = false
		t.pending = nil
		t.committed = text
		t.history.Clear()
		return nil
	})
}

// SetSelection selects the byte range [start, end]. Offsets out of range or
// inside a code point fail with an InvalidSelection error.
func (t *TextInput) SetSelection(start, end int) error {
	return t.run("TextInput.SetSelection", func() error {
		text := t.text.Value()
		if start < 0 || end < 0 || start > len(text) || end > len(text) {
			return errors.InvalidSelection("TextInput.SetSelection", string(t.id),
				fmt.Errorf("%w: (%d,%d) in %d bytes", errors.ErrSelectionBounds, start, end, len(text)))
		}
		if !isBoundary(text, start) || !isBoundary(text, end) {
			return errors.InvalidSelection("TextInput.SetSelection", string(t.id),
				fmt.Errorf("%w: (%d,%d)", errors.ErrSplitCodePoint, start, end))
		}
		t.reversed = end < start
		if t.reversed {
			start, end = end, start
		}
		t.sel = Selection{Start: start, End: end}
		t.history.PreventMerge()
		return nil
	})
}

// Reconcile passes the host's text on each render. When it matches the
// last proposed edit the edit's selection is applied; otherwise the
// selection is clamped into the new text.
func (t *TextInput) Reconcile(text string, controlled bool) error {
	return t.run("TextInput.Reconcile", func() error {
		if !utf8.ValidString(text) {
			return errors.Configuration("TextInput.Reconcile", string(t.id), errors.ErrInvalidText)
		}
		if err := t.text.Reconcile(text, controlled); err != nil {
			return err
		}
		if !controlled {
			return nil
		}
		if t.pending != nil && t.pending.text == text {
			t.sel = t.pending.sel
		} else {
			t.sel = Selection{Start: floorBoundary(text, t.sel.Start), End: floorBoundary(text, t.sel.End)}
		}
		t.pending = nil
		return nil
	})
}

// SetReadOnly toggles read-only mode.
func (t *TextInput) SetReadOnly(readOnly bool) error {
	return t.run("TextInput.SetReadOnly", func() error {
		t.readOnly = readOnly
		return nil
	})
}

// SetObscure toggles obscured mode.
func (t *TextInput) SetObscure(obscure bool) error {
	return t.run("TextInput.SetObscure", func() error {
		t.obscure = obscure
		return nil
	})
}

func (t *TextInput) SetDisabled(disabled bool) error {
	return t.setDisabled("TextInput.SetDisabled", disabled)
}

// displayText is the text announced to assistive technology.
func (t *TextInput) displayText() string {
	text := t.text.Value()
	if t.obscure {
		return strings.Repeat(t.mask, uniseg.GraphemeClusterCount(text))
	}
	return text
}

func (t *TextInput) Snapshot() Snapshot {
	st := t.machine.State()
	return Snapshot{
		ID:          t.id,
		Kind:        semantics.KindTextInput.String(),
		Interaction: st,
		Value:       t.Value(),
		Semantics: semantics.Project(semantics.KindTextInput, st, semantics.Value{
			Label:    t.label,
			Text:     t.displayText(),
			ReadOnly: t.readOnly,
			Obscured: t.obscure,
		}),
	}
}
