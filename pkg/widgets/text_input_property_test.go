package widgets

import (
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/headless/pkg/events"
)

var editKeys = []string{
	"left", "right", "home", "end",
	"shift-left", "shift-right", "shift-home", "shift-end",
	"alt-left", "alt-right", "alt-shift-left", "alt-shift-right",
	"backspace", "delete", "alt-backspace", "alt-delete",
	"ctrl-a", "ctrl-z", "ctrl-y", "ctrl-shift-z", "ctrl-x", "ctrl-v",
}

var editText = []string{"a", "é", "👋", "中", " ", ".", "1", "e\u0301"}

type editStep struct {
	Key  int
	Text int
	Type bool
}

func genEditStep() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, len(editKeys)-1),
		gen.IntRange(0, len(editText)-1),
		gen.Bool(),
	).Map(func(v []interface{}) editStep {
		return editStep{Key: v[0].(int), Text: v[1].(int), Type: v[2].(bool)}
	})
}

func TestTextInputEditsKeepValidUTF8(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("text and selection stay on code point boundaries", prop.ForAll(
		func(steps []editStep, normalize bool) bool {
			ti, err := NewTextInput(TextInputConfig{
				ID:        field,
				Value:     "héllo 👋 wörld",
				Normalize: normalize,
				Clipboard: &fakeClipboard{text: "pa\nste", ok: true},
			})
			if err != nil {
				return false
			}
			if _, err := ti.Handle(events.FocusGain(field, events.FocusKeyboard)); err != nil {
				return false
			}
			for _, s := range steps {
				var ev events.Event
				if s.Type {
					ev = events.Char(field, editText[s.Text])
				} else {
					ks, err := events.ParseKeystroke(editKeys[s.Key])
					if err != nil {
						return false
					}
					ev = ks.Event(field)
				}
				if _, err := ti.Handle(ev); err != nil {
					return false
				}
				v := ti.Value()
				if !utf8.ValidString(v.Text) || v.Selection.Start > v.Selection.End {
					return false
				}
				if !isBoundary(v.Text, v.Selection.Start) || !isBoundary(v.Text, v.Selection.End) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEditStep()),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestTextInputUndoRestoresOriginal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("undoing every typed step restores the initial text", prop.ForAll(
		func(picks []int) bool {
			ti, err := NewTextInput(TextInputConfig{ID: field, Value: "start"})
			if err != nil {
				return false
			}
			ti.Handle(events.FocusGain(field, events.FocusKeyboard))
			for _, p := range picks {
				ti.Handle(events.Char(field, editText[p]))
			}
			for ti.History().CanUndo() {
				ti.Handle(events.Keystroke{Key: events.KeyCharacter, Text: "z", Modifiers: events.ModCtrl}.Event(field))
			}
			return ti.Text() == "start"
		},
		gen.SliceOf(gen.IntRange(0, len(editText)-1)),
	))

	properties.TestingRun(t)
}

func TestTextInputMaskedProjection(t *testing.T) {
	ti, err := NewTextInput(TextInputConfig{ID: field, Value: "pässwörd", Obscure: true, Mask: "*"})
	require.NoError(t, err)

	node := ti.Snapshot().Semantics
	assert.Equal(t, "********", node.Value)
	assert.Equal(t, "pässwörd", ti.Text(), "masking must not change the stored text")
}

func TestTextInputMaskCountsGraphemes(t *testing.T) {
	// "e" followed by a combining acute accent, and a flag made of two
	// regional indicators.
	ti, err := NewTextInput(TextInputConfig{ID: field, Value: "e\u0301\U0001F1EB\U0001F1F7", Obscure: true, Mask: "*"})
	require.NoError(t, err)

	assert.Equal(t, "**", ti.Snapshot().Semantics.Value)
}
