package events

import (
	"fmt"
	"strings"
	"unicode"
)

// Key is a named, non-printing key. Printable input uses KeyCharacter with
// the produced text in Event.Text.
type Key int

const (
	KeyUnknown Key = iota
	KeyCharacter
	KeyEnter
	KeySpace
	KeyTab
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyHome
	KeyEnd
)

var keyNames = [...]string{
	KeyUnknown:    "unknown",
	KeyCharacter:  "character",
	KeyEnter:      "enter",
	KeySpace:      "space",
	KeyTab:        "tab",
	KeyEscape:     "escape",
	KeyBackspace:  "backspace",
	KeyDelete:     "delete",
	KeyArrowLeft:  "left",
	KeyArrowRight: "right",
	KeyArrowUp:    "up",
	KeyArrowDown:  "down",
	KeyHome:       "home",
	KeyEnd:        "end",
}

func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// aliases maps host key names, lower-cased, to keys. Both terse names
// ("left") and DOM-style names ("arrowleft") are accepted.
var aliases = map[string]Key{
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"space":      KeySpace,
	" ":          KeySpace,
	"spacebar":   KeySpace,
	"tab":        KeyTab,
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"backspace":  KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"left":       KeyArrowLeft,
	"arrowleft":  KeyArrowLeft,
	"right":      KeyArrowRight,
	"arrowright": KeyArrowRight,
	"up":         KeyArrowUp,
	"arrowup":    KeyArrowUp,
	"down":       KeyArrowDown,
	"arrowdown":  KeyArrowDown,
	"home":       KeyHome,
	"end":        KeyEnd,
}

// ParseKey translates a host key name into a Key. Names are matched case
// insensitively; unknown names report false.
func ParseKey(name string) (Key, bool) {
	k, ok := aliases[strings.ToLower(name)]
	return k, ok
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether all modifiers in m2 are held.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Command reports whether a shortcut modifier (Ctrl or Meta) is held.
func (m Modifiers) Command() bool {
	return m&(ModCtrl|ModMeta) != 0
}

func (m Modifiers) String() string {
	if m == 0 {
		return ""
	}
	var parts []string
	for _, p := range []struct {
		mod  Modifiers
		name string
	}{{ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModShift, "shift"}, {ModMeta, "cmd"}} {
		if m.Has(p.mod) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "-")
}

func (m Modifiers) suffix() string {
	if m == 0 {
		return ""
	}
	return " +" + m.String()
}

var modifierNames = map[string]Modifiers{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"cmd":     ModMeta,
	"meta":    ModMeta,
	"super":   ModMeta,
}

// Keystroke is a parsed key binding such as "alt-shift-left" or "ctrl-a".
type Keystroke struct {
	Key       Key
	Text      string
	Modifiers Modifiers
}

// ParseKeystroke parses a dash-separated keystroke. The last segment is the
// key; a single-character last segment that is not a key name becomes a
// KeyCharacter with that text.
func ParseKeystroke(s string) (Keystroke, error) {
	if s == "" {
		return Keystroke{}, fmt.Errorf("empty keystroke")
	}
	var ks Keystroke
	segments := strings.Split(s, "-")
	// "ctrl--" binds the minus key.
	if strings.HasSuffix(s, "--") {
		segments = append(segments[:len(segments)-2], "-")
	}
	for _, seg := range segments[:len(segments)-1] {
		mod, ok := modifierNames[strings.ToLower(seg)]
		if !ok {
			return Keystroke{}, fmt.Errorf("unknown modifier %q in %q", seg, s)
		}
		ks.Modifiers |= mod
	}
	last := segments[len(segments)-1]
	if k, ok := ParseKey(last); ok {
		ks.Key = k
		return ks, nil
	}
	if n := len([]rune(last)); n == 1 {
		ks.Key = KeyCharacter
		ks.Text = last
		return ks, nil
	}
	return Keystroke{}, fmt.Errorf("unknown key %q in %q", last, s)
}

// Event builds a key-down event for the keystroke.
func (ks Keystroke) Event(target ComponentID) Event {
	return Event{Kind: KindKeyDown, Target: target, Key: ks.Key, Text: ks.Text, Modifiers: ks.Modifiers}
}

// IsSpace reports whether e is a space key press, whether delivered as a
// named key or as a printable " ".
func (e Event) IsSpace() bool {
	return e.Key == KeySpace || (e.Key == KeyCharacter && e.Text == " ")
}

// Printable returns the text a key event inserts, if any. Shortcut
// combinations (Ctrl or Meta held) and text made only of control
// characters never insert text.
func (e Event) Printable() (string, bool) {
	if e.Kind != KindKeyDown || e.Modifiers.Command() {
		return "", false
	}
	switch {
	case e.Key == KeyCharacter && strings.IndexFunc(e.Text, isGraphic) >= 0:
		return e.Text, true
	case e.Key == KeySpace:
		return " ", true
	}
	return "", false
}

func isGraphic(r rune) bool {
	return !unicode.IsControl(r)
}
