// Package semantics derives the accessibility description of a component
// from its kind, interaction state and value.
//
// Project is a pure function: it keeps no memory between calls and returns
// the same Node for the same inputs, so a renderer can recompute it at any
// time.
package semantics

import (
	"encoding/json"

	"github.com/go-drift/headless/pkg/interaction"
)

// Kind identifies the widget being described.
type Kind int

const (
	KindButton Kind = iota
	KindCheckbox
	KindSwitch
	KindProgress
	KindTabList
	KindTab
	KindTextInput
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindCheckbox:
		return "checkbox"
	case KindSwitch:
		return "switch"
	case KindProgress:
		return "progress"
	case KindTabList:
		return "tabs"
	case KindTab:
		return "tab"
	case KindTextInput:
		return "text-input"
	default:
		return "unknown"
	}
}

// Role is the accessibility role announced for a node. String values follow
// the WAI-ARIA role names.
type Role int

const (
	RoleNone Role = iota
	RoleButton
	RoleCheckbox
	RoleSwitch
	RoleProgressBar
	RoleTabList
	RoleTab
	RoleTextBox
)

func (r Role) String() string {
	switch r {
	case RoleButton:
		return "button"
	case RoleCheckbox:
		return "checkbox"
	case RoleSwitch:
		return "switch"
	case RoleProgressBar:
		return "progressbar"
	case RoleTabList:
		return "tablist"
	case RoleTab:
		return "tab"
	case RoleTextBox:
		return "textbox"
	default:
		return "none"
	}
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Flag is a bit set of semantic state flags.
type Flag uint32

const (
	HasCheckedState Flag = 1 << iota
	IsChecked
	IsMixed
	HasToggledState
	IsToggled
	IsSelected
	IsPressed
	IsExpanded
	HasEnabledState
	IsEnabled
	IsFocusable
	IsFocused
	IsFocusVisible
	IsHovered
	IsButton
	IsTextField
	IsReadOnly
	IsObscured
)

var flagNames = [...]string{
	"hasCheckedState", "isChecked", "isMixed", "hasToggledState", "isToggled",
	"isSelected", "isPressed", "isExpanded", "hasEnabledState", "isEnabled",
	"isFocusable", "isFocused", "isFocusVisible", "isHovered", "isButton",
	"isTextField", "isReadOnly", "isObscured",
}

// Names returns the names of the set flags in bit order.
func (f Flag) Names() []string {
	names := []string{}
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

// MarshalJSON encodes the set as an array of flag names.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

// Has reports whether all bits of f2 are set.
func (f Flag) Has(f2 Flag) bool {
	return f&f2 == f2
}

// Set returns f with the bits of f2 set.
func (f Flag) Set(f2 Flag) Flag {
	return f | f2
}

// Clear returns f with the bits of f2 cleared.
func (f Flag) Clear(f2 Flag) Flag {
	return f &^ f2
}

// Checked is a tri-state checked value.
type Checked int

const (
	// CheckedNone means the node has no checked state.
	CheckedNone Checked = iota
	CheckedFalse
	CheckedTrue
	CheckedMixed
)

func (c Checked) String() string {
	switch c {
	case CheckedFalse:
		return "false"
	case CheckedTrue:
		return "true"
	case CheckedMixed:
		return "mixed"
	default:
		return "none"
	}
}

// Range describes a bounded numeric value.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Now float64 `json:"now"`
}

// Value is the widget-specific input to Project.
type Value struct {
	Label string
	// Text is the announced value text: progress label or text content.
	Text     string
	Checked  Checked
	Selected bool
	Expanded bool
	ReadOnly bool
	// Obscured marks masked text; Text must already be masked.
	Obscured bool
	Range    *Range
}

// Node is the renderer-consumable accessibility description.
type Node struct {
	Role      Role   `json:"role"`
	Label     string `json:"label,omitempty"`
	Value     string `json:"value,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Flags     Flag   `json:"flags"`
	Disabled  bool   `json:"disabled,omitempty"`
	Focusable bool   `json:"focusable,omitempty"`
	Range     *Range `json:"range,omitempty"`
}

// Checked returns the tri-state checked value.
func (n Node) Checked() Checked {
	switch {
	case !n.Flags.Has(HasCheckedState) && !n.Flags.Has(HasToggledState):
		return CheckedNone
	case n.Flags.Has(IsMixed):
		return CheckedMixed
	case n.Flags.Has(IsChecked) || n.Flags.Has(IsToggled):
		return CheckedTrue
	default:
		return CheckedFalse
	}
}

// Pressed reports whether the node is being pressed.
func (n Node) Pressed() bool { return n.Flags.Has(IsPressed) }

// Selected reports whether the node is selected.
func (n Node) Selected() bool { return n.Flags.Has(IsSelected) }

// Expanded reports whether the node is expanded.
func (n Node) Expanded() bool { return n.Flags.Has(IsExpanded) }

// Project describes a component for assistive technology.
func Project(kind Kind, st interaction.State, v Value) Node {
	n := Node{
		Label:    v.Label,
		Disabled: st.Disabled,
	}
	interactive := kind != KindProgress && kind != KindTabList
	enabled := !st.Disabled

	flags := HasEnabledState
	if enabled {
		flags = flags.Set(IsEnabled)
	}
	if st.Focused {
		flags = flags.Set(IsFocused)
	}
	if st.FocusVisible {
		flags = flags.Set(IsFocusVisible)
	}
	if st.Hovered {
		flags = flags.Set(IsHovered)
	}
	if v.Expanded {
		flags = flags.Set(IsExpanded)
	}
	if interactive && enabled {
		flags = flags.Set(IsFocusable)
		n.Focusable = true
	}
	if interactive && st.Pressed {
		flags = flags.Set(IsPressed)
	}

	switch kind {
	case KindButton:
		n.Role = RoleButton
		flags = flags.Set(IsButton)
		if enabled {
			n.Hint = "Double tap to activate"
		}
	case KindCheckbox:
		n.Role = RoleCheckbox
		flags = flags.Set(HasCheckedState)
		switch v.Checked {
		case CheckedTrue:
			flags = flags.Set(IsChecked)
			n.Value = "Checked"
		case CheckedMixed:
			flags = flags.Set(IsMixed)
			n.Value = "Partially checked"
		default:
			n.Value = "Not checked"
		}
		if enabled {
			n.Hint = "Double tap to toggle"
		}
	case KindSwitch:
		n.Role = RoleSwitch
		flags = flags.Set(HasToggledState)
		if v.Checked == CheckedTrue {
			flags = flags.Set(IsToggled)
			n.Value = "On"
		} else {
			n.Value = "Off"
		}
		if enabled {
			n.Hint = "Double tap to toggle"
		}
	case KindProgress:
		n.Role = RoleProgressBar
		n.Value = v.Text
		if v.Range != nil {
			r := *v.Range
			n.Range = &r
		}
	case KindTabList:
		n.Role = RoleTabList
	case KindTab:
		n.Role = RoleTab
		if v.Selected {
			flags = flags.Set(IsSelected)
		}
		if enabled && !v.Selected {
			n.Hint = "Double tap to select"
		}
	case KindTextInput:
		n.Role = RoleTextBox
		flags = flags.Set(IsTextField)
		n.Value = v.Text
		if v.ReadOnly {
			flags = flags.Set(IsReadOnly)
		}
		if v.Obscured {
			flags = flags.Set(IsObscured)
		}
		if enabled && !v.ReadOnly {
			n.Hint = "Double tap to edit"
		}
	}

	n.Flags = flags
	return n
}
