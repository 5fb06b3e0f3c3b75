package widgets

import (
	"fmt"

	"github.com/go-drift/headless/pkg/binding"
	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/interaction"
	"github.com/go-drift/headless/pkg/semantics"
)

// TriState is the value of a checkbox.
type TriState int

const (
	Unchecked TriState = iota
	Checked
	// Indeterminate is only ever set by the host. Activating an
	// indeterminate checkbox checks it.
	Indeterminate
)

func (s TriState) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("TriState(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s TriState) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("invalid tri-state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name. "true" and "false" are accepted too.
func (s *TriState) UnmarshalText(text []byte) error {
	v, err := ParseTriState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseTriState parses a state name.
func ParseTriState(name string) (TriState, error) {
	switch name {
	case "unchecked", "false", "off":
		return Unchecked, nil
	case "checked", "true", "on":
		return Checked, nil
	case "indeterminate", "mixed":
		return Indeterminate, nil
	}
	return Unchecked, fmt.Errorf("unknown tri-state %q", name)
}

func (s TriState) valid() bool {
	return s >= Unchecked && s <= Indeterminate
}

// toggled returns the state after an activation.
func (s TriState) toggled() TriState {
	if s == Checked {
		return Unchecked
	}
	return Checked
}

func (s TriState) semantic() semantics.Checked {
	switch s {
	case Checked:
		return semantics.CheckedTrue
	case Indeterminate:
		return semantics.CheckedMixed
	default:
		return semantics.CheckedFalse
	}
}

// CheckboxConfig configures a Checkbox.
type CheckboxConfig struct {
	ID       events.ComponentID
	Label    string
	Disabled bool
	// Value is the initial value, or the host's value when Controlled.
	Value      TriState
	Controlled bool
	// OnChanged receives every user-driven change.
	OnChanged func(TriState)
}

// Checkbox toggles between checked and unchecked on activation.
type Checkbox struct {
	core
	value *binding.Binding[TriState]
}

// NewCheckbox creates a checkbox.
func NewCheckbox(cfg CheckboxConfig) (*Checkbox, error) {
	c := &Checkbox{core: newCore(cfg.ID, cfg.Label, cfg.Disabled)}
	if !cfg.Value.valid() {
		return nil, errors.Configuration("NewCheckbox", string(c.id), fmt.Errorf("invalid value %d", int(cfg.Value)))
	}
	c.value = binding.New(string(c.id), cfg.Value, cfg.Controlled, cfg.OnChanged)
	c.save = c.value.Checkpoint
	return c, nil
}

// Kind returns semantics.KindCheckbox.
func (c *Checkbox) Kind() semantics.Kind {
	return semantics.KindCheckbox
}

// Value returns the current value.
func (c *Checkbox) Value() TriState {
	return c.value.Value()
}

// Controlled reports whether the host owns the value.
func (c *Checkbox) Controlled() bool {
	return c.value.Controlled()
}

// Handle applies ev.
func (c *Checkbox) Handle(ev events.Event) (Result, error) {
	return c.dispatch("Checkbox.Handle", ev, func(out interaction.Outcome) (Result, error) {
		if out.Activated {
			c.value.Propose(c.value.Value().toggled())
		}
		return Result{Outcome: out}, nil
	})
}

// Activate toggles the checkbox as an assistive technology would.
func (c *Checkbox) Activate() error {
	return c.run("Checkbox.Activate", func() error {
		if !c.machine.State().Disabled {
			c.value.Propose(c.value.Value().toggled())
		}
		return nil
	})
}

// SetValue replaces the value without invoking OnChanged.
func (c *Checkbox) SetValue(v TriState) error {
	return c.run("Checkbox.SetValue", func() error {
		if !v.valid() {
			return errors.Configuration("Checkbox.SetValue", string(c.id), fmt.Errorf("invalid value %d", int(v)))
		}
		c.value.Set(v)
		return nil
	})
}

// Reconcile passes the host's value on each render. See binding.Binding.
func (c *Checkbox) Reconcile(v TriState, controlled bool) error {
	return c.run("Checkbox.Reconcile", func() error {
		if !v.valid() {
			return errors.Configuration("Checkbox.Reconcile", string(c.id), fmt.Errorf("invalid value %d", int(v)))
		}
		return c.value.Reconcile(v, controlled)
	})
}

// SetDisabled enables or disables the checkbox.
func (c *Checkbox) SetDisabled(disabled bool) error {
	return c.setDisabled("Checkbox.SetDisabled", disabled)
}

// Snapshot returns the current state.
func (c *Checkbox) Snapshot() Snapshot {
	st := c.machine.State()
	v := c.value.Value()
	return Snapshot{
		ID:          c.id,
		Kind:        semantics.KindCheckbox.String(),
		Interaction: st,
		Value:       v,
		Semantics: semantics.Project(semantics.KindCheckbox, st, semantics.Value{
			Label:   c.label,
			Checked: v.semantic(),
		}),
	}
}
