package widgets

import (
	"github.com/go-drift/headless/pkg/binding"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/interaction"
	"github.com/go-drift/headless/pkg/semantics"
)

// SwitchConfig configures a Switch.
type SwitchConfig struct {
	ID         events.ComponentID
	Label      string
	Disabled   bool
	Value      bool
	Controlled bool
	OnChanged  func(bool)
}

// Switch is an on/off toggle.
type Switch struct {
	core
	value *binding.Binding[bool]
}

// NewSwitch creates a switch.
func NewSwitch(cfg SwitchConfig) *Switch {
	s := &Switch{core: newCore(cfg.ID, cfg.Label, cfg.Disabled)}
	s.value = binding.New(string(s.id), cfg.Value, cfg.Controlled, cfg.OnChanged)
	s.save = s.value.Checkpoint
	return s
}

func (s *Switch) Kind() semantics.Kind { return semantics.KindSwitch }

func (s *Switch) Value() bool { return s.value.Value() }

func (s *Switch) Controlled() bool { return s.value.Controlled() }

func (s *Switch) Handle(ev events.Event) (Result, error) {
	return s.dispatch("Switch.Handle", ev, func(out interaction.Outcome) (Result, error) {
		if out.Activated {
			s.value.Propose(!s.value.Value())
		}
		return Result{Outcome: out}, nil
	})
}

// Activate flips the switch as an assistive technology would.
func (s *Switch) Activate() error {
	return s.run("Switch.Activate", func() error {
		if !s.machine.State().Disabled {
			s.value.Propose(!s.value.Value())
		}
		return nil
	})
}

func (s *Switch) SetValue(on bool) error {
	return s.run("Switch.SetValue", func() error {
		s.value.Set(on)
		return nil
	})
}

func (s *Switch) Reconcile(on, controlled bool) error {
	return s.run("Switch.Reconcile", func() error {
		return s.value.Reconcile(on, controlled)
	})
}

func (s *Switch) SetDisabled(disabled bool) error {
	return s.setDisabled("Switch.SetDisabled", disabled)
}

func (s *Switch) Snapshot() Snapshot {
	st := s.machine.State()
	checked := semantics.CheckedFalse
	if s.value.Value() {
		checked = semantics.CheckedTrue
	}
	return Snapshot{
		ID:          s.id,
		Kind:        semantics.KindSwitch.String(),
		Interaction: st,
		Value:       s.value.Value(),
		Semantics:   semantics.Project(semantics.KindSwitch, st, semantics.Value{Label: s.label, Checked: checked}),
	}
}
