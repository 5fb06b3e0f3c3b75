package widgets

import (
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/interaction"
	"github.com/go-drift/headless/pkg/semantics"
)

// ButtonConfig configures a Button.
type ButtonConfig struct {
	// ID is the component id. Generated when empty.
	ID events.ComponentID
	// Label is the accessible label.
	Label string
	// Disabled disables the button when true.
	Disabled bool
	// OnTap is called once per activation.
	OnTap func()
}

// Button activates on a completed press or on Enter/Space while focused.
type Button struct {
	core
	onTap func()
}

// NewButton creates a button.
func NewButton(cfg ButtonConfig) *Button {
	return &Button{core: newCore(cfg.ID, cfg.Label, cfg.Disabled), onTap: cfg.OnTap}
}

// Kind returns semantics.KindButton.
func (b *Button) Kind() semantics.Kind {
	return semantics.KindButton
}

// Handle applies ev.
func (b *Button) Handle(ev events.Event) (Result, error) {
	return b.dispatch("Button.Handle", ev, func(out interaction.Outcome) (Result, error) {
		if out.Activated && b.onTap != nil {
			b.onTap()
		}
		return Result{Outcome: out}, nil
	})
}

// Activate performs the button's action as an assistive technology would.
// It does nothing while disabled.
func (b *Button) Activate() error {
	return b.run("Button.Activate", func() error {
		if !b.machine.State().Disabled && b.onTap != nil {
			b.onTap()
		}
		return nil
	})
}

// SetDisabled enables or disables the button.
func (b *Button) SetDisabled(disabled bool) error {
	return b.setDisabled("Button.SetDisabled", disabled)
}

// Snapshot returns the current state.
func (b *Button) Snapshot() Snapshot {
	st := b.machine.State()
	return Snapshot{
		ID:          b.id,
		Kind:        semantics.KindButton.String(),
		Interaction: st,
		Semantics:   semantics.Project(semantics.KindButton, st, semantics.Value{Label: b.label}),
	}
}
