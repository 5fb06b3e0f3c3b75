package widgets

import (
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/interaction"
	"github.com/go-drift/headless/pkg/semantics"
)

// Widget is implemented by every headless widget.
type Widget interface {
	// ID returns the component id events are addressed to.
	ID() events.ComponentID
	// Kind returns the widget kind.
	Kind() semantics.Kind
	// Handle applies a single event.
	Handle(ev events.Event) (Result, error)
	// SetDisabled enables or disables the widget.
	SetDisabled(disabled bool) error
	// Snapshot returns the renderer-visible state.
	Snapshot() Snapshot
}

// Composite is a widget that owns further addressable ids, such as the
// individual tabs of a Tabs widget.
type Composite interface {
	Widget
	// Members returns the ids owned by the widget, in order.
	Members() []events.ComponentID
}

// Result reports what handling an event did.
type Result struct {
	interaction.Outcome
	// FocusTarget names the component that should receive host focus as a
	// consequence of the event. Empty when focus should stay where it is.
	FocusTarget events.ComponentID `json:"focusTarget,omitempty"`
}

// Snapshot is the renderer-visible state of a widget at one point in time.
type Snapshot struct {
	ID          events.ComponentID `json:"id"`
	Kind        string             `json:"kind"`
	Interaction interaction.State  `json:"interaction"`
	// Value is the widget's current value: nil for a button, a TriState for
	// a checkbox, a bool for a switch, a ProgressInfo, the selected tab id or
	// a TextValue.
	Value     any            `json:"value,omitempty"`
	Semantics semantics.Node `json:"semantics"`
	// Tabs is set for Tabs widgets only.
	Tabs []TabSnapshot `json:"tabs,omitempty"`
}

// TabSnapshot is the state of a single tab.
type TabSnapshot struct {
	ID          events.ComponentID `json:"id"`
	Label       string             `json:"label"`
	Selected    bool               `json:"selected"`
	Disabled    bool               `json:"disabled"`
	TabStop     bool               `json:"tabStop"`
	Interaction interaction.State  `json:"interaction"`
	Semantics   semantics.Node     `json:"semantics"`
}

// core is embedded by every widget. It carries the id, the interaction
// machine and the re-entrancy guard.
type core struct {
	id      events.ComponentID
	label   string
	machine interaction.Machine
	guard   interaction.Guard
	// save captures the widget state kept outside the machine and returns
	// a function that puts it back. Nil for widgets without such state.
	save func() (restore func())
}

func newCore(id events.ComponentID, label string, disabled bool) core {
	if id == "" {
		id = events.NewComponentID()
	}
	return core{id: id, label: label, machine: interaction.NewMachine(disabled)}
}

// ID returns the component id.
func (c *core) ID() events.ComponentID {
	return c.id
}

// Label returns the accessible label.
func (c *core) Label() string {
	return c.label
}

// State returns the interaction state.
func (c *core) State() interaction.State {
	return c.machine.State()
}

// run executes fn under the re-entrancy guard. Changes are all-or-nothing:
// if fn fails or panics the machine and the state captured by save are
// restored before the error or panic propagates.
func (c *core) run(op string, fn func() error) error {
	return c.guard.Run(op, string(c.id), func() error {
		machine := c.machine
		var restore func()
		if c.save != nil {
			restore = c.save()
		}
		done := false
		defer func() {
			if done {
				return
			}
			c.machine = machine
			if restore != nil {
				restore()
			}
		}()
		if err := fn(); err != nil {
			return err
		}
		done = true
		return nil
	})
}

// dispatch feeds ev to the machine and hands the outcome to apply.
func (c *core) dispatch(op string, ev events.Event, apply func(out interaction.Outcome) (Result, error)) (Result, error) {
	var res Result
	err := c.run(op, func() error {
		r, err := apply(c.machine.Handle(ev))
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	return res, err
}

func (c *core) setDisabled(op string, disabled bool) error {
	return c.run(op, func() error {
		c.machine.SetDisabled(disabled)
		return nil
	})
}
