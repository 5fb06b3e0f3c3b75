package widgets

import (
	"fmt"
	"strings"

	"github.com/go-drift/headless/pkg/binding"
	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/focus"
	"github.com/go-drift/headless/pkg/interaction"
	"github.com/go-drift/headless/pkg/semantics"
)

// Orientation selects which arrow keys move between tabs.
type Orientation int

const (
	// Horizontal tabs use ArrowLeft/ArrowRight.
	Horizontal Orientation = iota
	// Vertical tabs use ArrowUp/ArrowDown.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation parses "horizontal" or "vertical".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "", "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Tab describes one tab.
type Tab struct {
	ID       events.ComponentID `yaml:"id"`
	Label    string             `yaml:"label"`
	Disabled bool               `yaml:"disabled"`
}

// TabsConfig configures a Tabs widget.
type TabsConfig struct {
	ID       events.ComponentID
	Label    string
	Disabled bool
	// Tabs lists the tabs in order. At least one is required.
	Tabs []Tab
	// Selected is the initially selected tab, or the host's value when
	// Controlled. Empty selects the first enabled tab.
	Selected    events.ComponentID
	Controlled  bool
	Orientation Orientation
	// Wrap makes arrow navigation continue past the last and first tab.
	Wrap      bool
	OnChanged func(events.ComponentID)
}

type tabState struct {
	label    string
	disabled bool
	machine  interaction.Machine
}

// Tabs is a tab list with exactly one selected tab.
//
// Each tab is addressable by its own id and keeps its own interaction state.
// Arrow keys on a focused tab move focus and selection together; the tab
// that receives focus is reported through Result.FocusTarget.
type Tabs struct {
	core
	group       *focus.Group
	tabs        map[events.ComponentID]*tabState
	selected    *binding.Binding[events.ComponentID]
	orientation Orientation
	wrap        bool
}

// NewTabs creates a tab list.
func NewTabs(cfg TabsConfig) (*Tabs, error) {
	t := &Tabs{
		core:        newCore(cfg.ID, cfg.Label, cfg.Disabled),
		tabs:        make(map[events.ComponentID]*tabState, len(cfg.Tabs)),
		orientation: cfg.Orientation,
		wrap:        cfg.Wrap,
	}
	t.machine.KeyboardActivation = false
	if len(cfg.Tabs) == 0 {
		return nil, errors.Configuration("NewTabs", string(t.id), errors.ErrEmptyTabs)
	}

	ids := make([]events.ComponentID, len(cfg.Tabs))
	for i, tab := range cfg.Tabs {
		if tab.ID == "" {
			tab.ID = events.NewComponentID()
		}
		if tab.ID == t.id {
			return nil, errors.Configuration("NewTabs", string(t.id), errors.ErrDuplicateID)
		}
		ids[i] = tab.ID
	}
	group, err := focus.NewGroup(ids...)
	if err != nil {
		return nil, err
	}
	t.group = group
	for i, tab := range cfg.Tabs {
		t.tabs[ids[i]] = &tabState{
			label:    tab.Label,
			disabled: tab.Disabled,
			machine:  interaction.NewMachine(cfg.Disabled || tab.Disabled),
		}
	}

	sel := cfg.Selected
	switch {
	case sel == "":
		var ok bool
		if sel, ok = group.First(t.tabDisabled); !ok {
			sel = ids[0]
		}
	case !group.Contains(sel):
		return nil, errors.InvalidTab("NewTabs", string(t.id), string(sel))
	}
	t.selected = binding.New(string(t.id), sel, cfg.Controlled, cfg.OnChanged)
	t.save = t.checkpoint
	return t, nil
}

// checkpoint captures the selection, the tab order and every tab's state.
func (t *Tabs) checkpoint() func() {
	restoreSelected := t.selected.Checkpoint()
	group := t.group
	members := group.Members()
	tabs := make(map[events.ComponentID]tabState, len(t.tabs))
	for id, ts := range t.tabs {
		tabs[id] = *ts
	}
	return func() {
		restoreSelected()
		if g, err := focus.NewGroup(members...); err == nil {
			*group = *g
		}
		t.group = group
		t.tabs = make(map[events.ComponentID]*tabState, len(tabs))
		for id, ts := range tabs {
			t.tabs[id] = &ts
		}
	}
}

func (t *Tabs) Kind() semantics.Kind { return semantics.KindTabList }

// Members returns the tab ids in order.
func (t *Tabs) Members() []events.ComponentID { return t.group.Members() }

// Selected returns the selected tab id.
func (t *Tabs) Selected() events.ComponentID { return t.selected.Value() }

// Controlled reports whether the host owns the selection.
func (t *Tabs) Controlled() bool { return t.selected.Controlled() }

func (t *Tabs) Orientation() Orientation { return t.orientation }

func (t *Tabs) Wrap() bool { return t.wrap }

// TabState returns the interaction state of one tab.
func (t *Tabs) TabState(id events.ComponentID) (interaction.State, bool) {
	ts, ok := t.tabs[id]
	if !ok {
		return interaction.State{}, false
	}
	return ts.machine.State(), true
}

// Handle applies an event addressed either to the tab list or to one of
// its tabs. Other targets fail with an InvalidTab error.
func (t *Tabs) Handle(ev events.Event) (Result, error) {
	if ev.Target == t.id {
		return t.dispatch("Tabs.Handle", ev, func(out interaction.Outcome) (Result, error) {
			r := Result{Outcome: out}
			st := t.machine.State()
			if ev.Kind == events.KindKeyDown && st.Focused && !st.Disabled {
				t.navigate(t.id, t.selected.Value(), ev, &r)
			}
			return r, nil
		})
	}

	ts, ok := t.tabs[ev.Target]
	if !ok {
		return Result{}, errors.InvalidTab("Tabs.Handle", string(t.id), string(ev.Target))
	}
	var res Result
	err := t.run("Tabs.Handle", func() error {
		out := ts.machine.Handle(ev)
		res = Result{Outcome: out}
		if out.Activated {
			t.selected.Propose(ev.Target)
			return nil
		}
		if ev.Kind == events.KindKeyDown && ts.machine.State().Focused && !t.machine.State().Disabled {
			t.navigate(ev.Target, ev.Target, ev, &res)
		}
		return nil
	})
	return res, err
}

// navigate handles arrow, Home and End keys. focused is the id currently
// holding focus and origin the tab navigation starts from.
func (t *Tabs) navigate(focused, origin events.ComponentID, ev events.Event, r *Result) {
	if ev.Modifiers != 0 {
		return
	}
	prev, next := events.KeyArrowLeft, events.KeyArrowRight
	if t.orientation == Vertical {
		prev, next = events.KeyArrowUp, events.KeyArrowDown
	}

	var target events.ComponentID
	var ok bool
	switch ev.Key {
	case prev:
		target, ok = t.group.Move(origin, -1, t.wrap, t.tabDisabled)
	case next:
		target, ok = t.group.Move(origin, 1, t.wrap, t.tabDisabled)
	case events.KeyHome:
		target, ok = t.group.First(t.tabDisabled)
	case events.KeyEnd:
		target, ok = t.group.Last(t.tabDisabled)
	default:
		return
	}
	r.Handled = true
	r.PreventDefault = true
	if !ok || target == focused {
		return
	}

	t.machineFor(focused).Handle(events.FocusLoss(focused))
	t.tabs[target].machine.Handle(events.FocusGain(target, events.FocusKeyboard))
	t.selected.Propose(target)
	r.Changed = true
	r.FocusTarget = target
}

func (t *Tabs) machineFor(id events.ComponentID) *interaction.Machine {
	if ts, ok := t.tabs[id]; ok {
		return &ts.machine
	}
	return &t.machine
}

func (t *Tabs) tabDisabled(id events.ComponentID) bool {
	ts, ok := t.tabs[id]
	return !ok || ts.disabled
}

// Select selects id without invoking OnChanged. Unknown ids fail with an
// InvalidTab error.
func (t *Tabs) Select(id events.ComponentID) error {
	return t.run("Tabs.Select", func() error {
		if !t.group.Contains(id) {
			return errors.InvalidTab("Tabs.Select", string(t.id), string(id))
		}
		t.selected.Set(id)
		return nil
	})
}

// ActivateTab selects id as an assistive technology would: the change is
// proposed through OnChanged. Disabled tabs are ignored.
func (t *Tabs) ActivateTab(id events.ComponentID) error {
	return t.run("Tabs.ActivateTab", func() error {
		ts, ok := t.tabs[id]
		if !ok {
			return errors.InvalidTab("Tabs.ActivateTab", string(t.id), string(id))
		}
		if ts.machine.State().Disabled {
			return nil
		}
		t.selected.Propose(id)
		return nil
	})
}

// Reconcile passes the host's selection on each render.
func (t *Tabs) Reconcile(id events.ComponentID, controlled bool) error {
	return t.run("Tabs.Reconcile", func() error {
		if controlled && !t.group.Contains(id) {
			return errors.InvalidTab("Tabs.Reconcile", string(t.id), string(id))
		}
		return t.selected.Reconcile(id, controlled)
	})
}

// SetDisabled disables the whole tab list.
func (t *Tabs) SetDisabled(disabled bool) error {
	return t.run("Tabs.SetDisabled", func() error {
		t.machine.SetDisabled(disabled)
		for _, ts := range t.tabs {
			ts.machine.SetDisabled(disabled || ts.disabled)
		}
		return nil
	})
}

// SetTabDisabled disables a single tab.
func (t *Tabs) SetTabDisabled(id events.ComponentID, disabled bool) error {
	return t.run("Tabs.SetTabDisabled", func() error {
		ts, ok := t.tabs[id]
		if !ok {
			return errors.InvalidTab("Tabs.SetTabDisabled", string(t.id), string(id))
		}
		ts.disabled = disabled
		ts.machine.SetDisabled(disabled || t.machine.State().Disabled)
		return nil
	})
}

// AddTab inserts tab at position at; out-of-range positions append.
func (t *Tabs) AddTab(tab Tab, at int) (events.ComponentID, error) {
	if tab.ID == "" {
		tab.ID = events.NewComponentID()
	}
	err := t.run("Tabs.AddTab", func() error {
		if tab.ID == t.id {
			return errors.Configuration("Tabs.AddTab", string(t.id), errors.ErrDuplicateID)
		}
		if err := t.group.Insert(tab.ID, at); err != nil {
			return err
		}
		t.tabs[tab.ID] = &tabState{
			label:    tab.Label,
			disabled: tab.Disabled,
			machine:  interaction.NewMachine(tab.Disabled || t.machine.State().Disabled),
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return tab.ID, nil
}

// RemoveTab removes a tab. Removing the selected tab selects the tab that
// takes its position, or the new last tab. The last remaining tab cannot be
// removed.
func (t *Tabs) RemoveTab(id events.ComponentID) error {
	return t.run("Tabs.RemoveTab", func() error {
		if !t.group.Contains(id) {
			return errors.InvalidTab("Tabs.RemoveTab", string(t.id), string(id))
		}
		if t.group.Len() == 1 {
			return errors.Configuration("Tabs.RemoveTab", string(t.id), errors.ErrEmptyTabs)
		}
		i, _ := t.group.Remove(id)
		delete(t.tabs, id)
		if t.selected.Value() == id {
			t.selected.Set(t.group.At(min(i, t.group.Len()-1)))
		}
		return nil
	})
}

func (t *Tabs) Snapshot() Snapshot {
	st := t.machine.State()
	sel := t.selected.Value()
	tabs := make([]TabSnapshot, 0, t.group.Len())
	for _, id := range t.group.Members() {
		ts := t.tabs[id]
		tst := ts.machine.State()
		tabs = append(tabs, TabSnapshot{
			ID:          id,
			Label:       ts.label,
			Selected:    id == sel,
			Disabled:    ts.disabled,
			TabStop:     id == sel,
			Interaction: tst,
			Semantics: semantics.Project(semantics.KindTab, tst, semantics.Value{
				Label:    ts.label,
				Selected: id == sel,
			}),
		})
	}
	return Snapshot{
		ID:          t.id,
		Kind:        semantics.KindTabList.String(),
		Interaction: st,
		Value:       sel,
		Semantics:   semantics.Project(semantics.KindTabList, st, semantics.Value{Label: t.label}),
		Tabs:        tabs,
	}
}
