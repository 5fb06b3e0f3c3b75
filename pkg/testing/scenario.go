package testing

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/headless/pkg/config"
	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/interaction"
	"github.com/go-drift/headless/pkg/semantics"
	"github.com/go-drift/headless/pkg/widgets"
)

// Scenario is a scripted interaction: the widgets to mount and the steps to
// play against them.
//
//	name: sign in
//	widgets:
//	  - {kind: text_input, id: user, label: User}
//	  - {kind: checkbox, id: remember, label: Remember me}
//	  - {kind: button, id: go, label: Sign in}
//	steps:
//	  - focus: user
//	  - type: alice
//	  - key: tab
//	  - key: space
//	  - expect: {id: remember, value: checked, focus_visible: true}
type Scenario struct {
	Name    string       `yaml:"name"`
	Widgets []WidgetSpec `yaml:"widgets"`
	Steps   []Step       `yaml:"steps"`
}

// WidgetSpec describes one widget. Kind is one of button, checkbox, switch,
// progress, tabs or text_input; fields that do not apply to the kind are
// ignored. Unset options fall back to the engine's configuration.
type WidgetSpec struct {
	Kind       string             `yaml:"kind"`
	ID         events.ComponentID `yaml:"id"`
	Label      string             `yaml:"label"`
	Disabled   bool               `yaml:"disabled"`
	Controlled bool               `yaml:"controlled"`
	// Value is the initial value in text form: a tri-state name, a boolean,
	// a number or the text content.
	Value string `yaml:"value"`

	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`

	Tabs        []widgets.Tab      `yaml:"tabs"`
	Selected    events.ComponentID `yaml:"selected"`
	Orientation string             `yaml:"orientation"`
	Wrap        *bool              `yaml:"wrap"`

	ReadOnly    bool   `yaml:"read_only"`
	Obscure     bool   `yaml:"obscure"`
	Mask        string `yaml:"mask"`
	Normalize   *bool  `yaml:"normalize"`
	HistorySize int    `yaml:"history_size"`
}

// Step is one scenario step: at most one action, optionally followed by an
// expectation checked after the action.
type Step struct {
	Tap            events.ComponentID `yaml:"tap"`
	Press          events.ComponentID `yaml:"press"`
	Release        events.ComponentID `yaml:"release"`
	ReleaseOutside events.ComponentID `yaml:"release_outside"`
	Cancel         events.ComponentID `yaml:"cancel"`
	Hover          events.ComponentID `yaml:"hover"`
	Leave          events.ComponentID `yaml:"leave"`
	Focus          events.ComponentID `yaml:"focus"`
	Blur           bool               `yaml:"blur"`
	Key            string             `yaml:"key"`
	Type           string             `yaml:"type"`
	Tab            string             `yaml:"tab"`
	Activate       events.ComponentID `yaml:"activate"`
	Disable        events.ComponentID `yaml:"disable"`
	Enable         events.ComponentID `yaml:"enable"`
	Set            *Assign            `yaml:"set"`
	Reconcile      *Assign            `yaml:"reconcile"`

	Expect *Expect `yaml:"expect"`
}

// Assign names a component and a value in text form.
type Assign struct {
	ID    events.ComponentID `yaml:"id"`
	Value string             `yaml:"value"`
}

// Expect lists the properties checked after a step. Nil fields are not
// checked.
type Expect struct {
	ID events.ComponentID `yaml:"id"`

	Value          *string `yaml:"value"`
	Selection      []int   `yaml:"selection"`
	Hovered        *bool   `yaml:"hovered"`
	Pressed        *bool   `yaml:"pressed"`
	Focused        *bool   `yaml:"focused"`
	FocusVisible   *bool   `yaml:"focus_visible"`
	Disabled       *bool   `yaml:"disabled"`
	SemanticsValue *string `yaml:"semantics_value"`

	// FocusOn is the component expected to hold host focus.
	FocusOn *events.ComponentID `yaml:"focus_on"`
	// Callbacks are the callbacks expected to have fired during the step.
	Callbacks []string `yaml:"callbacks"`
}

// StepResult reports what one step did.
type StepResult struct {
	Index     int                `json:"step"`
	Action    string             `json:"action"`
	Result    widgets.Result     `json:"result"`
	Callbacks []string           `json:"callbacks,omitempty"`
	Focused   events.ComponentID `json:"focused,omitempty"`
	Snapshots []widgets.Snapshot `json:"snapshots"`
}

// ExpectationError reports a failed expectation.
type ExpectationError struct {
	Step  int
	ID    events.ComponentID
	Field string
	Want  string
	Got   string
}

func (e *ExpectationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("step %d: %s = %s, want %s", e.Step, e.Field, e.Got, e.Want)
	}
	return fmt.Sprintf("step %d: %s.%s = %s, want %s", e.Step, e.ID, e.Field, e.Got, e.Want)
}

// ParseScenario decodes a scenario. Unknown keys are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Configuration("ParseScenario", "", fmt.Errorf("failed to parse scenario: %w", err))
	}
	for i, step := range s.Steps {
		if n := len(step.actions()); n > 1 {
			return nil, errors.Configuration("ParseScenario", "", fmt.Errorf("step %d has %d actions, want at most one", i+1, n))
		}
	}
	return &s, nil
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseScenario(data)
}

// Run mounts the scenario's widgets on t and plays every step, calling fn
// (if non-nil) after each one. It stops at the first failing action or
// expectation.
func (s *Scenario) Run(t *Tester, fn func(StepResult)) error {
	log := &callbackLog{}
	cfg := t.engine.Config()
	for _, spec := range s.Widgets {
		w, err := spec.build(cfg, log, t.Clipboard())
		if err != nil {
			return err
		}
		if err := t.Mount(w); err != nil {
			return err
		}
	}
	log.take()

	for i, step := range s.Steps {
		t.last = widgets.Result{}
		action, err := t.play(step)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, action, err)
		}
		res := StepResult{
			Index:     i + 1,
			Action:    action,
			Result:    t.last,
			Callbacks: log.take(),
			Focused:   t.focused,
			Snapshots: t.engine.Snapshots(),
		}
		if fn != nil {
			fn(res)
		}
		if step.Expect != nil {
			if err := t.check(i+1, step.Expect, res.Callbacks); err != nil {
				return err
			}
		}
	}
	return nil
}

func (st Step) actions() []string {
	var names []string
	for name, set := range map[string]bool{
		"tap":             st.Tap != "",
		"press":           st.Press != "",
		"release":         st.Release != "",
		"release_outside": st.ReleaseOutside != "",
		"cancel":          st.Cancel != "",
		"hover":           st.Hover != "",
		"leave":           st.Leave != "",
		"focus":           st.Focus != "",
		"blur":            st.Blur,
		"key":             st.Key != "",
		"type":            st.Type != "",
		"tab":             st.Tab != "",
		"activate":        st.Activate != "",
		"disable":         st.Disable != "",
		"enable":          st.Enable != "",
		"set":             st.Set != nil,
		"reconcile":       st.Reconcile != nil,
	} {
		if set {
			names = append(names, name)
		}
	}
	return names
}

func (t *Tester) play(st Step) (string, error) {
	switch {
	case st.Tap != "":
		return "tap " + string(st.Tap), t.Tap(st.Tap)
	case st.Press != "":
		return "press " + string(st.Press), t.Press(st.Press)
	case st.Release != "":
		return "release " + string(st.Release), t.Release(st.Release)
	case st.ReleaseOutside != "":
		return "release outside " + string(st.ReleaseOutside), t.ReleaseOutside(st.ReleaseOutside)
	case st.Cancel != "":
		return "cancel " + string(st.Cancel), t.Cancel(st.Cancel)
	case st.Hover != "":
		return "hover " + string(st.Hover), t.Hover(st.Hover)
	case st.Leave != "":
		return "leave " + string(st.Leave), t.Leave(st.Leave)
	case st.Focus != "":
		return "focus " + string(st.Focus), t.Focus(st.Focus, events.FocusKeyboard)
	case st.Blur:
		return "blur", t.Blur()
	case st.Key != "":
		return "key " + st.Key, t.Key(st.Key)
	case st.Type != "":
		return fmt.Sprintf("type %q", st.Type), t.Type(st.Type)
	case st.Tab != "":
		switch strings.ToLower(st.Tab) {
		case "forward", "next":
			return "tab forward", t.Tab(false)
		case "backward", "previous", "prev":
			return "tab backward", t.Tab(true)
		}
		return "tab " + st.Tab, fmt.Errorf("unknown tab direction %q", st.Tab)
	case st.Activate != "":
		return "activate " + string(st.Activate), t.Activate(st.Activate)
	case st.Disable != "":
		return "disable " + string(st.Disable), t.engine.SetDisabled(st.Disable, true)
	case st.Enable != "":
		return "enable " + string(st.Enable), t.engine.SetDisabled(st.Enable, false)
	case st.Set != nil:
		return fmt.Sprintf("set %s=%q", st.Set.ID, st.Set.Value), t.SetValue(st.Set.ID, st.Set.Value)
	case st.Reconcile != nil:
		return fmt.Sprintf("reconcile %s=%q", st.Reconcile.ID, st.Reconcile.Value), t.Reconcile(st.Reconcile.ID, st.Reconcile.Value)
	}
	return "expect", nil
}

// Activate performs the accessibility activate action on id: a button,
// checkbox, switch or tab.
func (t *Tester) Activate(id events.ComponentID) error {
	return t.engine.Update(id, func(w widgets.Widget) error {
		switch w := w.(type) {
		case *widgets.Button:
			return w.Activate()
		case *widgets.Checkbox:
			return w.Activate()
		case *widgets.Switch:
			return w.Activate()
		case *widgets.Tabs:
			return w.ActivateTab(id)
		}
		return fmt.Errorf("%s cannot be activated", w.Kind())
	})
}

// SetValue programmatically sets the value of id from its text form,
// without firing change callbacks.
func (t *Tester) SetValue(id events.ComponentID, value string) error {
	return t.engine.Update(id, func(w widgets.Widget) error {
		switch w := w.(type) {
		case *widgets.Checkbox:
			v, err := widgets.ParseTriState(value)
			if err != nil {
				return err
			}
			return w.SetValue(v)
		case *widgets.Switch:
			on, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			return w.SetValue(on)
		case *widgets.Progress:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return err
			}
			return w.SetValue(v)
		case *widgets.Tabs:
			return w.Select(events.ComponentID(value))
		case *widgets.TextInput:
			return w.SetValue(value)
		}
		return fmt.Errorf("%s has no value", w.Kind())
	})
}

// Reconcile hands id the host's value of a controlled widget.
func (t *Tester) Reconcile(id events.ComponentID, value string) error {
	return t.engine.Update(id, func(w widgets.Widget) error {
		switch w := w.(type) {
		case *widgets.Checkbox:
			v, err := widgets.ParseTriState(value)
			if err != nil {
				return err
			}
			return w.Reconcile(v, true)
		case *widgets.Switch:
			on, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			return w.Reconcile(on, true)
		case *widgets.Tabs:
			return w.Reconcile(events.ComponentID(value), true)
		case *widgets.TextInput:
			return w.Reconcile(value, true)
		}
		return fmt.Errorf("%s cannot be controlled", w.Kind())
	})
}

func (t *Tester) check(step int, ex *Expect, callbacks []string) error {
	fail := func(id events.ComponentID, field string, want, got any) error {
		return &ExpectationError{Step: step, ID: id, Field: field, Want: fmt.Sprint(want), Got: fmt.Sprint(got)}
	}

	if ex.FocusOn != nil && *ex.FocusOn != t.focused {
		return fail("", "focus", *ex.FocusOn, t.focused)
	}
	if ex.Callbacks != nil && strings.Join(ex.Callbacks, "\n") != strings.Join(callbacks, "\n") {
		return fail("", "callbacks", ex.Callbacks, callbacks)
	}
	if ex.ID == "" {
		return nil
	}

	view, err := t.view(ex.ID)
	if err != nil {
		return err
	}
	bools := []struct {
		field string
		want  *bool
		got   bool
	}{
		{"hovered", ex.Hovered, view.state.Hovered},
		{"pressed", ex.Pressed, view.state.Pressed},
		{"focused", ex.Focused, view.state.Focused},
		{"focus_visible", ex.FocusVisible, view.state.FocusVisible},
		{"disabled", ex.Disabled, view.state.Disabled},
	}
	for _, b := range bools {
		if b.want != nil && *b.want != b.got {
			return fail(ex.ID, b.field, *b.want, b.got)
		}
	}
	if ex.Value != nil && *ex.Value != view.value {
		return fail(ex.ID, "value", *ex.Value, view.value)
	}
	if ex.SemanticsValue != nil && *ex.SemanticsValue != view.node.Value {
		return fail(ex.ID, "semantics_value", *ex.SemanticsValue, view.node.Value)
	}
	if ex.Selection != nil {
		if len(ex.Selection) != 2 {
			return fmt.Errorf("step %d: selection wants two offsets, got %v", step, ex.Selection)
		}
		want := widgets.Selection{Start: ex.Selection[0], End: ex.Selection[1]}
		if view.selection == nil || *view.selection != want {
			var got any = "none"
			if view.selection != nil {
				got = *view.selection
			}
			return fail(ex.ID, "selection", want, got)
		}
	}
	return nil
}

// ValueString renders a snapshot value in the text form used by scenarios.
func ValueString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case widgets.TriState:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case widgets.ProgressInfo:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case events.ComponentID:
		return string(v)
	case widgets.TextValue:
		return v.Text
	}
	return fmt.Sprint(v)
}

type callbackLog struct {
	entries []string
}

func (l *callbackLog) add(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

func (l *callbackLog) take() []string {
	out := l.entries
	l.entries = nil
	return out
}

func (spec WidgetSpec) build(cfg *config.Resolved, log *callbackLog, clip widgets.Clipboard) (widgets.Widget, error) {
	id := spec.ID
	if id == "" {
		id = events.NewComponentID()
	}
	invalid := func(err error) error {
		return errors.Configuration("Scenario.Mount", string(id), err)
	}

	switch strings.ToLower(spec.Kind) {
	case "button":
		return widgets.NewButton(widgets.ButtonConfig{
			ID: id, Label: spec.Label, Disabled: spec.Disabled,
			OnTap: func() { log.add("%s: tap", id) },
		}), nil

	case "checkbox":
		v := widgets.Unchecked
		if spec.Value != "" {
			var err error
			if v, err = widgets.ParseTriState(spec.Value); err != nil {
				return nil, invalid(err)
			}
		}
		return widgets.NewCheckbox(widgets.CheckboxConfig{
			ID: id, Label: spec.Label, Disabled: spec.Disabled,
			Value: v, Controlled: spec.Controlled,
			OnChanged: func(v widgets.TriState) { log.add("%s: changed %s", id, v) },
		})

	case "switch":
		on := false
		if spec.Value != "" {
			var err error
			if on, err = strconv.ParseBool(spec.Value); err != nil {
				return nil, invalid(err)
			}
		}
		return widgets.NewSwitch(widgets.SwitchConfig{
			ID: id, Label: spec.Label, Disabled: spec.Disabled,
			Value: on, Controlled: spec.Controlled,
			OnChanged: func(on bool) { log.add("%s: changed %t", id, on) },
		}), nil

	case "progress":
		v := 0.0
		if spec.Value != "" {
			var err error
			if v, err = strconv.ParseFloat(spec.Value, 64); err != nil {
				return nil, invalid(err)
			}
		}
		return widgets.NewProgress(widgets.ProgressConfig{
			ID: id, Label: spec.Label, Min: spec.Min, Max: spec.Max, Value: v,
		})

	case "tabs":
		orientation := cfg.TabsOrientation
		if spec.Orientation != "" {
			var err error
			if orientation, err = widgets.ParseOrientation(spec.Orientation); err != nil {
				return nil, invalid(err)
			}
		}
		wrap := cfg.TabsWrap
		if spec.Wrap != nil {
			wrap = *spec.Wrap
		}
		return widgets.NewTabs(widgets.TabsConfig{
			ID: id, Label: spec.Label, Disabled: spec.Disabled,
			Tabs: spec.Tabs, Selected: spec.Selected, Controlled: spec.Controlled,
			Orientation: orientation, Wrap: wrap,
			OnChanged: func(tab events.ComponentID) { log.add("%s: selected %s", id, tab) },
		})

	case "text_input", "text-input", "textinput":
		history := cfg.HistorySize
		if spec.HistorySize > 0 {
			history = spec.HistorySize
		}
		normalize := cfg.Normalize
		if spec.Normalize != nil {
			normalize = *spec.Normalize
		}
		mask := cfg.Mask
		if spec.Mask != "" {
			mask = spec.Mask
		}
		return widgets.NewTextInput(widgets.TextInputConfig{
			ID: id, Label: spec.Label, Disabled: spec.Disabled,
			Value: spec.Value, Controlled: spec.Controlled,
			ReadOnly: spec.ReadOnly, Obscure: spec.Obscure, Mask: mask,
			Normalize: normalize, HistorySize: history, Clipboard: clip,
			OnChanged:         func(text string) { log.add("%s: changed %q", id, text) },
			OnSubmitted:       func(text string) { log.add("%s: submitted %q", id, text) },
			OnEditingComplete: func(text string) { log.add("%s: editing complete %q", id, text) },
		})
	}
	return nil, invalid(fmt.Errorf("unknown widget kind %q", spec.Kind))
}

// componentView is the checkable state of a widget or of a single tab.
type componentView struct {
	state     interaction.State
	value     string
	node      semantics.Node
	selection *widgets.Selection
}

func (t *Tester) view(id events.ComponentID) (componentView, error) {
	snap, err := t.engine.Snapshot(id)
	if err != nil {
		return componentView{}, err
	}
	if snap.ID != id {
		for _, tab := range snap.Tabs {
			if tab.ID == id {
				return componentView{
					state: tab.Interaction,
					value: strconv.FormatBool(tab.Selected),
					node:  tab.Semantics,
				}, nil
			}
		}
	}
	v := componentView{state: snap.Interaction, value: ValueString(snap.Value), node: snap.Semantics}
	if tv, ok := snap.Value.(widgets.TextValue); ok {
		v.selection = &tv.Selection
	}
	return v, nil
}
