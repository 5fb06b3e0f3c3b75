package engine

import (
	"slices"
	"testing"

	"github.com/go-drift/headless/pkg/config"
	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/widgets"
)

type quietHandler struct{ panics int }

func (h *quietHandler) HandleError(*errors.Error) {}

func (h *quietHandler) HandlePanic(*errors.PanicError) { h.panics++ }

func quiet(t *testing.T) *quietHandler {
	t.Helper()
	h := &quietHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func mount(t *testing.T, e *Engine, ws ...widgets.Widget) {
	t.Helper()
	for _, w := range ws {
		if err := e.Mount(w); err != nil {
			t.Fatalf("Mount(%s): %v", w.ID(), err)
		}
	}
}

func dispatch(t *testing.T, e *Engine, evs ...events.Event) widgets.Result {
	t.Helper()
	var last widgets.Result
	for _, ev := range evs {
		r, err := e.Dispatch(ev)
		if err != nil {
			t.Fatalf("Dispatch(%v): %v", ev, err)
		}
		last = r
	}
	return last
}

func state(t *testing.T, e *Engine, id events.ComponentID) widgets.Snapshot {
	t.Helper()
	snap, err := e.Snapshot(id)
	if err != nil {
		t.Fatalf("Snapshot(%s): %v", id, err)
	}
	return snap
}

func newTabs(t *testing.T, id events.ComponentID, tabs ...events.ComponentID) *widgets.Tabs {
	t.Helper()
	cfg := widgets.TabsConfig{ID: id, Wrap: true}
	for _, tab := range tabs {
		cfg.Tabs = append(cfg.Tabs, widgets.Tab{ID: tab, Label: string(tab)})
	}
	w, err := widgets.NewTabs(cfg)
	if err != nil {
		t.Fatalf("NewTabs: %v", err)
	}
	return w
}

func TestMountRejectsDuplicates(t *testing.T) {
	quiet(t)
	e := New()
	mount(t, e, widgets.NewButton(widgets.ButtonConfig{ID: "ok"}), newTabs(t, "nav", "home", "about"))

	tests := []struct {
		name string
		w    widgets.Widget
	}{
		{"same id", widgets.NewButton(widgets.ButtonConfig{ID: "ok"})},
		{"id of a tab", widgets.NewSwitch(widgets.SwitchConfig{ID: "home"})},
		{"tab id of a widget", newTabs(t, "other", "ok")},
	}
	for _, tt := range tests {
		err := e.Mount(tt.w)
		if !errors.Is(err, errors.ErrDuplicateID) {
			t.Errorf("%s: Mount error = %v, want duplicate id", tt.name, err)
		}
	}
	if e.Mounted("other") {
		t.Error("failed mount left the widget registered")
	}
}

func TestDispatchUnmounted(t *testing.T) {
	quiet(t)
	e := New()
	_, err := e.Dispatch(events.PointerDown("ghost"))
	if !errors.Is(err, errors.ErrNotMounted) {
		t.Fatalf("Dispatch error = %v, want not mounted", err)
	}
	if got := e.Stats().Rejected; got != 1 {
		t.Errorf("Rejected = %d, want 1", got)
	}
}

func TestHoverTracking(t *testing.T) {
	e := New()
	mount(t, e,
		widgets.NewButton(widgets.ButtonConfig{ID: "a"}),
		widgets.NewButton(widgets.ButtonConfig{ID: "b"}),
	)

	dispatch(t, e, events.PointerMove("a"))
	if !state(t, e, "a").Interaction.Hovered {
		t.Fatal("move over a should hover it")
	}
	dispatch(t, e, events.PointerMove("a"), events.PointerMove("a"))
	if got := e.Stats().Coalesced; got != 2 {
		t.Errorf("Coalesced = %d, want 2", got)
	}

	dispatch(t, e, events.PointerMove("b"))
	if state(t, e, "a").Interaction.Hovered {
		t.Error("moving to b should leave a")
	}
	if !state(t, e, "b").Interaction.Hovered {
		t.Error("b should be hovered")
	}

	// A second pointer hovers independently.
	dispatch(t, e, events.PointerEnter("a").WithPointer(2))
	if !state(t, e, "a").Interaction.Hovered || !state(t, e, "b").Interaction.Hovered {
		t.Error("each pointer keeps its own hover target")
	}
}

func TestPressRecordsHover(t *testing.T) {
	e := New()
	mount(t, e,
		widgets.NewButton(widgets.ButtonConfig{ID: "a"}),
		widgets.NewButton(widgets.ButtonConfig{ID: "b"}),
	)

	dispatch(t, e, events.PointerDown("a"), events.PointerMove("b"))
	if state(t, e, "a").Interaction.Hovered {
		t.Error("moving to b after pressing a should leave a")
	}
	if !state(t, e, "b").Interaction.Hovered {
		t.Error("b should be hovered")
	}

	// Pressing b while a is hovered leaves a first.
	dispatch(t, e, events.PointerUp("b"), events.PointerMove("a"), events.PointerDown("b"))
	if state(t, e, "a").Interaction.Hovered || !state(t, e, "b").Interaction.Hovered {
		t.Errorf("hovered a=%v b=%v, want only b",
			state(t, e, "a").Interaction.Hovered, state(t, e, "b").Interaction.Hovered)
	}
}

func TestPressOnNewTargetCancelsPrevious(t *testing.T) {
	var taps []string
	e := New()
	mount(t, e,
		widgets.NewButton(widgets.ButtonConfig{ID: "a", OnTap: func() { taps = append(taps, "a") }}),
		widgets.NewButton(widgets.ButtonConfig{ID: "b", OnTap: func() { taps = append(taps, "b") }}),
	)

	dispatch(t, e, events.PointerDown("a"), events.PointerDown("b"))
	if state(t, e, "a").Interaction.Pressed {
		t.Error("a should have been cancelled")
	}
	if !state(t, e, "b").Interaction.Pressed {
		t.Error("b should be pressed")
	}

	res := dispatch(t, e, events.PointerUp("b"))
	if !res.Activated {
		t.Error("release on b should activate it")
	}
	dispatch(t, e, events.PointerUp("a"))
	if !slices.Equal(taps, []string{"b"}) {
		t.Errorf("taps = %v, want [b]", taps)
	}
}

func TestReleaseOutsideClearsHover(t *testing.T) {
	e := New()
	mount(t, e, widgets.NewButton(widgets.ButtonConfig{ID: "a"}))

	dispatch(t, e, events.PointerEnter("a"), events.PointerDown("a"), events.PointerUpOutside("a"))
	snap := state(t, e, "a")
	if snap.Interaction.Pressed || snap.Interaction.Hovered {
		t.Errorf("state = %+v, want neither pressed nor hovered", snap.Interaction)
	}
	// The next move over a enters again instead of being coalesced.
	dispatch(t, e, events.PointerMove("a"))
	if !state(t, e, "a").Interaction.Hovered {
		t.Error("move after leaving should hover again")
	}
}

func TestDispatchRecoversCallbackPanic(t *testing.T) {
	h := quiet(t)
	e := New()
	mount(t, e, widgets.NewButton(widgets.ButtonConfig{ID: "boom", OnTap: func() { panic("kaboom") }}))

	dispatch(t, e, events.PointerDown("boom"))
	_, err := e.Dispatch(events.PointerUp("boom"))
	if errors.KindOf(err) != errors.KindPanic {
		t.Fatalf("Dispatch error = %v, want panic", err)
	}
	if h.panics != 1 || e.Stats().Panics != 1 {
		t.Errorf("panics reported = %d, counted = %d", h.panics, e.Stats().Panics)
	}
	// The failed release is followed by a cancel.
	if state(t, e, "boom").Interaction.Pressed {
		t.Error("press should be released after a failed release")
	}
}

func TestDispatchPanicRollsBackValue(t *testing.T) {
	quiet(t)
	e := New()
	box, err := widgets.NewCheckbox(widgets.CheckboxConfig{ID: "terms", OnChanged: func(widgets.TriState) { panic("boom") }})
	if err != nil {
		t.Fatal(err)
	}
	nav, err := widgets.NewTabs(widgets.TabsConfig{
		ID:        "nav",
		Tabs:      []widgets.Tab{{ID: "home"}, {ID: "about"}},
		OnChanged: func(events.ComponentID) { panic("boom") },
	})
	if err != nil {
		t.Fatal(err)
	}
	mount(t, e, box, nav)

	tests := []struct {
		name  string
		id    events.ComponentID
		value func() any
		want  any
	}{
		{"checkbox", "terms", func() any { return box.Value() }, widgets.Unchecked},
		{"tab", "about", func() any { return state(t, e, "nav").Value }, events.ComponentID("home")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatch(t, e, events.PointerDown(tt.id))
			if _, err := e.Dispatch(events.PointerUp(tt.id)); errors.KindOf(err) != errors.KindPanic {
				t.Fatalf("Dispatch error = %v, want panic", err)
			}
			if got := tt.value(); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
			if e.pressed(tt.id) {
				t.Error("pressed after the pointer went up")
			}
		})
	}
}

func TestCallbackMayUpdateOtherComponents(t *testing.T) {
	quiet(t)
	e := New()
	var selfErr error
	mount(t, e,
		widgets.NewButton(widgets.ButtonConfig{ID: "lock", OnTap: func() {
			if err := e.SetDisabled("target", true); err != nil {
				t.Errorf("SetDisabled(target): %v", err)
			}
			selfErr = e.SetDisabled("lock", true)
		}}),
		widgets.NewButton(widgets.ButtonConfig{ID: "target"}),
	)

	dispatch(t, e, events.PointerDown("lock"), events.PointerUp("lock"))
	if !state(t, e, "target").Interaction.Disabled {
		t.Error("target should be disabled")
	}
	if !errors.Is(selfErr, errors.ErrReentrant) {
		t.Errorf("self update error = %v, want re-entrant", selfErr)
	}
	if state(t, e, "lock").Interaction.Disabled {
		t.Error("rejected re-entrant update must not apply")
	}
}

func TestTabOrder(t *testing.T) {
	e := New()
	nav := newTabs(t, "nav", "home", "about")
	if err := nav.Select("about"); err != nil {
		t.Fatal(err)
	}
	bar, err := widgets.NewProgress(widgets.ProgressConfig{ID: "bar"})
	if err != nil {
		t.Fatal(err)
	}
	field, err := widgets.NewTextInput(widgets.TextInputConfig{ID: "name"})
	if err != nil {
		t.Fatal(err)
	}
	mount(t, e,
		widgets.NewButton(widgets.ButtonConfig{ID: "ok"}),
		nav,
		bar,
		widgets.NewButton(widgets.ButtonConfig{ID: "off", Disabled: true}),
		field,
	)

	want := []events.ComponentID{"ok", "about", "name"}
	if got := e.TabOrder(); !slices.Equal(got, want) {
		t.Fatalf("TabOrder = %v, want %v", got, want)
	}

	tests := []struct {
		from     events.ComponentID
		backward bool
		want     events.ComponentID
	}{
		{"", false, "ok"},
		{"", true, "name"},
		{"ok", false, "about"},
		{"home", false, "name"},
		{"name", false, "ok"},
		{"ok", true, "name"},
		{"off", false, "ok"},
	}
	for _, tt := range tests {
		got, ok := e.NextTabStop(tt.from, tt.backward)
		if !ok || got != tt.want {
			t.Errorf("NextTabStop(%q, %v) = %q, %v; want %q", tt.from, tt.backward, got, ok, tt.want)
		}
	}
}

func TestSetDisabledRoutesTabs(t *testing.T) {
	e := New()
	nav := newTabs(t, "nav", "home", "about")
	mount(t, e, nav)

	if err := e.SetDisabled("about", true); err != nil {
		t.Fatal(err)
	}
	if st, _ := nav.TabState("about"); !st.Disabled {
		t.Error("about should be disabled")
	}
	if nav.State().Disabled {
		t.Error("the tab list itself should stay enabled")
	}
	if err := e.SetDisabled("nowhere", true); !errors.Is(err, errors.ErrNotMounted) {
		t.Errorf("SetDisabled error = %v, want not mounted", err)
	}
}

func TestAddRemoveTab(t *testing.T) {
	quiet(t)
	e := New()
	mount(t, e, newTabs(t, "nav", "home"), widgets.NewButton(widgets.ButtonConfig{ID: "ok"}))

	if _, err := e.AddTab("nav", widgets.Tab{ID: "ok"}, -1); !errors.Is(err, errors.ErrDuplicateID) {
		t.Errorf("AddTab error = %v, want duplicate id", err)
	}
	if _, err := e.AddTab("ok", widgets.Tab{ID: "x"}, -1); !errors.Is(err, errors.ErrNotTabs) {
		t.Errorf("AddTab on a button error = %v, want not tabs", err)
	}

	id, err := e.AddTab("nav", widgets.Tab{ID: "help", Label: "Help"}, -1)
	if err != nil {
		t.Fatal(err)
	}
	dispatch(t, e, events.PointerDown(id), events.PointerUp(id))
	if got := state(t, e, "nav").Value; got != id {
		t.Errorf("selected = %v, want %s", got, id)
	}

	if err := e.RemoveTab("nav", id); err != nil {
		t.Fatal(err)
	}
	if e.Mounted(id) {
		t.Error("removed tab is still routed")
	}
	if got := state(t, e, "nav").Value; got != events.ComponentID("home") {
		t.Errorf("selected after removal = %v, want home", got)
	}
}

func TestPublishAndSubscribe(t *testing.T) {
	e := New()
	var seen []events.ComponentID
	cancel := e.Subscribe(func(s widgets.Snapshot) { seen = append(seen, s.ID) })

	cb, err := widgets.NewCheckbox(widgets.CheckboxConfig{ID: "terms"})
	if err != nil {
		t.Fatal(err)
	}
	mount(t, e, cb)
	dispatch(t, e, events.PointerDown("terms"), events.PointerUp("terms"))

	snap, ok := e.Published("terms")
	if !ok || snap.Value != widgets.Checked {
		t.Errorf("Published = %+v, %v; want checked", snap, ok)
	}
	if len(seen) != 3 {
		t.Errorf("subscriber saw %d snapshots, want 3", len(seen))
	}

	cancel()
	dispatch(t, e, events.PointerDown("terms"))
	if len(seen) != 3 {
		t.Error("cancelled subscriber still notified")
	}

	if err := e.Unmount("terms"); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Published("terms"); ok {
		t.Error("unmounted widget is still published")
	}
	if err := e.Unmount("terms"); !errors.Is(err, errors.ErrNotMounted) {
		t.Errorf("second Unmount error = %v, want not mounted", err)
	}
}

func TestUpdatePublishes(t *testing.T) {
	e := New()
	sw := widgets.NewSwitch(widgets.SwitchConfig{ID: "wifi", Controlled: true})
	mount(t, e, sw)

	err := e.Update("wifi", func(w widgets.Widget) error {
		return w.(*widgets.Switch).Reconcile(true, true)
	})
	if err != nil {
		t.Fatal(err)
	}
	if snap, _ := e.Published("wifi"); snap.Value != true {
		t.Errorf("published value = %v, want true", snap.Value)
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Cleanup(func() { errors.SetHandler(nil) })
	cfg := config.Default()
	cfg.Verbose = true
	e := NewFromConfig(cfg)
	if e.Config() != cfg {
		t.Error("Config should return the resolved configuration")
	}
	h, ok := errors.Handler().(*errors.LogHandler)
	if !ok || !h.Verbose {
		t.Errorf("handler = %#v, want verbose LogHandler", errors.Handler())
	}
}
