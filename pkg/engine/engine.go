// Package engine is the host boundary: it owns mounted widgets, routes
// events to them by target id, tracks pointer hover and press ownership per
// device and publishes snapshots after every processed event.
//
// An Engine is driven from a single goroutine, the host's UI thread. Widget
// callbacks run synchronously inside Dispatch and may call back into the
// engine for other components; re-entrant calls for the component being
// updated are rejected by that component. Published snapshots can be read
// from any goroutine through Published and the inspector.
package engine

import (
	"sync"

	"github.com/go-drift/headless/pkg/config"
	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/focus"
	"github.com/go-drift/headless/pkg/semantics"
	"github.com/go-drift/headless/pkg/widgets"
)

// Engine routes host events to mounted widgets.
type Engine struct {
	cfg *config.Resolved

	widgets map[events.ComponentID]widgets.Widget
	// owners maps ids owned by a composite (tabs) to the composite's id.
	owners map[events.ComponentID]events.ComponentID
	// order is the mount order used for tab traversal.
	order *focus.Group

	hover map[events.PointerID]events.ComponentID
	press map[events.PointerID]events.ComponentID

	subscribers []subscriber
	nextSub     int

	published snapshotStore
	stats     statsCounter
}

type subscriber struct {
	id int
	fn func(widgets.Snapshot)
}

// New creates an engine with default configuration.
func New() *Engine {
	return newEngine(config.Default())
}

// NewFromConfig creates an engine and installs a LogHandler with the
// configured verbosity as the global error handler.
func NewFromConfig(cfg *config.Resolved) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	errors.SetHandler(&errors.LogHandler{Verbose: cfg.Verbose})
	return newEngine(cfg)
}

func newEngine(cfg *config.Resolved) *Engine {
	order, _ := focus.NewGroup()
	return &Engine{
		cfg:       cfg,
		widgets:   make(map[events.ComponentID]widgets.Widget),
		owners:    make(map[events.ComponentID]events.ComponentID),
		order:     order,
		hover:     make(map[events.PointerID]events.ComponentID),
		press:     make(map[events.PointerID]events.ComponentID),
		published: snapshotStore{m: make(map[events.ComponentID]widgets.Snapshot)},
	}
}

// Config returns the resolved configuration.
func (e *Engine) Config() *config.Resolved {
	return e.cfg
}

// Mount registers a widget. Its id, and for composites every member id, must
// not already be mounted.
func (e *Engine) Mount(w widgets.Widget) error {
	id := w.ID()
	if e.known(id) {
		return errors.Configuration("Engine.Mount", string(id), errors.ErrDuplicateID)
	}
	var members []events.ComponentID
	if c, ok := w.(widgets.Composite); ok {
		members = c.Members()
		for _, m := range members {
			if m == id || e.known(m) {
				return errors.Configuration("Engine.Mount", string(m), errors.ErrDuplicateID)
			}
		}
	}
	if err := e.order.Insert(id, -1); err != nil {
		return err
	}
	e.widgets[id] = w
	for _, m := range members {
		e.owners[m] = id
	}
	e.publish(w)
	return nil
}

// Unmount removes a widget and forgets any pointer state that refers to it.
func (e *Engine) Unmount(id events.ComponentID) error {
	w, ok := e.widgets[id]
	if !ok {
		return errors.Configuration("Engine.Unmount", string(id), errors.ErrNotMounted)
	}
	delete(e.widgets, id)
	e.order.Remove(id)
	if c, ok := w.(widgets.Composite); ok {
		for _, m := range c.Members() {
			delete(e.owners, m)
			e.forgetPointers(m)
		}
	}
	e.forgetPointers(id)
	e.published.delete(id)
	return nil
}

// Mounted reports whether id is a mounted widget or a member of one.
func (e *Engine) Mounted(id events.ComponentID) bool {
	return e.known(id)
}

// Widget returns the widget mounted under id, resolving member ids to their
// owner.
func (e *Engine) Widget(id events.ComponentID) (widgets.Widget, bool) {
	owner, ok := e.resolve(id)
	if !ok {
		return nil, false
	}
	return e.widgets[owner], true
}

func (e *Engine) known(id events.ComponentID) bool {
	if _, ok := e.widgets[id]; ok {
		return true
	}
	_, ok := e.owners[id]
	return ok
}

func (e *Engine) resolve(id events.ComponentID) (events.ComponentID, bool) {
	if _, ok := e.widgets[id]; ok {
		return id, true
	}
	owner, ok := e.owners[id]
	return owner, ok
}

func (e *Engine) forgetPointers(id events.ComponentID) {
	for p, target := range e.hover {
		if target == id {
			delete(e.hover, p)
		}
	}
	for p, target := range e.press {
		if target == id {
			delete(e.press, p)
		}
	}
}

// Dispatch delivers ev to the widget owning ev.Target.
//
// Pointer events are normalized per device first: a move onto a new target
// leaves the previous one, repeated moves over the same target are dropped,
// and a press on a new target cancels an earlier press by the same device
// that was never released.
//
// A failed event leaves the target as it was, except that a failed release
// or cancel is followed by a cancel so the press cannot stay stuck.
//
// A panic raised by a widget callback is recovered, reported and returned as
// a *errors.PanicError.
func (e *Engine) Dispatch(ev events.Event) (widgets.Result, error) {
	if !e.known(ev.Target) {
		e.stats.rejected()
		return widgets.Result{}, errors.Configuration("Engine.Dispatch", string(ev.Target), errors.ErrNotMounted)
	}

	p := ev.Pointer
	switch ev.Kind {
	case events.KindPointerMove, events.KindPointerEnter:
		prev, had := e.hover[p]
		if had && prev == ev.Target {
			if ev.Kind == events.KindPointerMove {
				e.stats.coalesced()
				return widgets.Result{}, nil
			}
		} else if had {
			if _, err := e.deliver(events.PointerLeave(prev).WithPointer(p)); err != nil {
				return widgets.Result{}, err
			}
		}
		e.hover[p] = ev.Target
	case events.KindPointerLeave:
		if e.hover[p] == ev.Target {
			delete(e.hover, p)
		}
	case events.KindPointerDown:
		if prev, ok := e.press[p]; ok && prev != ev.Target {
			delete(e.press, p)
			if _, err := e.deliver(events.PointerCancel(prev).WithPointer(p)); err != nil {
				return widgets.Result{}, err
			}
		}
		if prev, had := e.hover[p]; had && prev != ev.Target {
			if _, err := e.deliver(events.PointerLeave(prev).WithPointer(p)); err != nil {
				return widgets.Result{}, err
			}
		}
		e.hover[p] = ev.Target
	case events.KindPointerUp, events.KindPointerCancel:
		if e.press[p] == ev.Target {
			delete(e.press, p)
		}
		if ev.OutOfBounds && e.hover[p] == ev.Target {
			delete(e.hover, p)
		}
	}

	res, err := e.deliver(ev)
	switch {
	case err == nil && ev.Kind == events.KindPointerDown && e.pressed(ev.Target):
		e.press[p] = ev.Target
	case err != nil && (ev.Kind == events.KindPointerUp || ev.Kind == events.KindPointerCancel) && e.known(ev.Target) && e.pressed(ev.Target):
		// The failed event was rolled back; release the press without
		// activation so it cannot stay stuck.
		delete(e.press, p)
		_, _ = e.deliver(events.PointerCancel(ev.Target).WithPointer(p))
	}
	return res, err
}

// pressed reports whether the interaction state of id shows a press.
func (e *Engine) pressed(id events.ComponentID) bool {
	owner, _ := e.resolve(id)
	w := e.widgets[owner]
	if tabs, ok := w.(*widgets.Tabs); ok && id != owner {
		st, _ := tabs.TabState(id)
		return st.Pressed
	}
	return w.Snapshot().Interaction.Pressed
}

func (e *Engine) deliver(ev events.Event) (res widgets.Result, err error) {
	owner, ok := e.resolve(ev.Target)
	if !ok {
		return widgets.Result{}, errors.Configuration("Engine.Dispatch", string(ev.Target), errors.ErrNotMounted)
	}
	w := e.widgets[owner]
	e.stats.dispatched()

	func() {
		defer errors.At("Engine.Dispatch", string(ev.Target)).Recover(func(p *errors.PanicError) {
			e.stats.panicked()
			res, err = widgets.Result{}, p
		})
		res, err = w.Handle(ev)
	}()
	if err != nil {
		e.stats.rejected()
	}
	// Unmounted by a callback during the event.
	if _, still := e.widgets[owner]; still {
		e.publish(w)
	}
	return res, err
}

// SetDisabled enables or disables a widget, or a single tab when id names
// one.
func (e *Engine) SetDisabled(id events.ComponentID, disabled bool) error {
	owner, ok := e.resolve(id)
	if !ok {
		return errors.Configuration("Engine.SetDisabled", string(id), errors.ErrNotMounted)
	}
	w := e.widgets[owner]
	var err error
	if tabs, isTabs := w.(*widgets.Tabs); isTabs && owner != id {
		err = tabs.SetTabDisabled(id, disabled)
	} else {
		err = w.SetDisabled(disabled)
	}
	if err != nil {
		return err
	}
	e.publish(w)
	return nil
}

// Update runs fn against the widget mounted under id and publishes the
// resulting snapshot. Hosts use it for programmatic changes such as
// Reconcile or SetValue.
func (e *Engine) Update(id events.ComponentID, fn func(widgets.Widget) error) error {
	owner, ok := e.resolve(id)
	if !ok {
		return errors.Configuration("Engine.Update", string(id), errors.ErrNotMounted)
	}
	w := e.widgets[owner]
	if err := fn(w); err != nil {
		return err
	}
	e.publish(w)
	return nil
}

// AddTab adds a tab to a mounted Tabs widget.
func (e *Engine) AddTab(tabsID events.ComponentID, tab widgets.Tab, at int) (events.ComponentID, error) {
	tabs, err := e.tabs("Engine.AddTab", tabsID)
	if err != nil {
		return "", err
	}
	if tab.ID != "" && e.known(tab.ID) {
		return "", errors.Configuration("Engine.AddTab", string(tab.ID), errors.ErrDuplicateID)
	}
	id, err := tabs.AddTab(tab, at)
	if err != nil {
		return "", err
	}
	e.owners[id] = tabsID
	e.publish(tabs)
	return id, nil
}

// RemoveTab removes a tab from a mounted Tabs widget.
func (e *Engine) RemoveTab(tabsID, tabID events.ComponentID) error {
	tabs, err := e.tabs("Engine.RemoveTab", tabsID)
	if err != nil {
		return err
	}
	if err := tabs.RemoveTab(tabID); err != nil {
		return err
	}
	delete(e.owners, tabID)
	e.forgetPointers(tabID)
	e.publish(tabs)
	return nil
}

func (e *Engine) tabs(op string, id events.ComponentID) (*widgets.Tabs, error) {
	w, ok := e.widgets[id]
	if !ok {
		return nil, errors.Configuration(op, string(id), errors.ErrNotMounted)
	}
	tabs, ok := w.(*widgets.Tabs)
	if !ok {
		return nil, errors.Configuration(op, string(id), errors.ErrNotTabs)
	}
	return tabs, nil
}

// Snapshot returns the current snapshot of the widget owning id.
func (e *Engine) Snapshot(id events.ComponentID) (widgets.Snapshot, error) {
	owner, ok := e.resolve(id)
	if !ok {
		return widgets.Snapshot{}, errors.Configuration("Engine.Snapshot", string(id), errors.ErrNotMounted)
	}
	return e.widgets[owner].Snapshot(), nil
}

// Snapshots returns the snapshots of all widgets in mount order.
func (e *Engine) Snapshots() []widgets.Snapshot {
	out := make([]widgets.Snapshot, 0, e.order.Len())
	for _, id := range e.order.Members() {
		out = append(out, e.widgets[id].Snapshot())
	}
	return out
}

// Subscribe registers fn to receive every published snapshot. The returned
// function removes the subscription.
func (e *Engine) Subscribe(fn func(widgets.Snapshot)) (cancel func()) {
	e.nextSub++
	id := e.nextSub
	e.subscribers = append(e.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subscribers {
			if s.id == id {
				e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) publish(w widgets.Widget) {
	snap := w.Snapshot()
	e.published.put(snap)
	for _, s := range append([]subscriber(nil), e.subscribers...) {
		s.fn(snap)
	}
}

// Published returns the last published snapshot of id. Safe for concurrent
// use.
func (e *Engine) Published(id events.ComponentID) (widgets.Snapshot, bool) {
	return e.published.get(id)
}

// PublishedAll returns every published snapshot ordered by id. Safe for
// concurrent use.
func (e *Engine) PublishedAll() []widgets.Snapshot {
	return e.published.all()
}

// Stats returns event counters. Safe for concurrent use.
func (e *Engine) Stats() Stats {
	return e.stats.load()
}

// TabOrder returns the sequential focus order: focusable widgets in mount
// order, with a tab list represented by its selected tab.
func (e *Engine) TabOrder() []events.ComponentID {
	var out []events.ComponentID
	for _, id := range e.order.Members() {
		if stop, ok := e.tabStop(id); ok {
			out = append(out, stop)
		}
	}
	return out
}

func (e *Engine) tabStop(id events.ComponentID) (events.ComponentID, bool) {
	w := e.widgets[id]
	if tabs, ok := w.(*widgets.Tabs); ok {
		sel := tabs.Selected()
		st, _ := tabs.TabState(sel)
		if st.Disabled {
			return "", false
		}
		return sel, true
	}
	snap := w.Snapshot()
	if w.Kind() == semantics.KindProgress || !snap.Semantics.Focusable {
		return "", false
	}
	return id, true
}

// NextTabStop returns the tab stop after from, or before it when backward.
// Traversal wraps. An empty or unknown from starts at either end. The engine
// does not move focus itself; the host delivers the focus events.
func (e *Engine) NextTabStop(from events.ComponentID, backward bool) (events.ComponentID, bool) {
	stops, err := focus.NewGroup(e.TabOrder()...)
	if err != nil || stops.Len() == 0 {
		return "", false
	}
	if owner, ok := e.owners[from]; ok {
		if tabs, ok := e.widgets[owner].(*widgets.Tabs); ok {
			from = tabs.Selected()
		}
	}
	delta := 1
	if backward {
		delta = -1
	}
	if !stops.Contains(from) {
		return stops.Move("", delta, false, nil)
	}
	if stops.Len() == 1 {
		return from, true
	}
	return stops.Move(from, delta, true, nil)
}

type snapshotStore struct {
	mu sync.RWMutex
	m  map[events.ComponentID]widgets.Snapshot
}

func (s *snapshotStore) put(snap widgets.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[snap.ID] = snap
}

func (s *snapshotStore) delete(id events.ComponentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

func (s *snapshotStore) get(id events.ComponentID) (widgets.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.m[id]
	return snap, ok
}
