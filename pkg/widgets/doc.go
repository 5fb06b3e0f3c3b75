// Package widgets provides the headless widget state machines: Button,
// Checkbox, Switch, Progress, Tabs and TextInput.
//
// A widget owns its interaction state, its value (through a binding) and
// nothing else. It never draws and never measures text. A host drives it by
// passing events to Handle and reads the result through Snapshot.
//
// # Construction
//
// Widgets are created from struct literals, following the same canonical
// pattern for every type:
//
//	box, err := widgets.NewCheckbox(widgets.CheckboxConfig{
//	    ID:        "terms",
//	    Label:     "Accept terms",
//	    OnChanged: func(v widgets.TriState) { ... },
//	})
//
// An empty ID is replaced by a generated one.
//
// # Controlled values
//
// Setting Controlled on a config hands ownership of the value to the host.
// User input then only proposes a value through the OnChanged callback and
// the widget waits for the host to pass it back through Reconcile.
//
// # Failure semantics
//
// Every mutating method runs under a re-entrancy guard. A method that fails
// leaves the widget exactly as it was before the call.
package widgets
