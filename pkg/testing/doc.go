// Package testing provides a test harness for headless widgets.
//
// # Quick Start
//
// Create a tester, mount widgets, drive them and make assertions:
//
//	func TestTerms(t *testing.T) {
//	    tester := headlesstest.NewTesterWithT(t)
//	    box, _ := widgets.NewCheckbox(widgets.CheckboxConfig{ID: "terms", Label: "I agree"})
//	    tester.Mount(box)
//
//	    tester.Tap("terms")
//
//	    if box.Value() != widgets.Checked {
//	        t.Error("expected the box to be checked")
//	    }
//	}
//
// The tester plays the host: it tracks which component holds focus, moves
// focus on Tab and Shift+Tab, and follows focus changes a widget requests
// through Result.FocusTarget.
//
// # Finders
//
// Locate components by what assistive technology sees:
//
//	id := tester.Find(headlesstest.ByLabel("Submit")).ID()
//
// # Snapshot Testing
//
// Capture and compare every mounted widget's snapshot:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/form.snapshot.json")
//
// Update snapshots with:
//
//	HEADLESS_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Scenarios
//
// A Scenario describes widgets and a sequence of steps in YAML. Run replays
// it against a tester; the headless command line tool replays scenario
// files the same way.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import headlesstest "github.com/go-drift/headless/pkg/testing"
package testing
