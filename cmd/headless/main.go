// Command headless replays interaction scenarios against the headless
// widget core and serves the resulting state for inspection.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/headless/cmd/headless/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
