package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/go-drift/headless/pkg/config"
	headlesstest "github.com/go-drift/headless/pkg/testing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Replay a scenario and print each step",
		Long: `Replay a scenario file and print the outcome of every step as JSON.

The first line names the project and scenario. Each following line holds
one step: the action, the result it produced, the callbacks that fired,
the focused component and the snapshot of every widget.

Configuration is read from headless.yaml in the project root, found by
walking up from the current directory to go.mod. Use --root to point at
another directory.`,
		Usage: "headless replay <scenario.yaml> [--root DIR]",
		Run:   runReplay,
	})
}

// header is the first line written by replay.
type header struct {
	Project  string `json:"project"`
	Module   string `json:"module,omitempty"`
	Scenario string `json:"scenario"`
	Steps    int    `json:"steps"`
}

func runReplay(args []string) error {
	path, cfg, _, err := scenarioArgs(args, "replay")
	if err != nil {
		return err
	}
	s, err := headlesstest.LoadScenario(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	name := s.Name
	if name == "" {
		name = filepath.Base(path)
	}
	if err := enc.Encode(header{Project: cfg.Project, Module: cfg.ModulePath, Scenario: name, Steps: len(s.Steps)}); err != nil {
		return err
	}

	var encErr error
	tester := headlesstest.NewTesterWithConfig(cfg)
	err = s.Run(tester, func(r headlesstest.StepResult) {
		if encErr == nil {
			encErr = enc.Encode(r)
		}
	})
	if encErr != nil {
		return encErr
	}
	return err
}

// scenarioArgs parses "<scenario.yaml> [--root DIR]" plus any extra flags
// and resolves configuration.
func scenarioArgs(args []string, command string, extra ...string) (string, *config.Resolved, map[string]string, error) {
	positional, flags, err := splitFlags(args, append([]string{"root"}, extra...)...)
	if err != nil {
		return "", nil, nil, err
	}
	if len(positional) != 1 {
		return "", nil, nil, fmt.Errorf("exactly one scenario file is required\n\nUsage: headless %s <scenario.yaml>", command)
	}
	cfg, err := resolveConfig(flags["root"])
	if err != nil {
		return "", nil, nil, err
	}
	return positional[0], cfg, flags, nil
}

func resolveConfig(root string) (*config.Resolved, error) {
	if root == "" {
		found, err := config.FindProjectRoot()
		if err != nil {
			// Outside a module: use defaults.
			return config.Default(), nil
		}
		root = found
	}
	return config.Resolve(root)
}
