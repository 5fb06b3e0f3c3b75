package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	headlesstest "github.com/go-drift/headless/pkg/testing"
)

// DefaultInspectAddr is the address inspect listens on without --addr.
const DefaultInspectAddr = "localhost:7420"

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Replay a scenario and serve the final state over HTTP",
		Long: `Replay a scenario file, then serve the engine's snapshots over HTTP until
interrupted.

Endpoints:
  /health            liveness check
  /snapshots         every widget snapshot
  /snapshot?id=ID    one widget or tab list
  /stats             event counters`,
		Usage: "headless inspect <scenario.yaml> [--addr HOST:PORT] [--root DIR]",
		Run:   runInspect,
	})
}

func runInspect(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return inspect(ctx, args, nil)
}

// inspect replays the scenario and serves until ctx is done. ready, if
// non-nil, receives the listening address.
func inspect(ctx context.Context, args []string, ready func(addr string)) error {
	path, cfg, flags, err := scenarioArgs(args, "inspect", "addr")
	if err != nil {
		return err
	}
	addr := flags["addr"]
	if addr == "" {
		addr = DefaultInspectAddr
	}

	s, err := headlesstest.LoadScenario(path)
	if err != nil {
		return err
	}
	tester := headlesstest.NewTesterWithConfig(cfg)
	if err := s.Run(tester, nil); err != nil {
		return err
	}

	in, err := tester.Engine().StartInspector(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Inspecting %s at http://%s (Ctrl+C to stop)\n", path, in.Addr())
	if ready != nil {
		ready(in.Addr().String())
	}

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return in.Close(shutdown)
}
