package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const toggleScenario = `
name: toggle
widgets:
  - {kind: switch, id: wifi, label: Wi-Fi}
steps:
  - tap: wifi
    expect: {id: wifi, value: "true"}
`

func setup(t *testing.T, scenario string) (dir, path string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/demo/panel\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path = filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatal(err)
	}
	out = &bytes.Buffer{}
	prev := stdout
	stdout = out
	t.Cleanup(func() { stdout = prev })
	return dir, path, out
}

func TestReplay(t *testing.T) {
	dir, path, out := setup(t, toggleScenario)

	if err := Execute([]string{"replay", path, "--root", dir}); err != nil {
		t.Fatalf("replay: %v", err)
	}

	scanner := bufio.NewScanner(out)
	scanner.Buffer(nil, 1<<20)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one step:\n%s", len(lines), out.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatal(err)
	}
	if h.Project != "panel" || h.Scenario != "toggle" || h.Steps != 1 {
		t.Errorf("header = %+v", h)
	}

	var step struct {
		Action    string   `json:"action"`
		Callbacks []string `json:"callbacks"`
		Result    struct {
			Activated bool `json:"activated"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &step); err != nil {
		t.Fatal(err)
	}
	if step.Action != "tap wifi" || !step.Result.Activated {
		t.Errorf("step = %+v", step)
	}
	if len(step.Callbacks) != 1 || step.Callbacks[0] != "wifi: changed true" {
		t.Errorf("callbacks = %v", step.Callbacks)
	}
}

func TestReplayFailingExpectation(t *testing.T) {
	dir, path, _ := setup(t, strings.Replace(toggleScenario, `"true"`, `"false"`, 1))
	err := Execute([]string{"replay", path, "--root", dir})
	if err == nil || !strings.Contains(err.Error(), "wifi.value") {
		t.Errorf("replay error = %v, want failed expectation", err)
	}
}

func TestReplayArguments(t *testing.T) {
	setup(t, toggleScenario)
	tests := [][]string{
		{"replay"},
		{"replay", "a.yaml", "b.yaml"},
		{"replay", "a.yaml", "--bogus", "x"},
		{"replay", "a.yaml", "--root"},
		{"nope"},
	}
	for _, args := range tests {
		if err := Execute(args); err == nil {
			t.Errorf("Execute(%q) should fail", args)
		}
	}
}

func TestVersionAndHelp(t *testing.T) {
	_, _, out := setup(t, toggleScenario)
	if err := Execute([]string{"--version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Errorf("version output = %q", out.String())
	}
	out.Reset()
	if err := Execute([]string{"replay", "--help"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "headless replay") {
		t.Errorf("help output = %q", out.String())
	}
}

func TestInspect(t *testing.T) {
	dir, path, _ := setup(t, toggleScenario)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addrs := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- inspect(ctx, []string{path, "--root", dir, "--addr", "localhost:0"}, func(addr string) { addrs <- addr })
	}()

	var addr string
	select {
	case addr = <-addrs:
	case err := <-done:
		t.Fatalf("inspect exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("inspector did not start")
	}

	resp, err := http.Get("http://" + addr + "/snapshot?id=wifi")
	if err != nil {
		t.Fatal(err)
	}
	var snap struct {
		Value bool `json:"value"`
	}
	err = json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Value {
		t.Error("served snapshot should show the switch on")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("inspect: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("inspect did not stop")
	}
}
