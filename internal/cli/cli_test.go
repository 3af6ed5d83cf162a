package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
)

const testDoc = `{
  "nodes": {
    "A": {"name": "A", "options": 0, "devclass": 0},
    "B": {"name": "B", "options": 0, "devclass": 2}
  },
  "edges": {
    "A_to_B": {"from": "A", "to": "B", "options": 0, "weight": 1}
  }
}`

// execute runs the root command with args and returns command output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "net.json"), []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRootUsage(t *testing.T) {
	workdir(t)

	for _, args := range [][]string{nil, {"net.json"}} {
		out, err := execute(t, args...)
		if err != nil {
			t.Errorf("execute(%v) error = %v, want nil", args, err)
		}
		if !strings.Contains(out, "<input.json> <output_image> [position_file]") {
			t.Errorf("execute(%v) output missing usage:\n%s", args, out)
		}
	}
}

func TestRootTooManyArgs(t *testing.T) {
	workdir(t)

	_, err := execute(t, "a.json", "b.svg", "c.cache", "d")
	if !apperrors.Is(err, apperrors.ErrCodeUsage) {
		t.Errorf("error = %v, want code %s", err, apperrors.ErrCodeUsage)
	}
}

func TestRootRender(t *testing.T) {
	dir := workdir(t)

	out, err := execute(t, "net.json", "net.svg", "net.cache", "--spanning-tree", "--width", "400")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	for _, f := range []string{"net.svg", "net.cache"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}
	if !strings.Contains(out, "Rendered svg") || !strings.Contains(out, "2 nodes") {
		t.Errorf("output = %q", out)
	}

	svg, _ := os.ReadFile(filepath.Join(dir, "net.svg"))
	if !strings.Contains(string(svg), `width="400"`) {
		t.Error("--width flag not applied")
	}

	// Second run reuses the cache.
	out, err = execute(t, "net.json", "net.svg", "net.cache", "--bounce=false")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(out, "cached 2") {
		t.Errorf("second run output = %q, want cached positions", out)
	}
}

func TestRootRenderErrors(t *testing.T) {
	workdir(t)

	tests := []struct {
		name string
		args []string
		code apperrors.Code
	}{
		{"unknown format", []string{"net.json", "net.bmp"}, apperrors.ErrCodeInvalidFormat},
		{"missing input", []string{"nope.json", "net.svg"}, apperrors.ErrCodeFileNotFound},
		{"bad mode", []string{"net.json", "net.svg", "--mode", "sideways"}, apperrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := workdir(t)

	out, err := execute(t, "validate", "net.json", "-o", "canonical.json")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	for _, want := range []string{"net.json is valid", "portable", "backbone"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "canonical.json")); err != nil {
		t.Errorf("canonical.json not written: %v", err)
	}

	if err := os.WriteFile("bad.json", []byte(`{"nodes": {"A": {"name": "B", "devclass": 0}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "validate", "bad.json"); !apperrors.IsValidation(err) {
		t.Errorf("validate(bad.json) error = %v, want validation error", err)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := workdir(t)
	if err := os.WriteFile(filepath.Join(dir, "topoviz.toml"), []byte("iterations = 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOPOVIZ_SEED", "7")

	out, err := execute(t, "config", "--mode", "undirected")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{`mode = "undirected"`, "iterations = 42", "seed = 7", "[[classes]]"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	workdir(t)

	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(out, "topoviz") {
		t.Error("bash completion does not mention topoviz")
	}
}

func TestShellCompletions(t *testing.T) {
	workdir(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"document", []string{"__complete", ""}, []string{"json", ":8"}},
		{"output image", []string{"__complete", "net.json", ""}, []string{"svg", "png", "jpeg", "pdf", "dot", ":8"}},
		{"position file", []string{"__complete", "net.json", "net.svg", ""}, []string{":0"}},
		{"watch output", []string{"__complete", "watch", "net.json", ""}, []string{"svg", "gv"}},
		{"mode flag", []string{"__complete", "--mode", ""}, []string{"directed", "undirected", ":4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute(%v) error = %v", tt.args, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("completion output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRootRenderMetricsFile(t *testing.T) {
	dir := workdir(t)

	if _, err := execute(t, "net.json", "net.svg", "--metrics-file", "topoviz.prom"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "topoviz.prom"))
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{"topoviz_document_nodes 2", "topoviz_stage_duration_seconds"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestWatchCommand(t *testing.T) {
	dir := workdir(t)

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"watch", "net.json", "net.svg"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	svg := filepath.Join(dir, "net.svg")
	waitFor(t, func() bool {
		_, err := os.Stat(svg)
		return err == nil
	})
	first, _ := os.Stat(svg)

	// A broken document is reported but does not stop watching.
	if err := os.WriteFile("net.json", []byte(`{"nodes": `), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	three := strings.Replace(testDoc, `"B": {"name": "B", "options": 0, "devclass": 2}`,
		`"B": {"name": "B", "options": 0, "devclass": 2}, "C": {"name": "C", "options": 0, "devclass": 1}`, 1)
	if err := os.WriteFile("net.json", []byte(three), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		info, err := os.Stat(svg)
		return err == nil && info.Size() != first.Size()
	})

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("watch returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met within 5s")
}
