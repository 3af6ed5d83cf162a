package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/render"
)

func newFlags() *pflag.FlagSet {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.String("config", "", "")
	f.String("mode", "directed", "")
	f.Bool("prefer-lower-weight-edge", true, "")
	f.Bool("bounce", true, "")
	f.Bool("spanning-tree", false, "")
	f.Bool("weighted-lines", true, "")
	f.Bool("labels", true, "")
	f.Uint64("seed", 1, "")
	f.Int("iterations", 200, "")
	f.Int("width", 1200, "")
	f.Int("height", 900, "")
	f.Float64("node-radius", 12, "")
	f.CountP("verbose", "v", "")
	return f
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mode != "directed" || !cfg.Bounce || cfg.SpanningTree || !cfg.PreferLowerWeightEdge || !cfg.WeightedLines || !cfg.Labels {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Iterations != 200 || cfg.Width != render.DefaultWidth {
		t.Errorf("Load() = %+v", cfg)
	}
	if len(cfg.Classes) != 4 || cfg.Classes[2].Name != "portable" || cfg.Classes[2].Weight != 6 {
		t.Errorf("Classes = %+v", cfg.Classes)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if reg.Len() != 4 {
		t.Errorf("Registry().Len() = %d, want 4", reg.Len())
	}
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, DefaultFile, `
mode = "undirected"
iterations = 50
width = 800

[[classes]]
name = "core"
weight = 2
color = "k"

[[classes]]
name = "edge"
weight = 5
color = "#ff8800"
`)
	t.Setenv("TOPOVIZ_ITERATIONS", "75")
	t.Setenv("TOPOVIZ_BOUNCE", "false")

	f := newFlags()
	if err := f.Parse([]string{"--width", "640", "--spanning-tree", "--labels=false"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file mode", cfg.Mode, "undirected"},
		{"env iterations", cfg.Iterations, 75},
		{"env bounce", cfg.Bounce, false},
		{"flag width", cfg.Width, 640},
		{"flag spanning tree", cfg.SpanningTree, true},
		{"flag labels", cfg.Labels, false},
		{"default weighted lines", cfg.WeightedLines, true},
		{"default height", cfg.Height, render.DefaultHeight},
		{"file classes", len(cfg.Classes), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
	if m, err := cfg.ModeValue(); err != nil || m != render.ModeUndirected {
		t.Errorf("ModeValue() = %v, %v", m, err)
	}
}

func TestLoadUnsetFlagKeepsFileValue(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "custom.toml", "bounce = false\n")

	f := newFlags()
	if err := f.Parse(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(f, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bounce {
		t.Error("unset --bounce flag overrode the file value")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tests := []struct {
		name string
		body string
		code apperrors.Code
	}{
		{"bad mode", `mode = "sideways"`, apperrors.ErrCodeInvalidConfig},
		{"bad iterations", `iterations = 0`, apperrors.ErrCodeInvalidConfig},
		{"bad colour", "[[classes]]\nname = \"a\"\ncolor = \"nope\"\n", apperrors.ErrCodeInvalidConfig},
		{"duplicate class", "[[classes]]\nname = \"a\"\ncolor = \"r\"\n[[classes]]\nname = \"a\"\ncolor = \"g\"\n", apperrors.ErrCodeInvalidConfig},
		{"unnamed class", "[[classes]]\ncolor = \"r\"\n", apperrors.ErrCodeInvalidConfig},
		{"malformed", `mode = `, apperrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "c.toml", tt.body)
			_, err := Load(nil, path)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}

	_, err := Load(nil, filepath.Join(dir, "missing.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, apperrors.ErrCodeFileNotFound)
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	want := Defaults()
	want.Mode = "undirected"
	want.Seed = 42
	want.Classes = want.Classes[:2]

	data, err := want.TOML()
	if err != nil {
		t.Fatalf("TOML() error = %v", err)
	}
	path := writeFile(t, dir, "dump.toml", string(data))

	got, err := Load(nil, path)
	if err != nil {
		t.Fatalf("Load(dump) error = %v", err)
	}
	if got.Mode != want.Mode || got.Seed != want.Seed || len(got.Classes) != 2 {
		t.Errorf("Load(dump) = %+v, want %+v", got, want)
	}
	if got.Classes[1] != want.Classes[1] {
		t.Errorf("Classes[1] = %+v, want %+v", got.Classes[1], want.Classes[1])
	}
}
