// Package config loads topoviz settings.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. built-in defaults ([Defaults])
//  2. a TOML file: the --config path, or ./topoviz.toml when present
//  3. environment variables prefixed TOPOVIZ_ (TOPOVIZ_MODE=undirected)
//  4. command-line flags that were set explicitly
//
// Device classes can only come from defaults or the TOML file:
//
//	[[classes]]
//	name = "backbone"
//	weight = 1
//	color = "g"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	ktoml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/layout"
	"github.com/matzehuels/topoviz/pkg/render"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// DefaultFile is the config file picked up from the working directory.
const DefaultFile = "topoviz.toml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "TOPOVIZ_"

// Config holds all settings of a run.
type Config struct {
	Mode                  string  `koanf:"mode" toml:"mode" validate:"required"`
	PreferLowerWeightEdge bool    `koanf:"prefer_lower_weight_edge" toml:"prefer_lower_weight_edge"`
	Bounce                bool    `koanf:"bounce" toml:"bounce"`
	SpanningTree          bool    `koanf:"spanning_tree" toml:"spanning_tree"`
	WeightedLines         bool    `koanf:"weighted_lines" toml:"weighted_lines"`
	Labels                bool    `koanf:"labels" toml:"labels"`
	Seed                  uint64  `koanf:"seed" toml:"seed"`
	Iterations            int     `koanf:"iterations" toml:"iterations" validate:"gte=1"`
	Width                 int     `koanf:"width" toml:"width" validate:"gte=64"`
	Height                int     `koanf:"height" toml:"height" validate:"gte=64"`
	NodeRadius            float64 `koanf:"node_radius" toml:"node_radius" validate:"gt=0"`

	Classes []Class `koanf:"classes" toml:"classes" validate:"required,min=1,dive"`
}

// Class is the configuration form of a [topology.DeviceClass].
type Class struct {
	Name   string `koanf:"name" toml:"name" validate:"required"`
	Weight int    `koanf:"weight" toml:"weight"`
	Color  string `koanf:"color" toml:"color" validate:"required"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	cfg := &Config{
		Mode:                  string(render.ModeDirected),
		PreferLowerWeightEdge: true,
		Bounce:                true,
		SpanningTree:          false,
		WeightedLines:         true,
		Labels:                true,
		Seed:                  1,
		Iterations:            layout.DefaultIterations,
		Width:                 render.DefaultWidth,
		Height:                render.DefaultHeight,
		NodeRadius:            render.DefaultNodeRadius,
	}
	for _, c := range topology.DefaultClasses() {
		cfg.Classes = append(cfg.Classes, Class{Name: c.Name, Weight: c.Weight, Color: c.Color})
	}
	return cfg
}

// keys lists every config key a flag may set.
var keys = map[string]bool{
	"mode":                     true,
	"prefer_lower_weight_edge": true,
	"bounce":                   true,
	"spanning_tree":            true,
	"weighted_lines":           true,
	"labels":                   true,
	"seed":                     true,
	"iterations":               true,
	"width":                    true,
	"height":                   true,
	"node_radius":              true,
}

// Load builds the effective configuration. path names an explicit config file
// and must exist when set; f may be nil.
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(defaultsMap()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), ktoml.Parser()); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
			key := strings.ReplaceAll(fl.Name, "-", "_")
			if !keys[key] {
				return "", nil
			}
			return key, posflag.FlagVal(f, fl)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges, device classes, and colours.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s", formatValidationError(verrs[0]))
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if _, err := c.ModeValue(); err != nil {
		return err
	}
	for i, cl := range c.Classes {
		if _, err := render.ParseColor(cl.Color); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "classes[%d] %q", i, cl.Name)
		}
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

// Registry converts the configured classes into a device-class registry.
// Class IDs follow list order.
func (c *Config) Registry() (topology.Registry, error) {
	classes := make([]topology.DeviceClass, len(c.Classes))
	for i, cl := range c.Classes {
		classes[i] = topology.DeviceClass{Name: cl.Name, Weight: cl.Weight, Color: cl.Color}
	}
	reg, err := topology.NewRegistry(classes...)
	if err != nil {
		return topology.Registry{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "device classes")
	}
	return reg, nil
}

// ModeValue returns the parsed edge classification mode.
func (c *Config) ModeValue() (render.Mode, error) {
	return render.ParseMode(c.Mode)
}

// TOML renders the configuration as a TOML document that [Load] accepts.
func (c *Config) TOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

func defaultsMap() map[string]interface{} {
	d := Defaults()
	classes := make([]interface{}, len(d.Classes))
	for i, c := range d.Classes {
		classes[i] = map[string]interface{}{
			"name":   c.Name,
			"weight": c.Weight,
			"color":  c.Color,
		}
	}
	return map[string]interface{}{
		"mode":                     d.Mode,
		"prefer_lower_weight_edge": d.PreferLowerWeightEdge,
		"bounce":                   d.Bounce,
		"spanning_tree":            d.SpanningTree,
		"weighted_lines":           d.WeightedLines,
		"labels":                   d.Labels,
		"seed":                     d.Seed,
		"iterations":               d.Iterations,
		"width":                    d.Width,
		"height":                   d.Height,
		"node_radius":              d.NodeRadius,
		"classes":                  classes,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	return v
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got %v)", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// mapProvider serves an in-memory map as a koanf provider.
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}
