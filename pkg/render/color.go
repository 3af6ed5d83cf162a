package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
)

// Single-letter colour codes as used by common plotting tools.
var shortColors = map[string]string{
	"b": "#0000ff",
	"g": "#008000",
	"r": "#ff0000",
	"c": "#00bfbf",
	"m": "#bf00bf",
	"y": "#bfbf00",
	"k": "#000000",
	"w": "#ffffff",
}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"navy":    "#000080",
	"teal":    "#008080",
}

// Fixed colours that are not tied to a device class.
var (
	OverlayColor    = colorful.Color{R: 0, G: 0, B: 0}
	LabelColor      = colorful.Color{R: 0, G: 0, B: 0}
	BackgroundColor = colorful.Color{R: 1, G: 1, B: 1}
)

// ParseColor accepts a single-letter code (b g r c m y k w), a colour name
// or a #rrggbb / #rgb hex string.
func ParseColor(value string) (colorful.Color, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if hex, ok := shortColors[s]; ok {
		s = hex
	} else if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return colorful.Color{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown colour %q", value)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid colour %q", value)
	}
	return c, nil
}
