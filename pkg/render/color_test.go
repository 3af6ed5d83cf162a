package render

import (
	"testing"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"g", "#008000"},
		{"y", "#bfbf00"},
		{"r", "#ff0000"},
		{"b", "#0000ff"},
		{"Orange", "#ffa500"},
		{"#1a2B3c", "#1a2b3c"},
		{"#fff", "#ffffff"},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tt.in, err)
			continue
		}
		if got := c.Hex(); got != tt.want {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "q", "notacolour", "#12", "#zzzzzz"} {
		_, err := ParseColor(in)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
			t.Errorf("ParseColor(%q) error = %v, want INVALID_CONFIG", in, err)
		}
	}
}
