package sink

import (
	"context"
	"path/filepath"
	"strings"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/render"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
	FormatDOT  Format = "dot"
)

var extensions = map[string]Format{
	".svg":  FormatSVG,
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".pdf":  FormatPDF,
	".dot":  FormatDOT,
	".gv":   FormatDOT,
}

// Extensions returns the recognised file extensions.
func Extensions() []string {
	return []string{".svg", ".png", ".jpg", ".jpeg", ".pdf", ".dot", ".gv"}
}

// FormatFromPath picks the format from path's extension, case-insensitively.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidFormat,
		"unsupported output format %q (supported: %s)", ext, strings.Join(Extensions(), ", "))
}

// Option configures rendering in every format.
type Option func(*options)

type options struct {
	title  string
	labels bool
}

func newOptions(opts []Option) options {
	o := options{labels: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTitle names the image: an SVG <title>, a DOT graph label. Raster
// formats ignore it.
func WithTitle(t string) Option { return func(o *options) { o.title = t } }

// WithoutLabels omits node and edge labels.
func WithoutLabels() Option { return func(o *options) { o.labels = false } }

// Render encodes s in format f.
func Render(ctx context.Context, s *render.Scene, f Format, opts ...Option) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatSVG:
		data = RenderSVG(s, opts...)
	case FormatPNG:
		data, err = RenderPNG(s, opts...)
	case FormatJPEG:
		data, err = RenderJPEG(s, DefaultJPEGQuality, opts...)
	case FormatPDF:
		data, err = RenderPDF(ctx, s, opts...)
	case FormatDOT:
		data, err = RenderDOT(ctx, s, opts...)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported output format %q", f)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRender, err, "render %s", f)
	}
	return data, nil
}
