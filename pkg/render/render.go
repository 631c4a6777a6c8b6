package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harrisonrobin/gantta/pkg/chart"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/overlay"
)

// ErrUnknownFormat is returned by ForFormat for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	FormatHTML = "html"
	FormatSVG  = "svg"
)

// ForFormat returns the renderer for "html" or "svg".
func ForFormat(format string) (chart.Renderer, error) {
	switch strings.ToLower(format) {
	case FormatHTML, "":
		return &HTML{CDN: DefaultPlotlyCDN}, nil
	case FormatSVG:
		return NewSVG(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// FormatFromPath guesses the output format from a file extension.
func FormatFromPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG
	case ".html", ".htm":
		return FormatHTML
	}
	return fallback
}

// axisBounds widens a single-day range by one day on each side so the date
// axis keeps a non-zero width.
func axisBounds(r overlay.VisibleRange) (lower, upper model.Date) {
	if r.Lower.Before(r.Upper) {
		return r.Lower, r.Upper
	}
	return r.Lower.AddDays(-1), r.Upper.AddDays(1)
}
