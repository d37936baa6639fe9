package assembly

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// Config holds the visual parameters of a page.
// Colours set to nil are not painted.
type Config struct {
	PadColor          color.Color
	PadHighlightColor color.Color

	BoxColor              color.Color
	BoxHighlightColor     color.Color
	BoxHighlightStroke    color.Color
	BoxHighlightLineWidth float64 // points

	EdgeColor     color.Color
	EdgeLineWidth float64 // points

	TextColor color.Color
	FontSize  float64 // points

	PadScale float64 // applied to pad width and height
	TextGap  float64 // distance between board and title/reference lines, mm

	PageWidth  float64 // mm
	PageHeight float64 // mm
	PageMargin float64 // mm

	// AllowPadless draws highlighted footprints without pads instead of
	// failing with ErrNoPads.
	AllowPadless bool

	// Logger receives rendering diagnostics. nil discards them.
	Logger *zap.Logger
}

// DefaultConfig returns the standard look: grey pads, dark red highlighted
// pads on pink boxes, on a 5.8 x 8.2 inch portrait page.
func DefaultConfig() Config {
	return Config{
		PadColor:              colornames.Lightgray,
		PadHighlightColor:     color.RGBA{R: 0xAA, A: 0xFF},
		BoxColor:              nil,
		BoxHighlightColor:     color.RGBA{R: 0xE9, G: 0xAF, B: 0xAF, A: 0xFF},
		BoxHighlightStroke:    color.RGBA{R: 0xAA, A: 0xFF},
		BoxHighlightLineWidth: 0.1,
		EdgeColor:             colornames.Black,
		EdgeLineWidth:         1,
		TextColor:             colornames.Black,
		FontSize:              10,
		PadScale:              0.9,
		TextGap:               0.5,
		PageWidth:             5.8 * 25.4,
		PageHeight:            8.2 * 25.4,
		PageMargin:            10,
	}
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Validate reports settings that cannot produce a page.
func (c *Config) Validate() error {
	if c.PadScale <= 0 {
		return fmt.Errorf("pad scale must be positive, got %g", c.PadScale)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %g", c.FontSize)
	}
	if c.PageWidth <= 2*c.PageMargin || c.PageHeight <= 2*c.PageMargin {
		return fmt.Errorf("page %gx%g mm leaves no room inside %g mm margins", c.PageWidth, c.PageHeight, c.PageMargin)
	}
	return nil
}

// ParseColor accepts an SVG colour name ("lightgray"), a hex triplet
// ("#AA0000" or "#A00") or "none". "none" and "" return nil.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "transparent":
		return nil, nil
	}

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return nil, fmt.Errorf("invalid colour %q: want #RRGGBB", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown colour %q", s)
}
