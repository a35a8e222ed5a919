package render

import (
	"image/color"
	"maps"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/timing"
)

// Palette assigns a fill color to each component.
type Palette map[timing.Component]color.Color

var defaultPalette = Palette{
	timing.ICE: colornames.Cyan,
	timing.LND: colornames.Limegreen,
	timing.ROF: colornames.Red,
	timing.OCN: colornames.Slateblue,
	timing.WAV: colornames.Darkblue,
	timing.ATM: colornames.Deepskyblue,
	timing.CPL: colornames.Darkorange,
}

// fallbackFill is used for components missing from a palette.
var fallbackFill color.Color = colornames.Gray

// DefaultPalette returns a copy of the built-in palette.
func DefaultPalette() Palette {
	return maps.Clone(defaultPalette)
}

// Fill returns the color for c.
func (p Palette) Fill(c timing.Component) color.Color {
	if clr, ok := p[c]; ok && clr != nil {
		return clr
	}
	return fallbackFill
}

// With returns a copy of p with overrides applied. Keys are component codes
// in any case; values are accepted by ParseColor.
func (p Palette) With(overrides map[string]string) (Palette, error) {
	out := maps.Clone(p)
	if out == nil {
		out = Palette{}
	}
	for code, value := range overrides {
		c, ok := timing.ParseComponent(code)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "color override for unknown component %q", code)
		}
		clr, err := ParseColor(value)
		if err != nil {
			return nil, err
		}
		out[c] = clr
	}
	return out, nil
}

// ParseColor accepts "#rrggbb", "#rgb" or an SVG color name ("slateblue").
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if clr, ok := colornames.Map[s]; ok {
		return clr, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidInput, "unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidInput, "invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
