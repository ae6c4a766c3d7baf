package block

import (
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// borderScale is the fixed factor applied to fill channels for the border.
const borderScale = 0.75

// Color is an 8-bit-per-channel RGBA fill color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color from a 0xRRGGBB value. Bits above 24 are ignored.
func RGB(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// RGB returns the color as 0x00RRGGBB, dropping alpha.
func (c Color) RGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Border returns the border color: every RGB channel scaled by 0.75,
// alpha preserved.
func (c Color) Border() Color {
	scale := func(v uint8) uint8 { return uint8(float64(v) * borderScale) }
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// Opaque returns c with alpha forced to 0xff.
func (c Color) Opaque() Color {
	c.A = 0xff
	return c
}

// Hex formats the RGB channels as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// ParseColor parses "#rrggbb", "#rgb", "rrggbb" or "0xRRGGBB". The result
// is opaque.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		v, err := strconv.ParseUint(rest, 16, 32)
		if err != nil || len(rest) > 8 {
			return Color{}, bderrors.New(bderrors.ErrCodeInvalidColor, "invalid color: %q", s)
		}
		return RGB(uint32(v)), nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, bderrors.Wrap(bderrors.ErrCodeInvalidColor, err, "invalid color: %q", s)
	}
	r, g, b := cf.RGB255()
	return Color{R: r, G: g, B: b, A: 0xff}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
