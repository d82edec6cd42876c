// internal/color/color.go
//
// Color model for the guessing game.
// Defines:
//   - RGB: red/green/blue channels, each normalized to [0,1].
//   - HSB: hue/saturation/brightness, each normalized to [0,1] (hue wraps).
//   - Clamp/Validate helpers enforcing the [0,1] channel invariant.
//   - Hex parsing/formatting (parsing is delegated to go-colorful).
//
// Conversions between RGB and HSB live in convert.go; scoring in score.go.

package color

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrChannelOutOfRange is returned when any channel lies outside [0,1] or is NaN.
var ErrChannelOutOfRange = errors.New("color channel out of range")

// ErrInvalidHex is returned by ParseHex for malformed input.
var ErrInvalidHex = errors.New("invalid hex color")

// RGB is a color in normalized red/green/blue space.
type RGB struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// HSB is a color in normalized hue/saturation/brightness space.
type HSB struct {
	H float64 `json:"h" yaml:"h"`
	S float64 `json:"s" yaml:"s"`
	B float64 `json:"b" yaml:"b"`
}

// Clamp returns c with every channel forced into [0,1]. NaN becomes 0.
func (c RGB) Clamp() RGB {
	return RGB{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// Validate reports the first channel outside [0,1].
func (c RGB) Validate() error {
	return validate(
		channel{"r", c.R},
		channel{"g", c.G},
		channel{"b", c.B},
	)
}

// Clamp returns h with every channel forced into [0,1]. NaN becomes 0.
func (h HSB) Clamp() HSB {
	return HSB{H: clamp01(h.H), S: clamp01(h.S), B: clamp01(h.B)}
}

// Validate reports the first channel outside [0,1].
func (h HSB) Validate() error {
	return validate(
		channel{"h", h.H},
		channel{"s", h.S},
		channel{"b", h.B},
	)
}

// ParseHex parses "#rrggbb", "rrggbb", "#rgb" or "rgb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return RGB{R: c.R, G: c.G, B: c.B}.Clamp(), nil
}

// MustHex is ParseHex for compile-time constants; it panics on bad input.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex renders c as "#rrggbb".
func (c RGB) Hex() string {
	c = c.Clamp()
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Hex()
}

func (c RGB) String() string { return c.Hex() }

type channel struct {
	name string
	v    float64
}

func validate(chs ...channel) error {
	for _, ch := range chs {
		if math.IsNaN(ch.v) || ch.v < 0 || ch.v > 1 {
			return fmt.Errorf("%w: %s=%v", ErrChannelOutOfRange, ch.name, ch.v)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
