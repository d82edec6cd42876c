// internal/color/score.go
//
// Similarity scoring between a guessed color and a reference color.
//
// Two policies are supported:
//   - PolicyRGB: mean over channels of (1 - |guess - reference|).
//   - PolicyHSB: hue similarity weighted 0.70, saturation 0.15, brightness 0.15.
//     Hue similarity is 1 at an exact match and 0 at the antipodal hue
//     (reference ± 0.5), linear in the circular distance between.
//
// Scores are computed as 1 - weighted deficit, so identical inputs score
// exactly 1.0 and the result is always clamped to [0,1].

package color

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Policy selects a scoring algorithm.
type Policy int

const (
	PolicyHSB Policy = iota
	PolicyRGB
)

const (
	hueWeight        = 0.70
	saturationWeight = 0.15
	brightnessWeight = 0.15
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown scoring policy")

// DefaultPolicy is the canonical policy used when none is configured.
const DefaultPolicy = PolicyHSB

// ParsePolicy maps "hsb" / "rgb" (case-insensitive) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hsb":
		return PolicyHSB, nil
	case "rgb":
		return PolicyRGB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p Policy) String() string {
	if p == PolicyRGB {
		return "rgb"
	}
	return "hsb"
}

// MarshalText lets policies travel as "hsb"/"rgb" in JSON and YAML.
func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Score returns the similarity of guess to reference in [0,1] under policy p.
func Score(p Policy, guess, reference RGB) float64 {
	guess, reference = guess.Clamp(), reference.Clamp()

	var deficit float64
	switch p {
	case PolicyRGB:
		deficit = (math.Abs(guess.R-reference.R) +
			math.Abs(guess.G-reference.G) +
			math.Abs(guess.B-reference.B)) / 3
	default:
		g, r := guess.HSB(), reference.HSB()
		deficit = hueWeight*2*HueDistance(g.H, r.H) +
			saturationWeight*math.Abs(g.S-r.S) +
			brightnessWeight*math.Abs(g.B-r.B)
	}
	return clamp01(1 - deficit)
}

// HueDistance is the circular distance between two hues in [0,1], in [0,0.5].
func HueDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 1)
	if d > 0.5 {
		d = 1 - d
	}
	return d
}
