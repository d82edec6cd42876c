package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samples = []RGB{
	{0, 0, 0},
	{1, 1, 1},
	{1, 0, 0},
	{0, 0, 1},
	{0.16, 0.32, 0.75},
	{0.93, 0.57, 0.13},
	{0.5, 0.5, 0.5},
	{0.2, 0.8, 0.4},
	{0.99, 0.01, 0.51},
}

func TestScoreIdentical(t *testing.T) {
	for _, p := range []Policy{PolicyRGB, PolicyHSB} {
		for _, c := range samples {
			assert.Equal(t, 1.0, Score(p, c, c), "%s policy, %v", p, c)
		}
	}
}

func TestScoreSymmetricAndBounded(t *testing.T) {
	for _, p := range []Policy{PolicyRGB, PolicyHSB} {
		for _, a := range samples {
			for _, b := range samples {
				ab, ba := Score(p, a, b), Score(p, b, a)
				assert.Equal(t, ab, ba, "%s policy, %v vs %v", p, a, b)
				assert.GreaterOrEqual(t, ab, 0.0)
				assert.LessOrEqual(t, ab, 1.0)
			}
		}
	}
}

func TestScoreRGBScenario(t *testing.T) {
	red, blue := RGB{1, 0, 0}, RGB{0, 0, 1}
	assert.Equal(t, 1.0, Score(PolicyRGB, red, red))
	assert.InDelta(t, 1.0/3, Score(PolicyRGB, red, blue), 1e-12)
	assert.Equal(t, 0.0, Score(PolicyRGB, RGB{0, 0, 0}, RGB{1, 1, 1}))
}

func TestScoreHSBAntipodalHue(t *testing.T) {
	for _, h := range []float64{0, 0.1, 0.45, 0.5, 0.8} {
		ref := HSB{H: h, S: 0.8, B: 0.6}
		opp := HSB{H: h + 0.5, S: 0.8, B: 0.6}
		if opp.H >= 1 {
			opp.H--
		}
		// Only the saturation and brightness weights remain.
		assert.InDelta(t, saturationWeight+brightnessWeight,
			Score(PolicyHSB, opp.RGB(), ref.RGB()), 1e-9, "hue %v", h)
	}
}

func TestScoreHSBWrapsHue(t *testing.T) {
	ref := HSB{H: 0.05, S: 1, B: 1}.RGB()
	near := HSB{H: 0.95, S: 1, B: 1}.RGB()
	// Circular distance 0.1 → hue similarity 0.8.
	assert.InDelta(t, 0.7*0.8+0.15+0.15, Score(PolicyHSB, near, ref), 1e-9)
}

func TestScoreHSBMatchesWorstHueConstruction(t *testing.T) {
	// Reference construction: worst hue = reference ± 0.5; similarity is
	// worst*2 when the guess is closer to the worst hue, else 1 - best*2.
	legacy := func(g, r float64) float64 {
		worst := r + 0.5
		if r >= 0.5 {
			worst = r - 0.5
		}
		wd, bd := abs(g-worst), abs(g-r)
		if wd < bd {
			return wd * 2
		}
		return 1 - bd*2
	}
	for _, g := range []float64{0, 0.1, 0.3, 0.55, 0.7, 0.95} {
		for _, r := range []float64{0, 0.2, 0.5, 0.65, 0.9} {
			assert.InDelta(t, legacy(g, r), 1-2*HueDistance(g, r), 1e-12, "g=%v r=%v", g, r)
		}
	}
}

func TestHueDistance(t *testing.T) {
	assert.Equal(t, 0.0, HueDistance(0.3, 0.3))
	assert.InDelta(t, 0.5, HueDistance(0, 0.5), 1e-12)
	assert.InDelta(t, 0.1, HueDistance(0.05, 0.95), 1e-12)
	assert.InDelta(t, 0.2, HueDistance(0.9, 0.1), 1e-12)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("RGB")
	require.NoError(t, err)
	assert.Equal(t, PolicyRGB, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy, p)

	_, err = ParsePolicy("lab")
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	var q Policy
	require.NoError(t, q.UnmarshalText([]byte("rgb")))
	assert.Equal(t, PolicyRGB, q)
	b, _ := PolicyHSB.MarshalText()
	assert.Equal(t, "hsb", string(b))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
