// internal/catalog/tier.go
//
// Difficulty tiers and their display metadata.
// Each tier maps to a fixed row in tierTable (title, description, gauge color
// and gauge value), so the scoring core never switches on tiers itself.

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/colorguess/internal/color"
)

// Tier is a difficulty grouping of reference colors.
type Tier string

const (
	TierRegular    Tier = "regular"
	TierHard       Tier = "hard"
	TierImpossible Tier = "impossible"
)

// ErrUnknownTier is returned for tier names outside Tiers().
var ErrUnknownTier = errors.New("unknown tier")

// TierInfo describes how a tier is presented to the player.
type TierInfo struct {
	Tier        Tier      `json:"tier"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GaugeColor  color.RGB `json:"gaugeColor"`
	GaugeValue  float64   `json:"gaugeValue"`
}

var tierTable = []TierInfo{
	{
		Tier:        TierRegular,
		Title:       "Regular",
		Description: "Simple colors found on the color wheel, nothing too tricky here.",
		GaugeColor:  color.RGB{R: 0, G: 1, B: 0},
		GaugeValue:  1.0 / 3,
	},
	{
		Tier:        TierHard,
		Title:       "Hard",
		Description: "Ya know Crayola crayons? Yeah those types of names.",
		GaugeColor:  color.RGB{R: 1, G: 1, B: 0},
		GaugeValue:  2.0 / 3,
	},
	{
		Tier:        TierImpossible,
		Title:       "Impossible",
		Description: "Sherwin Williams paint colors. Good luck buckaroo!",
		GaugeColor:  color.RGB{R: 1, G: 0, B: 0},
		GaugeValue:  1,
	},
}

// Tiers returns every tier in ascending difficulty.
func Tiers() []Tier {
	out := make([]Tier, len(tierTable))
	for i, ti := range tierTable {
		out[i] = ti.Tier
	}
	return out
}

// TierInfos returns the presentation rows of every tier, in Tiers() order.
func TierInfos() []TierInfo {
	return append([]TierInfo(nil), tierTable...)
}

// ParseTier maps a case-insensitive name to a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := t.lookup(); ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Info returns the presentation row for t.
func (t Tier) Info() (TierInfo, error) {
	if ti, ok := t.lookup(); ok {
		return ti, nil
	}
	return TierInfo{}, fmt.Errorf("%w: %q", ErrUnknownTier, string(t))
}

// Title is a shorthand for Info().Title; unknown tiers return their raw name.
func (t Tier) Title() string {
	if ti, ok := t.lookup(); ok {
		return ti.Title
	}
	return string(t)
}

func (t Tier) lookup() (TierInfo, bool) {
	for _, ti := range tierTable {
		if ti.Tier == t {
			return ti, true
		}
	}
	return TierInfo{}, false
}
