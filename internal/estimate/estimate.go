package estimate

import (
	"strings"

	"carbonwise/internal/util"
)

type Mode string

const (
	ModeCar   Mode = "car"
	ModeBus   Mode = "bus"
	ModeMetro Mode = "metro"
	ModeTrain Mode = "train"
	ModeBike  Mode = "bike"
	ModeWalk  Mode = "walk"
)

type ModeInfo struct {
	Mode   Mode    `json:"value"`
	Label  string  `json:"label"`
	Factor float64 `json:"factor"`
}

// kg CO2e per km.
var modes = []ModeInfo{
	{Mode: ModeCar, Label: "Car/Taxi", Factor: 0.2},
	{Mode: ModeBus, Label: "Bus", Factor: 0.05},
	{Mode: ModeMetro, Label: "Metro/Train", Factor: 0.04},
	{Mode: ModeTrain, Label: "Metro/Train", Factor: 0.04},
	{Mode: ModeBike, Label: "Bike", Factor: 0},
	{Mode: ModeWalk, Label: "Walking", Factor: 0},
}

func Modes() []ModeInfo {
	out := make([]ModeInfo, len(modes))
	copy(out, modes)
	return out
}

func Factor(mode Mode) (float64, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(string(mode))))
	for _, info := range modes {
		if info.Mode == m {
			return info.Factor, true
		}
	}
	return 0, false
}

// Estimate returns kg CO2e for a trip. Unknown modes and negative distances
// yield 0.
func Estimate(distance float64, mode Mode) float64 {
	factor, ok := Factor(mode)
	if !ok || distance < 0 {
		return 0
	}
	return distance * factor
}

// EstimateText is Estimate over raw form input; a blank or unparsable
// distance yields 0.
func EstimateText(distance, mode string) float64 {
	if strings.TrimSpace(distance) == "" || strings.TrimSpace(mode) == "" {
		return 0
	}
	d, ok := util.ParseFloat(distance)
	if !ok {
		return 0
	}
	return Estimate(d, Mode(mode))
}
