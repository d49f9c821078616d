package analysis

import (
	"fmt"

	"carbonwise/internal"
	"carbonwise/internal/util"
)

const (
	MonthlyTarget  = 150.0
	MonthlyAverage = 180.0
)

var weeklyTrendFactors = []float64{1.2, 1.1, 1.05, 1.0}

type Summary struct {
	Footprint
	WeeklyTrend []internal.WeeklyPoint `json:"weeklyTrend"`
	Suggestions []internal.Suggestion  `json:"suggestions"`
	EcoScore    float64                `json:"ecoScore"`
	VsTarget    float64                `json:"vsTarget"`
	VsAverage   float64                `json:"vsAverage"`
	Timestamp   string                 `json:"timestamp"`
}

func Summarize(snap internal.AnalysisSnapshot) Summary {
	fp := Calculate(snap)
	return Summary{
		Footprint:   fp,
		WeeklyTrend: WeeklyTrend(fp.TotalEmissions),
		Suggestions: Suggest(fp),
		EcoScore:    EcoScore(fp.TotalEmissions),
		VsTarget:    util.Round(fp.TotalEmissions-MonthlyTarget, 2),
		VsAverage:   util.Round(fp.TotalEmissions-MonthlyAverage, 2),
		Timestamp:   snap.Timestamp,
	}
}

// EcoScore maps 0 kg to 100 and 200 kg or more to 0.
func EcoScore(total float64) float64 {
	score := 100 - total/200*100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return util.Round(score, 1)
}

// WeeklyTrend back-fills four weeks that converge on the current total.
func WeeklyTrend(total float64) []internal.WeeklyPoint {
	out := make([]internal.WeeklyPoint, 0, len(weeklyTrendFactors))
	for i, f := range weeklyTrendFactors {
		out = append(out, internal.WeeklyPoint{
			Week:      fmt.Sprintf("Week %d", i+1),
			Emissions: util.Round(total*f, 2),
			Target:    MonthlyTarget,
		})
	}
	return out
}

func Suggest(fp Footprint) []internal.Suggestion {
	var out []internal.Suggestion

	if transport := fp.CategoryEmissions(internal.CategoryTransport); transport > 50 {
		out = append(out, internal.Suggestion{
			Type:             internal.SuggestionAlert,
			Category:         string(internal.CategoryTransport),
			Title:            "High Transport Emissions",
			Description:      fmt.Sprintf("Your transport emissions are %.1fkg CO₂, which is above average.", transport),
			Recommendation:   "Try using public transport or carpooling 2-3 times per week to reduce emissions by up to 40%.",
			PotentialSavings: util.Round(transport*0.4, 2),
		})
	}
	if energy := fp.CategoryEmissions(internal.CategoryEnergy); energy > 30 {
		out = append(out, internal.Suggestion{
			Type:             internal.SuggestionTip,
			Category:         string(internal.CategoryEnergy),
			Title:            "Energy Optimization",
			Description:      fmt.Sprintf("Your energy consumption generated %.1fkg CO₂.", energy),
			Recommendation:   "Switch to LED bulbs and use energy-efficient appliances to reduce consumption by 15-20%.",
			PotentialSavings: util.Round(energy*0.18, 2),
		})
	}
	if food := fp.CategoryEmissions(internal.CategoryFood); food > 20 {
		out = append(out, internal.Suggestion{
			Type:             internal.SuggestionTip,
			Category:         string(internal.CategoryFood),
			Title:            "Sustainable Diet",
			Description:      fmt.Sprintf("Food choices contributed %.1fkg CO₂ to your footprint.", food),
			Recommendation:   "Reduce meat consumption by 1-2 meals per week and choose local, seasonal produce.",
			PotentialSavings: util.Round(food*0.25, 2),
		})
	}
	if fp.TotalEmissions < 100 {
		out = append(out, internal.Suggestion{
			Type:           internal.SuggestionAchievement,
			Category:       "overall",
			Title:          "Eco Champion!",
			Description:    "Your carbon footprint is below the recommended monthly target.",
			Recommendation: "Keep up the excellent work and inspire others to follow your example!",
		})
	}
	return out
}
