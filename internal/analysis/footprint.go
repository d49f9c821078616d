package analysis

import (
	"carbonwise/internal"
	"carbonwise/internal/util"
)

// kg CO2e per unit.
const (
	factorCar            = 0.21
	factorBus            = 0.05
	factorMetro          = 0.04
	factorFlightDomestic = 0.255
	factorElectricity    = 0.43
	factorGas            = 2.04
	factorHeatingOil     = 2.52
	factorMeal           = 5.5
	factorShoppingItem   = 20
)

const (
	SourceUpload = "upload"
	SourceManual = "manual"
)

type ActivityEmission struct {
	Source          string            `json:"source"`
	Type            internal.Category `json:"type"`
	Description     string            `json:"description"`
	Amount          float64           `json:"amount"`
	Unit            string            `json:"unit"`
	Period          string            `json:"period,omitempty"`
	CarbonEmissions float64           `json:"carbonEmissions"`
}

type CategoryTotal struct {
	Category   internal.Category `json:"category"`
	Emissions  float64           `json:"emissions"`
	Percentage float64           `json:"percentage"`
}

type Footprint struct {
	TotalEmissions float64            `json:"totalEmissions"`
	Breakdown      []CategoryTotal    `json:"breakdown"`
	Activities     []ActivityEmission `json:"activities"`
}

func (f Footprint) CategoryEmissions(c internal.Category) float64 {
	for _, b := range f.Breakdown {
		if b.Category == c {
			return b.Emissions
		}
	}
	return 0
}

// Calculate turns a snapshot into per-activity emissions and category totals.
func Calculate(snap internal.AnalysisSnapshot) Footprint {
	var records []ActivityEmission
	for _, f := range snap.Files {
		if f.ExtractedData == nil {
			continue
		}
		d := f.ExtractedData
		records = append(records, ActivityEmission{
			Source:          SourceUpload,
			Type:            d.Type,
			Description:     f.File.Name,
			Amount:          d.Amount,
			Period:          d.Period,
			CarbonEmissions: d.CarbonEmissions,
		})
	}
	for _, a := range snap.Activities {
		if rec, ok := manualEmission(a); ok {
			records = append(records, rec)
		}
	}

	totals := map[internal.Category]float64{}
	total := 0.0
	for _, r := range records {
		totals[r.Type] += r.CarbonEmissions
		total += r.CarbonEmissions
	}

	fp := Footprint{TotalEmissions: util.Round(total, 2), Activities: records}
	for _, c := range internal.Categories {
		pct := 0.0
		if total > 0 {
			pct = util.Round(totals[c]/total*100, 1)
		}
		fp.Breakdown = append(fp.Breakdown, CategoryTotal{
			Category:   c,
			Emissions:  util.Round(totals[c], 2),
			Percentage: pct,
		})
	}
	return fp
}

func manualEmission(a internal.ManualActivity) (ActivityEmission, bool) {
	category, ok := internal.ParseCategory(a.Type)
	if !ok {
		return ActivityEmission{}, false
	}
	amount, ok := util.ParseFloat(a.Value)
	if !ok {
		return ActivityEmission{}, false
	}
	unit := a.Unit

	var factor float64
	switch category {
	case internal.CategoryTransport:
		factor = transportFactor(a.Description)
	case internal.CategoryEnergy:
		factor = energyFactor(a.Description, unit)
	case internal.CategoryFood:
		factor = factorMeal
	case internal.CategoryShopping:
		factor = factorShoppingItem
	}

	return ActivityEmission{
		Source:          SourceManual,
		Type:            category,
		Description:     a.Description,
		Amount:          amount,
		Unit:            unit,
		CarbonEmissions: amount * factor,
	}, true
}

// transportFactor picks a mode from the description; driving is assumed
// when nothing matches.
func transportFactor(description string) float64 {
	switch {
	case util.ContainsAny(description, "bike", "bicycle", "cycling", "walk"):
		return 0
	case util.ContainsAny(description, "bus"):
		return factorBus
	case util.ContainsAny(description, "train", "metro", "subway", "tram"):
		return factorMetro
	case util.ContainsAny(description, "flight", "plane", "fly"):
		return factorFlightDomestic
	default:
		return factorCar
	}
}

func energyFactor(description, unit string) float64 {
	switch {
	case util.NormalizeUnit(unit) == "m3" || util.ContainsAny(description, "gas"):
		return factorGas
	case util.NormalizeUnit(unit) == "l" || util.ContainsAny(description, "oil"):
		return factorHeatingOil
	default:
		return factorElectricity
	}
}
