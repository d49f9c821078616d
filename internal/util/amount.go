package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	unitPattern   = regexp.MustCompile(`(?i)\b(km|kms|mi|miles?|kwh|m3|cubic meters?|kg|meals?|items?|l|liters?|litres?)\b`)
	numberPattern = regexp.MustCompile(`(?:^|[^0-9.,])(\d{1,3}(?:[\s.,]\d{3})+|\d+(?:[.,]\d+)?)`)
	thousandsDot  = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	thousandsComa = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

type ParsedAmount struct {
	Value *float64
	Unit  *string
	Raw   *string
}

// ParseAmount pulls the last number and the first recognised unit out of a
// free-text value such as "12,5 km" or "1 200 kWh".
func ParseAmount(input string) ParsedAmount {
	line := strings.ReplaceAll(input, "\u00A0", " ")

	var out ParsedAmount
	if nm := numberPattern.FindAllStringSubmatch(line, -1); len(nm) > 0 {
		token := strings.TrimSpace(nm[len(nm)-1][1])
		out.Raw = StringPtr(token)
		if parsed, err := strconv.ParseFloat(normalizeNumericToken(token), 64); err == nil {
			out.Value = FloatPtr(parsed)
		}
	}

	if um := unitPattern.FindStringSubmatch(line); len(um) > 1 {
		out.Unit = StringPtr(NormalizeUnit(um[1]))
	}

	return out
}

// ParseFloat reads a plain numeric form value such as "-5", "1e3" or
// "12,5". Unlike ParseAmount it keeps the sign and rejects surrounding text.
func ParseFloat(input string) (float64, bool) {
	token := strings.TrimSpace(input)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(normalizeNumericToken(token), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch u {
	case "km", "kms":
		return "km"
	case "mi", "mile", "miles":
		return "mi"
	case "kwh":
		return "kWh"
	case "m3", "m³", "cubic meter", "cubic meters":
		return "m3"
	case "meal", "meals":
		return "meal"
	case "item", "items":
		return "item"
	case "l", "liter", "liters", "litre", "litres":
		return "l"
	default:
		return u
	}
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if thousandsDot.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if thousandsComa.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }
