// Package datanorm normalizes the heterogeneous values coming back from
// the hosted CRM backend and the analytics SaaS APIs. Numeric fields in
// those rows may arrive as numbers, numeric strings, nulls, or be absent
// entirely; location fields are free text. Everything downstream
// (aggregation, ranking) works on the coerced values produced here.
package datanorm

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToSafeNumber coerces a raw field value to a float64. nil, empty
// strings, and anything that fails to parse come back as 0. It never
// panics regardless of input.
func ToSafeNumber(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Rate returns num/den as a percentage, or 0 when the denominator is 0.
// Every ratio in the dashboard goes through this guard so a quiet day
// never renders as NaN.
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// Round2 rounds to two decimal places. Applied at the output boundary
// only; intermediate math stays unrounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UnknownLocation is the sentinel label for leads with no usable
// location string.
const UnknownLocation = "Unknown Location"

// bareCountryCodes are location values that name a whole country rather
// than a city. They get the global annotation instead of a city one.
var bareCountryCodes = map[string]bool{
	"us":  true,
	"usa": true,
	"uk":  true,
	"uae": true,
	"eu":  true,
	"au":  true,
	"ca":  true,
}

// FormatLocationLabel turns a free-text location into a display-safe
// label. This is a labelling heuristic, not geocoding: a "City, Region"
// pair passes through unchanged, short values and bare country codes are
// tagged global, and everything else is treated as a bare city name.
func FormatLocationLabel(raw string) string {
	loc := strings.TrimSpace(raw)
	if loc == "" {
		return UnknownLocation
	}
	if strings.Contains(loc, ",") && len(loc) > 10 {
		return loc
	}
	if len(loc) <= 3 || bareCountryCodes[strings.ToLower(loc)] {
		return loc + " (Global)"
	}
	return loc + " (City)"
}
