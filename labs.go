package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// analyte describes one named lab measurement the parser knows about:
// an extraction pattern, a unit, and the reference thresholds used to
// classify the parsed value. A critical threshold of -1 means unset.
type analyte struct {
	Name     string
	Unit     string
	Pattern  *regexp.Regexp
	Low      float64
	High     float64
	CritLow  float64
	CritHigh float64
	// NormalizeCount divides raw absolute counts (e.g. "WBC: 22000")
	// by 1000 so they classify against the x10^3/uL thresholds.
	NormalizeCount bool
}

// labPattern builds the extraction regex for a named analyte. The value
// group tolerates thousands separators ("22,000") but not trailing
// punctuation.
func labPattern(names string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + names + `)\s*[:=]?\s*([0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?)`)
}

// analyteTable is the fixed set of analytes extracted from free text.
// Thresholds follow common adult reference ranges.
var analyteTable = []analyte{
	{Name: "WBC", Unit: "x10^3/uL", Pattern: labPattern(`wbc|white blood cells?`), Low: 4.0, High: 11.0, CritLow: 1.0, CritHigh: 30.0, NormalizeCount: true},
	{Name: "Hemoglobin", Unit: "g/dL", Pattern: labPattern(`hemoglobin|hgb|hb`), Low: 12.0, High: 17.5, CritLow: 7.0, CritHigh: 22.0},
	{Name: "Platelets", Unit: "x10^3/uL", Pattern: labPattern(`platelets?|plt`), Low: 150, High: 450, CritLow: 20, CritHigh: 1000, NormalizeCount: true},
	{Name: "Creatinine", Unit: "mg/dL", Pattern: labPattern(`creatinine|cr`), Low: 0.6, High: 1.3, CritLow: -1, CritHigh: 4.0},
	{Name: "Lactate", Unit: "mmol/L", Pattern: labPattern(`lactate|lactic acid`), Low: 0.5, High: 2.2, CritLow: -1, CritHigh: 4.0},
	{Name: "Troponin", Unit: "ng/mL", Pattern: labPattern(`troponin(?:\s*[it])?|trop`), Low: 0, High: 0.04, CritLow: -1, CritHigh: 0.5},
	{Name: "CRP", Unit: "mg/L", Pattern: labPattern(`crp|c-reactive protein`), Low: 0, High: 10, CritLow: -1, CritHigh: 100},
	{Name: "Glucose", Unit: "mg/dL", Pattern: labPattern(`glucose|blood sugar`), Low: 70, High: 140, CritLow: 40, CritHigh: 500},
	{Name: "Sodium", Unit: "mmol/L", Pattern: labPattern(`sodium|na`), Low: 135, High: 145, CritLow: 120, CritHigh: 160},
	{Name: "Potassium", Unit: "mmol/L", Pattern: labPattern(`potassium|k\+`), Low: 3.5, High: 5.0, CritLow: 2.5, CritHigh: 6.5},
	{Name: "Bilirubin", Unit: "mg/dL", Pattern: labPattern(`(?:total\s+)?bilirubin|tbili`), Low: 0.1, High: 1.2, CritLow: -1, CritHigh: 12.0},
}

// ParseLabValues extracts known analytes from free text and classifies
// each against its reference range. Missing analytes are simply omitted;
// partial extraction is expected and not an error. Pure function.
func ParseLabValues(text string) []LabValue {
	var labs []LabValue

	for _, a := range analyteTable {
		match := a.Pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		raw := match[1]
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}

		if a.NormalizeCount && value > 1000 {
			value = value / 1000
		}

		labs = append(labs, LabValue{
			Name:   a.Name,
			Value:  raw,
			Unit:   a.Unit,
			Status: a.classify(value),
		})
	}

	return labs
}

// classify assigns a status for a parsed value. Critical thresholds are
// checked first, then the normal range bounds.
func (a analyte) classify(value float64) string {
	if a.CritLow >= 0 && value <= a.CritLow {
		return "critical"
	}
	if a.CritHigh >= 0 && value >= a.CritHigh {
		return "critical"
	}
	if value < a.Low {
		return "low"
	}
	if value > a.High {
		return "high"
	}
	return "normal"
}

// FormatLabValues serializes labs in the "Name: value unit (status)" form
// used in case summaries. The serialized form round-trips through
// ParseLabValues with identical status classifications.
func FormatLabValues(labs []LabValue) string {
	var lines []string
	for _, lab := range labs {
		lines = append(lines, fmt.Sprintf("%s: %s %s (%s)", lab.Name, lab.Value, lab.Unit, lab.Status))
	}
	return strings.Join(lines, "\n")
}
