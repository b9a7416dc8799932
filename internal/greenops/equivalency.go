package greenops

import (
	"fmt"
	"math"
)

// EquivalencyType is a category of everyday equivalent.
type EquivalencyType int

const (
	EquivalencyMilesDriven EquivalencyType = iota
	EquivalencySmartphonesCharged
	EquivalencyTreeSeedlings
	EquivalencyHomeDays
)

// String returns the type name.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	case EquivalencyHomeDays:
		return "HomeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// EquivalencyResult is one calculated equivalent.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput holds all equivalents for one carbon figure.
type EquivalencyOutput struct {
	InputKg     float64             `json:"input_kg"`
	Results     []EquivalencyResult `json:"results,omitempty"`
	DisplayText string              `json:"display_text,omitempty"`
	CompactText string              `json:"compact_text,omitempty"`
	IsEmpty     bool                `json:"is_empty"`
}

type factor struct {
	typ   EquivalencyType
	kg    float64
	label string
}

//nolint:gochecknoglobals // Fixed EPA table.
var factors = []factor{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity"},
}

// Calculate computes equivalencies for kg CO2e.
//
// Values below MinEquivalencyThresholdKg return an empty output and no
// error. The display text names the two most familiar equivalents:
// "Equivalent to driving ~{miles} miles or charging ~{phones} smartphones".
func Calculate(kg float64) (EquivalencyOutput, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return EquivalencyOutput{IsEmpty: true}, ErrNegativeValue
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	results := make([]EquivalencyResult, 0, len(factors))
	for _, f := range factors {
		v := kg / f.kg
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
		results = append(results, EquivalencyResult{
			Type:           f.typ,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          f.label,
		})
	}

	miles := results[EquivalencyMilesDriven].FormattedValue
	phones := results[EquivalencySmartphonesCharged].FormattedValue

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", miles, phones),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", miles, phones),
	}, nil
}

// Get returns the result of type t, if present.
func (o EquivalencyOutput) Get(t EquivalencyType) (EquivalencyResult, bool) {
	for _, r := range o.Results {
		if r.Type == t {
			return r, true
		}
	}
	return EquivalencyResult{}, false
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
