// Package greenops turns carbon figures into units and everyday equivalents.
//
// Predictions are carried in kgCO2e. This package converts other carbon
// units into kilograms, converts kilograms into tonnes for classification,
// and expresses a total as EPA equivalencies ("driving ~781 miles").
package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrInvalidUnit indicates an unrecognized carbon unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative carbon value.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a NaN, infinite or overflowing value.
	ErrCalculationOverflow = constError("calculation overflow")
)

// EPA Greenhouse Gas Equivalencies Calculator factors, kg CO2e per unit.
// equivalency = kg_CO2e / factor
const (
	EPAMilesDrivenFactor      = 0.192
	EPASmartphoneChargeFactor = 0.00822
	EPATreeSeedlingFactor     = 60.0
	EPAHomeDayFactor          = 18.3
)

// Conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

const (
	// MinEquivalencyThresholdKg is the smallest value equivalencies are shown for.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches display to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches display to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
