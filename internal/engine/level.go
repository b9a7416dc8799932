package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/rshade/smartcarbon/internal/greenops"
)

// Default classification thresholds in tonnes CO2e.
const (
	DefaultSafeMaxTonnes    = 500.0
	DefaultAverageMaxTonnes = 2000.0
)

// Level is an emission classification.
type Level int

const (
	LevelSafe Level = iota
	LevelAverage
	LevelDanger
)

// String returns the display label.
func (l Level) String() string {
	switch l {
	case LevelSafe:
		return "Safe"
	case LevelAverage:
		return "Average"
	case LevelDanger:
		return "Danger"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Color returns the color name the level is displayed in.
func (l Level) Color() string {
	switch l {
	case LevelSafe:
		return "lightgreen"
	case LevelAverage:
		return "yellow"
	default:
		return "red"
	}
}

// MarshalText encodes the level as its label.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label, case-insensitively.
func (l *Level) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "safe":
		*l = LevelSafe
	case "average":
		*l = LevelAverage
	case "danger":
		*l = LevelDanger
	default:
		return fmt.Errorf("unknown level %q", string(b))
	}
	return nil
}

// Thresholds are the upper bounds, in tonnes, of the Safe and Average bands.
type Thresholds struct {
	SafeMaxTonnes    float64 `json:"safe_max_tonnes"    yaml:"safe_max_tonnes"`
	AverageMaxTonnes float64 `json:"average_max_tonnes" yaml:"average_max_tonnes"`
}

// DefaultThresholds returns 500 t / 2000 t.
func DefaultThresholds() Thresholds {
	return Thresholds{SafeMaxTonnes: DefaultSafeMaxTonnes, AverageMaxTonnes: DefaultAverageMaxTonnes}
}

// Validate checks that both bounds are finite, non-negative and ordered.
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.SafeMaxTonnes, t.AverageMaxTonnes} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: bounds must be finite and non-negative", ErrInvalidThresholds)
		}
	}
	if t.SafeMaxTonnes >= t.AverageMaxTonnes {
		return fmt.Errorf("%w: safe_max_tonnes (%g) must be below average_max_tonnes (%g)",
			ErrInvalidThresholds, t.SafeMaxTonnes, t.AverageMaxTonnes)
	}
	return nil
}

// Classify converts kg to tonnes and returns its band. Each bound is
// inclusive, so there is no value between bands.
func (t Thresholds) Classify(kg float64) Level {
	tonnes := greenops.KgToTonnes(kg)
	switch {
	case tonnes <= t.SafeMaxTonnes:
		return LevelSafe
	case tonnes <= t.AverageMaxTonnes:
		return LevelAverage
	default:
		return LevelDanger
	}
}

// Classify uses DefaultThresholds.
func Classify(kg float64) Level {
	return DefaultThresholds().Classify(kg)
}

// FormatStage renders a stage row: "12.34 kgCO2e - Safe".
func FormatStage(kg float64, level Level) string {
	return fmt.Sprintf("%.2f kgCO2e - %s", kg, level)
}

// FormatTotal renders the total line.
func FormatTotal(kg float64, level Level) string {
	return fmt.Sprintf("Calculated Total Carbon Emission: %.2f kgCO2e - %s", kg, level)
}

// FormatPrediction renders a stage form's result line.
func FormatPrediction(kg float64) string {
	return fmt.Sprintf("Predicted Total Carbon Emission: %.2f kgCO2e", kg)
}
