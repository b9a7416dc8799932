// Package model provides the per-stage predictors that turn a feature
// vector into an emission estimate in kgCO2e.
//
// Two predictor kinds exist. Product multiplies every numeric feature, which
// is the closed form the stage regressors were trained to approximate
// (e.g. mass x distance x fuel rate x carbon factor). Linear applies an
// intercept, per-column coefficients and optional per-category offsets
// loaded from a YAML model file.
package model

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Errors returned by predictors and the registry.
var (
	ErrEmptyFeatures   = errors.New("feature vector is empty")
	ErrFeatureMismatch = errors.New("feature columns and values differ in length")
	ErrNonFinite       = errors.New("prediction is not a finite number")
	ErrUnknownKind     = errors.New("unknown model kind")
	ErrStageMismatch   = errors.New("model file is for a different stage")
)

// Features is an ordered, named feature vector. The first column is the
// categorical index.
type Features struct {
	Columns []string
	Values  []float64
}

// NewFeatures pairs columns with values.
func NewFeatures(columns []string, values []float64) (Features, error) {
	if len(columns) != len(values) {
		return Features{}, fmt.Errorf("%w: %d columns, %d values", ErrFeatureMismatch, len(columns), len(values))
	}
	if len(columns) == 0 {
		return Features{}, ErrEmptyFeatures
	}
	return Features{Columns: columns, Values: values}, nil
}

// Category returns the categorical index held in the first column.
func (f Features) Category() int {
	if len(f.Values) == 0 {
		return -1
	}
	return int(f.Values[0])
}

// Predictor estimates emissions for one stage.
type Predictor interface {
	Predict(ctx context.Context, features Features) (float64, error)
}

// Kind names for model files.
const (
	KindProduct = "product"
	KindLinear  = "linear"
)

// Product multiplies every numeric (non-categorical) feature.
type Product struct{}

// Predict implements Predictor.
func (Product) Predict(ctx context.Context, features Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(features.Values) < 2 {
		return 0, ErrEmptyFeatures
	}

	result := 1.0
	for _, v := range features.Values[1:] {
		result *= v
	}
	return checkFinite(result)
}

// Linear is intercept + sum(coefficient x value) + category offset.
// Columns without a coefficient contribute nothing.
type Linear struct {
	Intercept       float64            `yaml:"intercept"`
	Coefficients    map[string]float64 `yaml:"coefficients"`
	CategoryOffsets []float64          `yaml:"category_offsets,omitempty"`
}

// Predict implements Predictor.
func (l Linear) Predict(ctx context.Context, features Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(features.Values) == 0 {
		return 0, ErrEmptyFeatures
	}

	result := l.Intercept
	for i := 1; i < len(features.Columns); i++ {
		result += l.Coefficients[features.Columns[i]] * features.Values[i]
	}
	if c := features.Category(); c >= 0 && c < len(l.CategoryOffsets) {
		result += l.CategoryOffsets[c]
	}
	return checkFinite(result)
}

// Func adapts a plain function to Predictor.
type Func func(ctx context.Context, features Features) (float64, error)

// Predict implements Predictor.
func (f Func) Predict(ctx context.Context, features Features) (float64, error) {
	return f(ctx, features)
}

func checkFinite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}
