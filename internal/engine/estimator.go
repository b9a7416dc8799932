package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rshade/smartcarbon/internal/catalog"
	"github.com/rshade/smartcarbon/internal/greenops"
	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/model"
	"github.com/rshade/smartcarbon/internal/stage"
)

// Inputs are the user-supplied values for one stage. Numeric fields are
// pointers so an omitted value can be told apart from zero; each stage only
// requires the fields its form asks for.
type Inputs struct {
	Option   string   `json:"option"             validate:"required"`
	Mass     *float64 `json:"mass,omitempty"     validate:"omitempty,gte=0"`
	Distance *float64 `json:"distance,omitempty" validate:"omitempty,gte=0"`
	Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Hours    *float64 `json:"hours,omitempty"    validate:"omitempty,gte=0"`

	// MassUnit is the unit Mass is given in: kg (default), g, t or lb.
	MassUnit string `json:"mass_unit,omitempty"`
}

// Float returns a pointer to v for building Inputs.
func Float(v float64) *float64 {
	return &v
}

// Value returns the input for a catalog field key.
func (in Inputs) Value(key string) (float64, bool) {
	var p *float64
	switch key {
	case catalog.KeyMass:
		p = in.Mass
	case catalog.KeyDistance:
		p = in.Distance
	case catalog.KeyQuantity:
		p = in.Quantity
	case catalog.KeyHours:
		p = in.Hours
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set stores v under a catalog field key.
func (in *Inputs) Set(key string, v float64) error {
	switch key {
	case catalog.KeyMass:
		in.Mass = Float(v)
	case catalog.KeyDistance:
		in.Distance = Float(v)
	case catalog.KeyQuantity:
		in.Quantity = Float(v)
	case catalog.KeyHours:
		in.Hours = Float(v)
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, key)
	}
	return nil
}

// Prediction is the outcome of one stage prediction.
type Prediction struct {
	Stage    stage.Stage        `json:"stage"`
	Option   string             `json:"option"`
	Features map[string]float64 `json:"features"`
	KgCO2e   float64            `json:"kg_co2e"`
	Level    Level              `json:"level"`
	Model    string             `json:"model"`
	Display  string             `json:"display"`
}

// Recorder is the write side of the prediction store.
type Recorder interface {
	Set(s stage.Stage, kg float64) error
}

// Estimator runs stage predictions and records the results.
type Estimator struct {
	registry   *model.Registry
	store      Recorder
	thresholds Thresholds
	validate   *validator.Validate
}

// NewEstimator builds an Estimator. Invalid thresholds are rejected.
func NewEstimator(registry *model.Registry, store Recorder, thresholds Thresholds) (*Estimator, error) {
	if registry == nil {
		return nil, errors.New("model registry cannot be nil")
	}
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{
		registry:   registry,
		store:      store,
		thresholds: thresholds,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Thresholds returns the classification thresholds in use.
func (e *Estimator) Thresholds() Thresholds {
	return e.thresholds
}

// Predict runs the model for s with in and stores the value. On any error
// nothing is stored.
func (e *Estimator) Predict(ctx context.Context, s stage.Stage, in Inputs) (*Prediction, error) {
	log := logging.FromContext(ctx)

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "predict").
		Str("stage", s.String()).
		Str("option", in.Option).
		Msg("starting prediction")

	form, err := catalog.ForStage(s)
	if err != nil {
		return nil, err
	}

	predictor, ok := e.registry.Get(s)
	if !ok {
		return nil, fmt.Errorf("%w: stage %s (%s)", ErrModelNotLoaded, s, s.ModelID())
	}

	if err = e.validateInputs(in); err != nil {
		return nil, err
	}
	if in, err = normalizeMass(in); err != nil {
		return nil, err
	}

	idx, opt, err := form.Lookup(in.Option)
	if err != nil {
		return nil, err
	}

	features, err := buildFeatures(form, idx, opt, in)
	if err != nil {
		return nil, err
	}

	kg, err := predictor.Predict(ctx, features)
	if err != nil {
		log.Error().Ctx(ctx).Str("component", "engine").Str("stage", s.String()).Err(err).Msg("prediction failed")
		return nil, fmt.Errorf("%w: stage %s: %w", ErrPredictionFailed, s, err)
	}

	if err = e.store.Set(s, kg); err != nil {
		return nil, fmt.Errorf("storing prediction: %w", err)
	}

	level := e.thresholds.Classify(kg)
	named := make(map[string]float64, len(features.Columns))
	for i, c := range features.Columns {
		named[c] = features.Values[i]
	}

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("stage", s.String()).
		Float64("kg_co2e", kg).
		Str("level", level.String()).
		Msg("prediction stored")

	return &Prediction{
		Stage:    s,
		Option:   opt.Name,
		Features: named,
		KgCO2e:   kg,
		Level:    level,
		Model:    e.registry.Source(s),
		Display:  FormatPrediction(kg),
	}, nil
}

// Summarize classifies r against the estimator's thresholds.
func (e *Estimator) Summarize(ctx context.Context, r Reader) Summary {
	return Summarize(ctx, r, e.thresholds)
}

func (e *Estimator) validateInputs(in Inputs) error {
	err := e.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
		case "gte":
			msgs = append(msgs, strings.ToLower(fe.Field())+" must be a non-negative number")
		default:
			msgs = append(msgs, strings.ToLower(fe.Field())+" failed "+fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// normalizeMass converts Mass to kilograms, the unit every model is
// trained on.
func normalizeMass(in Inputs) (Inputs, error) {
	if !greenops.IsRecognizedUnit(in.MassUnit) {
		return in, fmt.Errorf("%w: unknown mass unit %q", ErrInvalidInput, in.MassUnit)
	}
	if in.Mass == nil {
		return in, nil
	}
	kg, err := greenops.NormalizeToKg(*in.Mass, in.MassUnit)
	if err != nil {
		return in, fmt.Errorf("%w: mass: %w", ErrInvalidInput, err)
	}
	in.Mass = Float(kg)
	in.MassUnit = ""
	return in, nil
}

// buildFeatures orders the category index and field values by the form's
// columns.
func buildFeatures(form catalog.Form, idx int, opt catalog.Option, in Inputs) (model.Features, error) {
	derived := form.Derived(opt)
	values := make([]float64, 0, len(form.Fields)+1)
	values = append(values, float64(idx))

	var missing []string
	for _, fld := range form.Fields {
		if fld.ReadOnly() {
			values = append(values, derived[fld.Key])
			continue
		}
		v, ok := in.Value(fld.Key)
		if !ok {
			missing = append(missing, fld.Key)
			continue
		}
		values = append(values, v)
	}
	if len(missing) > 0 {
		return model.Features{}, fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	return model.NewFeatures(form.Columns(), values)
}
