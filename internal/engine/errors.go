package engine

import (
	"errors"

	"github.com/rshade/smartcarbon/internal/catalog"
)

// Sentinel errors returned by the engine. Match with errors.Is.
var (
	// ErrModelNotLoaded means the stage has no predictor.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrInvalidInput means a required value is missing, negative or not a number.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownOption means the selected option is not in the stage's list.
	ErrUnknownOption = catalog.ErrUnknownOption

	// ErrPredictionFailed wraps a predictor error.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrInvalidThresholds means the classification thresholds are inconsistent.
	ErrInvalidThresholds = errors.New("invalid thresholds")
)
