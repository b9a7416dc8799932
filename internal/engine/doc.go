// Package engine runs stage predictions and classifies the results.
//
// Estimator validates a stage's inputs, resolves the catalog constants for
// the selected option, builds the ordered feature vector, calls the stage's
// predictor and records the value in the store. Summarize reads every stage
// back, sums them, and classifies each value and the total as Safe, Average
// or Danger against configurable tonne thresholds.
package engine
