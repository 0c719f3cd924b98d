// Package predict is the dispatch engine that computes fitted values with
// calibrated uncertainty for any registered model family. One entry point,
// Engine.Predict, normalizes the caller's options into a resolved
// configuration, runs either a single native prediction or a resampling pass,
// attaches intervals, transforms link-scale output to the response scale when
// the family is nonlinear, and assembles the result.
package predict
