// Package model defines the value types shared across the prediction engine:
// the rectangular data frame consumed by family adaptors, link functions with
// their inverses and derivatives, and the metadata a fitted model handle
// exposes to the dispatch layer.
package model
