// Package export writes throws to disk: figures through gonum/plot, plain
// SVG, CSV samples, JSON coefficients, and run directories that bundle
// them.
package export
