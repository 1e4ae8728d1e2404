// Package textclean provides pure text cleaning and deduplication for
// collected question text.
//
// All functions in this package are side-effect free: they take string
// slices in and return new slices, never mutating their input. This keeps
// the cleaning stage trivially testable and safe to call from anywhere
// in the pipeline.
package textclean
