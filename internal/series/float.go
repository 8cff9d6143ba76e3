// Package series implements the index-aligned sequences that strategy
// evaluation operates on. Numeric and boolean sequences carry an explicit
// per-row defined mask so that warm-up rows (insufficient history) stay
// distinguishable from genuine zero or false values until the signal
// boundary, where undefined collapses to false.
package series

import (
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// Float is an immutable numeric sequence with explicit undefined rows.
type Float struct {
	values  []float64
	defined []bool
}

// NewFloat creates a fully defined sequence from raw values.
func NewFloat(values []float64) Float {
	vals := make([]float64, len(values))
	copy(vals, values)

	defined := make([]bool, len(values))
	for i := range defined {
		defined[i] = true
	}

	return Float{values: vals, defined: defined}
}

// NewFloatWithMask creates a sequence from values and a defined mask.
// Undefined rows are normalized to zero.
func NewFloatWithMask(values []float64, defined []bool) (Float, error) {
	if len(values) != len(defined) {
		return Float{}, errors.Newf(errors.ErrCodeLengthMismatch,
			"values length %d does not match mask length %d", len(values), len(defined))
	}

	vals := make([]float64, len(values))
	mask := make([]bool, len(defined))

	for i := range values {
		if defined[i] {
			vals[i] = values[i]
			mask[i] = true
		}
	}

	return Float{values: vals, defined: mask}, nil
}

// Constant creates a sequence of n rows, all defined with the same value.
func Constant(value float64, n int) Float {
	vals := make([]float64, n)
	defined := make([]bool, n)

	for i := 0; i < n; i++ {
		vals[i] = value
		defined[i] = true
	}

	return Float{values: vals, defined: defined}
}

// UndefinedFloat creates a sequence of n rows, all undefined.
func UndefinedFloat(n int) Float {
	return Float{
		values:  make([]float64, n),
		defined: make([]bool, n),
	}
}

// Len returns the number of rows.
func (f Float) Len() int {
	return len(f.values)
}

// At returns the value at row i and whether it is defined.
func (f Float) At(i int) (float64, bool) {
	if !f.defined[i] {
		return 0, false
	}

	return f.values[i], true
}

// Defined reports whether row i is defined.
func (f Float) Defined(i int) bool {
	return f.defined[i]
}

// Shift returns the sequence shifted back by lag rows: row i takes the value
// of row i-lag, and the first lag rows become undefined.
func (f Float) Shift(lag int) (Float, error) {
	if lag < 0 {
		return Float{}, errors.Newf(errors.ErrCodeInvalidLag, "lag must be non-negative, got %d", lag)
	}

	n := len(f.values)
	vals := make([]float64, n)
	defined := make([]bool, n)

	for i := lag; i < n; i++ {
		if f.defined[i-lag] {
			vals[i] = f.values[i-lag]
			defined[i] = true
		}
	}

	return Float{values: vals, defined: defined}, nil
}

// CompareOp is an elementwise comparison between two numeric sequences.
type CompareOp func(a, b float64) bool

// Compare applies op elementwise. A row is undefined in the result when it is
// undefined in either operand.
func (f Float) Compare(other Float, op CompareOp) (Bool, error) {
	if f.Len() != other.Len() {
		return Bool{}, errors.Newf(errors.ErrCodeLengthMismatch,
			"cannot compare sequences of length %d and %d", f.Len(), other.Len())
	}

	n := f.Len()
	values := make([]bool, n)
	defined := make([]bool, n)

	for i := 0; i < n; i++ {
		if f.defined[i] && other.defined[i] {
			values[i] = op(f.values[i], other.values[i])
			defined[i] = true
		}
	}

	return Bool{values: values, defined: defined}, nil
}
