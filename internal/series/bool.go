package series

import (
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// Bool is an immutable tri-state boolean sequence: each row is true, false,
// or undefined. Undefined rows always carry a false value so that collapsing
// at the signal boundary is a plain copy.
type Bool struct {
	values  []bool
	defined []bool
}

// NewBool creates a sequence from values and a defined mask.
// Undefined rows are normalized to false.
func NewBool(values, defined []bool) (Bool, error) {
	if len(values) != len(defined) {
		return Bool{}, errors.Newf(errors.ErrCodeLengthMismatch,
			"values length %d does not match mask length %d", len(values), len(defined))
	}

	vals := make([]bool, len(values))
	mask := make([]bool, len(defined))

	for i := range values {
		if defined[i] {
			vals[i] = values[i]
			mask[i] = true
		}
	}

	return Bool{values: vals, defined: mask}, nil
}

// FalseBool creates a sequence of n rows, all defined false.
func FalseBool(n int) Bool {
	vals := make([]bool, n)
	defined := make([]bool, n)

	for i := range defined {
		defined[i] = true
	}

	return Bool{values: vals, defined: defined}
}

// UndefinedBool creates a sequence of n rows, all undefined.
func UndefinedBool(n int) Bool {
	return Bool{
		values:  make([]bool, n),
		defined: make([]bool, n),
	}
}

// Len returns the number of rows.
func (b Bool) Len() int {
	return len(b.values)
}

// At returns the value at row i and whether it is defined. Undefined rows
// report a false value.
func (b Bool) At(i int) (bool, bool) {
	return b.values[i], b.defined[i]
}

// Defined reports whether row i is defined.
func (b Bool) Defined(i int) bool {
	return b.defined[i]
}

// And combines two sequences elementwise. An undefined operand counts as
// false: the result row is defined whenever either operand is a defined
// false, or both operands are defined.
func (b Bool) And(other Bool) (Bool, error) {
	if b.Len() != other.Len() {
		return Bool{}, errors.Newf(errors.ErrCodeLengthMismatch,
			"cannot combine sequences of length %d and %d", b.Len(), other.Len())
	}

	n := b.Len()
	values := make([]bool, n)
	defined := make([]bool, n)

	for i := 0; i < n; i++ {
		left := b.values[i] && b.defined[i]
		right := other.values[i] && other.defined[i]

		values[i] = left && right
		defined[i] = (b.defined[i] && other.defined[i]) ||
			(b.defined[i] && !b.values[i]) ||
			(other.defined[i] && !other.values[i])
	}

	return Bool{values: values, defined: defined}, nil
}

// Or combines two sequences elementwise. An undefined operand yields the
// other operand's value: the result row is defined whenever either operand is
// a defined true, or both operands are defined.
func (b Bool) Or(other Bool) (Bool, error) {
	if b.Len() != other.Len() {
		return Bool{}, errors.Newf(errors.ErrCodeLengthMismatch,
			"cannot combine sequences of length %d and %d", b.Len(), other.Len())
	}

	n := b.Len()
	values := make([]bool, n)
	defined := make([]bool, n)

	for i := 0; i < n; i++ {
		left := b.values[i] && b.defined[i]
		right := other.values[i] && other.defined[i]

		values[i] = left || right
		defined[i] = (b.defined[i] && other.defined[i]) ||
			(b.defined[i] && b.values[i]) ||
			(other.defined[i] && other.values[i])
	}

	return Bool{values: values, defined: defined}, nil
}

// Collapse maps the sequence to plain booleans, with undefined rows becoming
// false. This is the only place where the third state is dropped; it runs at
// the signal-sequence boundary.
func (b Bool) Collapse() []bool {
	out := make([]bool, len(b.values))
	copy(out, b.values)

	return out
}
