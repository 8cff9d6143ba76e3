package indicator

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// CrossAbove detects rows where a crosses above b: the previous row had
// a <= b and the current row has a > b. Row 0 is always undefined; so is any
// row whose current or previous operand values are undefined.
func CrossAbove(a, b series.Float) (series.Bool, error) {
	return cross(a, b, func(prevA, prevB, curA, curB float64) bool {
		return prevA <= prevB && curA > curB
	})
}

// CrossBelow detects rows where a crosses below b: the previous row had
// a >= b and the current row has a < b.
func CrossBelow(a, b series.Float) (series.Bool, error) {
	return cross(a, b, func(prevA, prevB, curA, curB float64) bool {
		return prevA >= prevB && curA < curB
	})
}

func cross(a, b series.Float, detect func(prevA, prevB, curA, curB float64) bool) (series.Bool, error) {
	if a.Len() != b.Len() {
		return series.Bool{}, errors.Newf(errors.ErrCodeLengthMismatch,
			"cannot cross sequences of length %d and %d", a.Len(), b.Len())
	}

	n := a.Len()
	values := make([]bool, n)
	defined := make([]bool, n)

	for i := 1; i < n; i++ {
		prevA, ok1 := a.At(i - 1)
		prevB, ok2 := b.At(i - 1)
		curA, ok3 := a.At(i)
		curB, ok4 := b.At(i)

		if ok1 && ok2 && ok3 && ok4 {
			values[i] = detect(prevA, prevB, curA, curB)
			defined[i] = true
		}
	}

	return series.NewBool(values, defined)
}
