package indicator

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
)

// Change calculates the absolute change over n rows: x[i] - x[i-n].
// Undefined for the first n rows.
func Change(x series.Float, n int) (series.Float, error) {
	if err := validateLag(n); err != nil {
		return series.Float{}, err
	}

	length := x.Len()
	values := make([]float64, length)
	defined := make([]bool, length)

	for i := n; i < length; i++ {
		cur, okCur := x.At(i)
		prev, okPrev := x.At(i - n)

		if okCur && okPrev {
			values[i] = cur - prev
			defined[i] = true
		}
	}

	return series.NewFloatWithMask(values, defined)
}

// PercentChange calculates the percentage change over n rows:
// (x[i] - x[i-n]) / x[i-n] * 100. Undefined for the first n rows and
// wherever the baseline value is zero.
func PercentChange(x series.Float, n int) (series.Float, error) {
	if err := validateLag(n); err != nil {
		return series.Float{}, err
	}

	length := x.Len()
	values := make([]float64, length)
	defined := make([]bool, length)

	for i := n; i < length; i++ {
		cur, okCur := x.At(i)
		prev, okPrev := x.At(i - n)

		if okCur && okPrev && prev != 0 {
			values[i] = (cur - prev) / prev * 100
			defined[i] = true
		}
	}

	return series.NewFloatWithMask(values, defined)
}
