// Package indicator implements the numeric primitives that compiled
// strategies are built from: moving averages, RSI, time lookbacks, change
// calculations, and cross detection. All functions are pure: they take an
// input sequence and produce a new sequence of the same length, with warm-up
// rows explicitly undefined.
package indicator

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// Indicator is a named windowed computation over a numeric sequence.
type Indicator interface {
	// Name returns the name of the indicator.
	Name() types.IndicatorType
	// Compute calculates the indicator over the whole input sequence.
	Compute(x series.Float, period int) (series.Float, error)
}

func validatePeriod(period int) error {
	if period < 1 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return nil
}

func validateLag(lag int) error {
	if lag < 1 {
		return errors.Newf(errors.ErrCodeInvalidLag, "lag must be a positive integer, got %d", lag)
	}

	return nil
}

// firstDefined returns the index of the first defined row, or the sequence
// length when every row is undefined.
func firstDefined(x series.Float) int {
	for i := 0; i < x.Len(); i++ {
		if x.Defined(i) {
			return i
		}
	}

	return x.Len()
}
