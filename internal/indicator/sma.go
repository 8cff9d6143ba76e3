package indicator

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/internal/types"
)

// SMA represents the Simple Moving Average indicator.
type SMA struct{}

// NewSMA creates a new SMA indicator.
func NewSMA() Indicator {
	return &SMA{}
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Compute calculates the trailing arithmetic mean over a window of size
// period. A row is defined when its full trailing window is defined; in
// particular the first period-1 rows are always undefined.
func (s *SMA) Compute(x series.Float, period int) (series.Float, error) {
	if err := validatePeriod(period); err != nil {
		return series.Float{}, err
	}

	n := x.Len()
	values := make([]float64, n)
	defined := make([]bool, n)

	for i := period - 1; i < n; i++ {
		sum := 0.0
		windowDefined := true

		for j := i - period + 1; j <= i; j++ {
			v, ok := x.At(j)
			if !ok {
				windowDefined = false

				break
			}

			sum += v
		}

		if windowDefined {
			values[i] = sum / float64(period)
			defined[i] = true
		}
	}

	return series.NewFloatWithMask(values, defined)
}
