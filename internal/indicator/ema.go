package indicator

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/internal/types"
)

// EMA represents the Exponential Moving Average indicator.
type EMA struct{}

// NewEMA creates a new EMA indicator.
func NewEMA() Indicator {
	return &EMA{}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Compute calculates the exponential weighted mean with smoothing factor
// alpha = 2/(period+1). The recurrence is seeded with the simple mean of the
// first period defined rows; rows before the seed row are undefined. If an
// input row turns undefined after the seed, the recurrence is broken and all
// later rows stay undefined.
func (e *EMA) Compute(x series.Float, period int) (series.Float, error) {
	if err := validatePeriod(period); err != nil {
		return series.Float{}, err
	}

	n := x.Len()
	values := make([]float64, n)
	defined := make([]bool, n)

	start := firstDefined(x)
	seedRow := start + period - 1

	if seedRow >= n {
		return series.NewFloatWithMask(values, defined)
	}

	// Seed with the SMA of the first period defined rows.
	sum := 0.0

	for i := start; i <= seedRow; i++ {
		v, ok := x.At(i)
		if !ok {
			// Defined rows are interrupted before the seed window fills.
			return series.NewFloatWithMask(values, defined)
		}

		sum += v
	}

	alpha := 2.0 / float64(period+1)
	ema := sum / float64(period)
	values[seedRow] = ema
	defined[seedRow] = true

	for i := seedRow + 1; i < n; i++ {
		v, ok := x.At(i)
		if !ok {
			break
		}

		ema = v*alpha + ema*(1-alpha)
		values[i] = ema
		defined[i] = true
	}

	return series.NewFloatWithMask(values, defined)
}
