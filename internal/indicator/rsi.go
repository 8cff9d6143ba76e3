package indicator

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/internal/types"
)

// RSI represents the Relative Strength Index indicator.
type RSI struct{}

// NewRSI creates a new RSI indicator.
func NewRSI() Indicator {
	return &RSI{}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Compute calculates the RSI with Wilder's smoothing of average gains and
// losses over period rows. RS = avgGain/avgLoss and RSI = 100 - 100/(1+RS);
// when the average loss is zero the RSI is defined as 100 (perfect uptrend).
// The first period rows after the first defined input row are undefined.
func (r *RSI) Compute(x series.Float, period int) (series.Float, error) {
	if err := validatePeriod(period); err != nil {
		return series.Float{}, err
	}

	n := x.Len()
	values := make([]float64, n)
	defined := make([]bool, n)

	start := firstDefined(x)
	// The first RSI row needs period price changes, i.e. period+1 rows.
	firstRSIRow := start + period

	if firstRSIRow >= n {
		return series.NewFloatWithMask(values, defined)
	}

	// First averages over the initial period changes.
	avgGain := 0.0
	avgLoss := 0.0

	for i := start + 1; i <= firstRSIRow; i++ {
		prev, okPrev := x.At(i - 1)
		cur, okCur := x.At(i)

		if !okPrev || !okCur {
			return series.NewFloatWithMask(values, defined)
		}

		change := cur - prev
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	values[firstRSIRow] = rsiFromAverages(avgGain, avgLoss)
	defined[firstRSIRow] = true

	// Subsequent rows use Wilder's smoothing.
	for i := firstRSIRow + 1; i < n; i++ {
		prev, okPrev := x.At(i - 1)
		cur, okCur := x.At(i)

		if !okPrev || !okCur {
			break
		}

		gain := 0.0
		loss := 0.0

		if change := cur - prev; change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)

		values[i] = rsiFromAverages(avgGain, avgLoss)
		defined[i] = true
	}

	return series.NewFloatWithMask(values, defined)
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100 // Perfect uptrend
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
