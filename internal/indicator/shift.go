package indicator

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
)

// Lags for the named time lookbacks.
const (
	YesterdayLag = 1
	LastWeekLag  = 7
)

// Yesterday shifts the sequence back by one trading row.
func Yesterday(x series.Float) (series.Float, error) {
	return NDaysAgo(x, YesterdayLag)
}

// LastWeek shifts the sequence back by seven trading rows.
func LastWeek(x series.Float) (series.Float, error) {
	return NDaysAgo(x, LastWeekLag)
}

// NDaysAgo shifts the sequence back by n trading rows. Rows with no prior
// value at that lag are undefined.
func NDaysAgo(x series.Float, n int) (series.Float, error) {
	if err := validateLag(n); err != nil {
		return series.Float{}, err
	}

	return x.Shift(n)
}
