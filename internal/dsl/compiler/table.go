package compiler

import (
	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// table is the columnar view of an OHLCV slice built once per Evaluate call.
type table struct {
	length  int
	columns map[types.Column]series.Float
}

func newTable(data []types.MarketData) *table {
	columns := make(map[types.Column]series.Float, len(types.AllColumns))

	for _, name := range types.AllColumns {
		values := make([]float64, len(data))
		for i, row := range data {
			values[i] = row.Value(name)
		}

		columns[name] = series.NewFloat(values)
	}

	return &table{length: len(data), columns: columns}
}

func (t *table) column(name types.Column) (series.Float, error) {
	col, ok := t.columns[name]
	if !ok {
		return series.Float{}, errors.Newf(errors.ErrCodeUnknownSeries, "unknown series %q", name)
	}

	return col, nil
}
