// Package datasource loads OHLCV tables from external storage. Every source
// returns rows strictly increasing by time; unsorted input, duplicate
// timestamps, and non-positive prices are rejected.
package datasource

import (
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// Source loads a full table into memory.
type Source interface {
	Load() ([]types.MarketData, error)
}

func validateRows(data []types.MarketData) error {
	if len(data) == 0 {
		return errors.New(errors.ErrCodeDataNotFound, "table contains no rows")
	}

	for i := 1; i < len(data); i++ {
		prev, cur := data[i-1].Time, data[i].Time

		if cur.Equal(prev) {
			return errors.Newf(errors.ErrCodeDuplicateTimestamp, "duplicate timestamp %s at row %d", cur, i)
		}

		if cur.Before(prev) {
			return errors.Newf(errors.ErrCodeDataNotSorted, "row %d (%s) is earlier than row %d (%s)", i, cur, i-1, prev)
		}
	}

	for i, row := range data {
		for _, c := range []types.Column{types.ColumnOpen, types.ColumnHigh, types.ColumnLow, types.ColumnClose} {
			if row.Value(c) <= 0 {
				return errors.Newf(errors.ErrCodeInvalidPrice,
					"row %d has non-positive %s price %v", i, c, row.Value(c))
			}
		}
	}

	return nil
}
