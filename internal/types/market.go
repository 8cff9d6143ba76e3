package types

import "time"

// MarketData is a single row of the input price/volume table.
// The Time column must be strictly increasing across a table; duplicate
// timestamps are rejected at load time.
type MarketData struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// Column identifies one of the five named series of a market data table.
type Column string

const (
	ColumnOpen   Column = "open"
	ColumnHigh   Column = "high"
	ColumnLow    Column = "low"
	ColumnClose  Column = "close"
	ColumnVolume Column = "volume"
)

// AllColumns lists every valid column name.
var AllColumns = []Column{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// IsValidColumn reports whether name is one of the five series names.
// Column names are case-sensitive.
func IsValidColumn(name string) bool {
	switch Column(name) {
	case ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume:
		return true
	default:
		return false
	}
}

// Value returns the named column of the row.
func (m MarketData) Value(c Column) float64 {
	switch c {
	case ColumnOpen:
		return m.Open
	case ColumnHigh:
		return m.High
	case ColumnLow:
		return m.Low
	case ColumnClose:
		return m.Close
	case ColumnVolume:
		return m.Volume
	default:
		return 0
	}
}
