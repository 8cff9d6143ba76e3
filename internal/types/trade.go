package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Trade records one entry-to-exit position lifecycle. Exit fields are absent
// while the position is open; once the exit is recorded the trade is never
// mutated again.
type Trade struct {
	EntryTime  time.Time
	EntryPrice float64
	ExitTime   optional.Option[time.Time]
	ExitPrice  optional.Option[float64]
	// Return is the realized return fraction (exit-entry)/entry.
	// Zero until the trade is closed.
	Return float64
	// PnL is the per-unit profit and loss, exit price minus entry price.
	PnL float64
}

// Closed reports whether the trade has a recorded exit.
func (t Trade) Closed() bool {
	return t.ExitTime.IsSome()
}

// Close returns a copy of the trade with the exit recorded and the realized
// return computed.
func (t Trade) Close(exitTime time.Time, exitPrice float64) Trade {
	entryDec := decimal.NewFromFloat(t.EntryPrice)
	exitDec := decimal.NewFromFloat(exitPrice)
	pnlDec := exitDec.Sub(entryDec)

	t.ExitTime = optional.Some(exitTime)
	t.ExitPrice = optional.Some(exitPrice)
	t.PnL = pnlDec.InexactFloat64()
	t.Return = pnlDec.Div(entryDec).InexactFloat64()

	return t
}

// MarshalYAML implements custom marshaling so that open trades serialize
// without exit fields.
func (t Trade) MarshalYAML() (interface{}, error) {
	type tradeYAML struct {
		EntryTime  time.Time  `yaml:"entry_time"`
		EntryPrice float64    `yaml:"entry_price"`
		ExitTime   *time.Time `yaml:"exit_time,omitempty"`
		ExitPrice  *float64   `yaml:"exit_price,omitempty"`
		Return     float64    `yaml:"return"`
		PnL        float64    `yaml:"pnl"`
	}

	out := tradeYAML{
		EntryTime:  t.EntryTime,
		EntryPrice: t.EntryPrice,
		ExitTime:   nil,
		ExitPrice:  nil,
		Return:     t.Return,
		PnL:        t.PnL,
	}

	if t.ExitTime.IsSome() {
		exitTime := t.ExitTime.Unwrap()
		out.ExitTime = &exitTime
	}

	if t.ExitPrice.IsSome() {
		exitPrice := t.ExitPrice.Unwrap()
		out.ExitPrice = &exitPrice
	}

	return out, nil
}
