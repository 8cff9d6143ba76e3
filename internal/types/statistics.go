package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TradeResult aggregates the completed trades of a backtest run.
type TradeResult struct {
	// Count of completed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of completed trades with positive return.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of completed trades with zero or negative return.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate, between 0 and 1. Defined as 0 when there are no trades.
	WinRate float64 `yaml:"win_rate"`
	// Mean of completed trades' return fractions.
	AvgReturn float64 `yaml:"avg_return"`
}

// BacktestResult is the immutable outcome of one simulator run.
type BacktestResult struct {
	// RunID is the unique identifier for this backtest run.
	RunID string `yaml:"run_id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// InitialCapital is the starting capital.
	InitialCapital float64 `yaml:"initial_capital"`
	// FinalEquity is the mark-to-market equity at the last row.
	FinalEquity float64 `yaml:"final_equity"`
	// TotalReturnPct is (final-initial)/initial * 100.
	TotalReturnPct float64 `yaml:"total_return_pct"`
	// MaxDrawdown is the maximum peak-to-trough equity decline, as a
	// percentage of the running peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// SharpeRatio is mean(daily returns)/stdev(daily returns) scaled by the
	// square root of the annualization factor. Reported as 0 when the stdev
	// is zero.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// TradeResult summarizes the completed trades.
	TradeResult TradeResult `yaml:"trade_result"`
	// Trades lists every completed trade in chronological order.
	Trades []Trade `yaml:"trades"`
	// OpenPosition is the trade still open at the end of data, when the
	// simulator is configured to exclude rather than force-close it.
	OpenPosition *Trade `yaml:"open_position,omitempty"`
}

// WriteResult writes the backtest result to a YAML file.
func WriteResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
