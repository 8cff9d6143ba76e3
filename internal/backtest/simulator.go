// Package backtest runs a FLAT/LONG state machine over signal sequences and
// reports trades and performance metrics.
package backtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/quantlab-oss/stratdsl/internal/logger"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProgressCallback is invoked after each simulated row.
type ProgressCallback func(current, total int)

// Simulator executes backtests. One simulator can run any number of
// sequential backtests; each Run is independent.
type Simulator struct {
	config   Config
	logger   *logger.Logger
	progress ProgressCallback
}

// NewSimulator creates a simulator with a validated config. A nil logger
// falls back to a no-op logger.
func NewSimulator(config Config, log *logger.Logger) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Simulator{config: config, logger: log}, nil
}

// SetProgressCallback registers a callback invoked once per simulated row.
func (s *Simulator) SetProgressCallback(callback ProgressCallback) {
	s.progress = callback
}

// Run walks the table in order. An exit signal is processed before an entry
// signal on the same row, so a position can close and a new one open at the
// same close price. At most one position is open at any time; entry signals
// while LONG and exit signals while FLAT are ignored.
func (s *Simulator) Run(data []types.MarketData, signals types.Signals) (*types.BacktestResult, error) {
	if len(signals.Entry) != len(data) || len(signals.Exit) != len(data) {
		return nil, errors.Newf(errors.ErrCodeSignalMismatch,
			"signal lengths (entry=%d, exit=%d) do not match table length %d",
			len(signals.Entry), len(signals.Exit), len(data))
	}

	capital := decimal.NewFromFloat(s.config.InitialCapital)

	var (
		trades   []types.Trade
		open     *types.Trade
		shares   decimal.Decimal
		equities = make([]decimal.Decimal, 0, len(data))
	)

	for i, row := range data {
		price := decimal.NewFromFloat(row.Close)

		if open != nil && signals.Exit[i] {
			closed := open.Close(row.Time, row.Close)
			trades = append(trades, closed)
			capital = shares.Mul(price)
			open = nil

			s.logger.Debug("closed position",
				zap.Time("time", row.Time),
				zap.Float64("price", row.Close),
				zap.Float64("return", closed.Return),
			)
		}

		if open == nil && signals.Entry[i] {
			if !price.IsPositive() {
				return nil, errors.Newf(errors.ErrCodeInvalidPrice,
					"cannot open position at row %d: non-positive close price %v", i, row.Close)
			}

			trade := types.Trade{EntryTime: row.Time, EntryPrice: row.Close}
			open = &trade
			shares = capital.Div(price)

			s.logger.Debug("opened position",
				zap.Time("time", row.Time),
				zap.Float64("price", row.Close),
			)
		}

		if open != nil {
			equities = append(equities, shares.Mul(price))
		} else {
			equities = append(equities, capital)
		}

		if s.progress != nil {
			s.progress(i+1, len(data))
		}
	}

	var openPosition *types.Trade

	if open != nil {
		last := data[len(data)-1]

		switch s.config.EndOfDataPolicy {
		case EndOfDataForceClose:
			closed := open.Close(last.Time, last.Close)
			trades = append(trades, closed)

			s.logger.Debug("force-closed position at end of data",
				zap.Time("time", last.Time),
				zap.Float64("price", last.Close),
			)

		default:
			openPosition = open

			s.logger.Debug("position open at end of data, excluded from trade metrics")
		}
	}

	finalEquity := decimal.NewFromFloat(s.config.InitialCapital)
	if len(equities) > 0 {
		finalEquity = equities[len(equities)-1]
	}

	result := &types.BacktestResult{
		RunID:          uuid.New().String(),
		Timestamp:      time.Now(),
		InitialCapital: s.config.InitialCapital,
		FinalEquity:    finalEquity.InexactFloat64(),
		TotalReturnPct: totalReturnPct(s.config.InitialCapital, finalEquity),
		MaxDrawdown:    maxDrawdown(equities),
		SharpeRatio:    sharpeRatio(equities, s.config.AnnualizationFactor),
		TradeResult:    summarizeTrades(trades),
		Trades:         trades,
		OpenPosition:   openPosition,
	}

	s.logger.Info("backtest finished",
		zap.String("run_id", result.RunID),
		zap.Int("rows", len(data)),
		zap.Int("trades", result.TradeResult.NumberOfTrades),
		zap.Float64("total_return_pct", result.TotalReturnPct),
	)

	return result, nil
}
