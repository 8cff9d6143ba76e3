package backtest

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/quantlab-oss/stratdsl/internal/types"
)

func totalReturnPct(initial float64, finalEquity decimal.Decimal) float64 {
	initialDec := decimal.NewFromFloat(initial)

	return finalEquity.Sub(initialDec).
		Div(initialDec).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}

// maxDrawdown is the largest peak-to-trough decline over the mark-to-market
// equity curve, as a percentage of the peak.
func maxDrawdown(equities []decimal.Decimal) float64 {
	if len(equities) == 0 {
		return 0
	}

	peak := equities[0]
	worst := decimal.Zero

	for _, equity := range equities {
		if equity.GreaterThan(peak) {
			peak = equity
		}

		if peak.IsPositive() {
			drawdown := peak.Sub(equity).Div(peak)
			if drawdown.GreaterThan(worst) {
				worst = drawdown
			}
		}
	}

	return worst.Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// sharpeRatio annualizes mean/stdev of the per-row equity returns. Fewer
// than two returns, or a zero standard deviation, yield 0.
func sharpeRatio(equities []decimal.Decimal, annualizationFactor int) float64 {
	if len(equities) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(equities)-1)

	for i := 1; i < len(equities); i++ {
		prev := equities[i-1]
		if prev.IsZero() {
			return 0
		}

		returns = append(returns, equities[i].Sub(prev).Div(prev).InexactFloat64())
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns) - 1)

	stdev := math.Sqrt(variance)
	if stdev == 0 {
		return 0
	}

	return mean / stdev * math.Sqrt(float64(annualizationFactor))
}

func summarizeTrades(trades []types.Trade) types.TradeResult {
	result := types.TradeResult{NumberOfTrades: len(trades)}

	if len(trades) == 0 {
		return result
	}

	sum := 0.0

	for _, trade := range trades {
		sum += trade.Return

		if trade.PnL > 0 {
			result.NumberOfWinningTrades++
		} else {
			result.NumberOfLosingTrades++
		}
	}

	result.WinRate = float64(result.NumberOfWinningTrades) / float64(len(trades))
	result.AvgReturn = sum / float64(len(trades))

	return result
}
