package backtest

import (
	"testing"

	"github.com/quantlab-oss/stratdsl/internal/dsl/compiler"
	"github.com/quantlab-oss/stratdsl/internal/dsl/parser"
	"github.com/quantlab-oss/stratdsl/internal/testutil"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/stretchr/testify/suite"
)

// PipelineTestSuite drives the full text -> AST -> signals -> result chain.
type PipelineTestSuite struct {
	suite.Suite
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (suite *PipelineTestSuite) run(text string, data []types.MarketData) *types.BacktestResult {
	strategy, err := parser.Parse(text)
	suite.Require().NoError(err)

	comp, err := compiler.NewCompiler(compiler.DefaultConfig(), nil)
	suite.Require().NoError(err)

	evaluator, err := comp.Compile(strategy)
	suite.Require().NoError(err)

	signals, err := evaluator.Evaluate(data)
	suite.Require().NoError(err)
	suite.Require().Equal(len(data), signals.Len())

	simulator, err := NewSimulator(DefaultConfig(), nil)
	suite.Require().NoError(err)

	result, err := simulator.Run(data, signals)
	suite.Require().NoError(err)

	return result
}

func (suite *PipelineTestSuite) TestGeneratedTableInvariants() {
	gen := testutil.NewGenerator(testutil.GeneratorConfig{
		Rows:    120,
		Pattern: testutil.PatternVolatile,
		Seed:    1,
	})

	data, err := gen.Generate()
	suite.Require().NoError(err)

	result := suite.run(`
ENTRY:
close > sma(close, 5) AND volume > 100
EXIT:
close < sma(close, 5)
`, data)

	suite.Equal(len(result.Trades), result.TradeResult.NumberOfTrades)
	suite.GreaterOrEqual(result.TradeResult.WinRate, 0.0)
	suite.LessOrEqual(result.TradeResult.WinRate, 1.0)
	suite.GreaterOrEqual(result.MaxDrawdown, 0.0)
	suite.Positive(result.FinalEquity)

	for i := 1; i < len(result.Trades); i++ {
		prevExit := result.Trades[i-1].ExitTime.Unwrap()
		suite.False(result.Trades[i].EntryTime.Before(prevExit))
	}
}

func (suite *PipelineTestSuite) TestEntryOnlyStrategyNeverCloses() {
	data := dataFromCloses([]float64{1, 2, 3, 4, 5, 6, 7, 8})

	result := suite.run("ENTRY:\nclose > sma(close, 3)", data)

	// The position opens once the mean has history, and with no EXIT
	// section it stays open through the end of the table.
	suite.Equal(0, result.TradeResult.NumberOfTrades)
	suite.Empty(result.Trades)
	suite.Require().NotNil(result.OpenPosition)
	suite.False(result.OpenPosition.Closed())
}
