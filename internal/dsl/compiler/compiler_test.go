package compiler

import (
	"testing"
	"time"

	"github.com/quantlab-oss/stratdsl/internal/dsl/parser"
	"github.com/quantlab-oss/stratdsl/internal/indicator"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CompilerTestSuite struct {
	suite.Suite
	compiler *Compiler
}

func TestCompilerSuite(t *testing.T) {
	suite.Run(t, new(CompilerTestSuite))
}

func (suite *CompilerTestSuite) SetupTest() {
	compiler, err := NewCompiler(DefaultConfig(), nil)
	suite.Require().NoError(err)
	suite.compiler = compiler
}

// tableFromCloses builds a daily table where every price column carries the
// close value and volume is constant.
func tableFromCloses(closes []float64) []types.MarketData {
	data := make([]types.MarketData, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, c := range closes {
		data[i] = types.MarketData{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	return data
}

func (suite *CompilerTestSuite) evaluate(text string, data []types.MarketData) types.Signals {
	strategy, err := parser.Parse(text)
	suite.Require().NoError(err)

	evaluator, err := suite.compiler.Compile(strategy)
	suite.Require().NoError(err)

	signals, err := evaluator.Evaluate(data)
	suite.Require().NoError(err)
	suite.Require().Equal(len(data), signals.Len())

	return signals
}

func (suite *CompilerTestSuite) TestSimpleComparison() {
	signals := suite.evaluate("ENTRY:\nclose > 3", tableFromCloses([]float64{1, 2, 3, 4, 5}))

	suite.Equal([]bool{false, false, false, true, true}, signals.Entry)
	suite.Equal([]bool{false, false, false, false, false}, signals.Exit)
}

func (suite *CompilerTestSuite) TestSMACrossoverScenario() {
	// Rising for 30 rows, then falling for 10: exactly one entry at the
	// first row where close exceeds its 20-row trailing mean and one exit
	// at the first subsequent row where it falls back below.
	closes := make([]float64, 40)
	for i := 0; i < 30; i++ {
		closes[i] = 100 + float64(i)
	}
	for i := 30; i < 40; i++ {
		closes[i] = 129 - 5*float64(i-29)
	}

	signals := suite.evaluate("ENTRY:\nclose > sma(close, 20)\nEXIT:\nclose < sma(close, 20)", tableFromCloses(closes))

	firstEntry := -1
	for i, on := range signals.Entry {
		if on {
			firstEntry = i
			break
		}
	}

	// Warm-up ends at row 19; a strictly rising series is immediately above
	// its trailing mean there.
	suite.Equal(19, firstEntry)

	firstExit := -1
	for i, on := range signals.Exit {
		if on {
			firstExit = i
			break
		}
	}

	suite.Greater(firstExit, firstEntry)

	// Before the fall starts, close never dips below the mean.
	suite.GreaterOrEqual(firstExit, 30)

	// One contiguous regime on each side: no exit signal before the peak,
	// no entry signal after the first exit.
	for i := firstExit; i < len(closes); i++ {
		suite.False(signals.Entry[i], "row %d", i)
	}
}

func (suite *CompilerTestSuite) TestPercentChangeScenario() {
	volumes := make([]float64, 17)
	for i := range volumes {
		if i < 10 {
			volumes[i] = 1000
		} else {
			volumes[i] = 1400
		}
	}

	data := tableFromCloses(make([]float64, 17))
	for i := range data {
		data[i].Close = 1
		data[i].Volume = volumes[i]
	}

	signals := suite.evaluate("ENTRY:\npercent_change(volume, 7) > 30%", data)

	for i := 0; i < 10; i++ {
		suite.False(signals.Entry[i], "row %d", i)
	}

	// 1400 against the 1000 baseline is a 40% change.
	for i := 10; i < 17; i++ {
		suite.True(signals.Entry[i], "row %d", i)
	}
}

func (suite *CompilerTestSuite) TestShortTableIsAllFalse() {
	signals := suite.evaluate("ENTRY:\nclose > sma(close, 20)", tableFromCloses([]float64{1, 2, 3, 4, 5}))

	for i, on := range signals.Entry {
		suite.False(on, "row %d", i)
	}
}

func (suite *CompilerTestSuite) TestDefaultPeriods() {
	// rsi() with no period uses the configured default of 14: rows 0..13
	// are warm-up, and a strictly rising close pins RSI at 100 afterwards.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i + 1)
	}

	signals := suite.evaluate("ENTRY:\nrsi(close) == 100", tableFromCloses(closes))

	for i := 0; i < 14; i++ {
		suite.False(signals.Entry[i], "row %d", i)
	}
	for i := 14; i < 20; i++ {
		suite.True(signals.Entry[i], "row %d", i)
	}
}

func (suite *CompilerTestSuite) TestCustomDefaultPeriods() {
	compiler, err := NewCompiler(Config{SMAPeriod: 2, EMAPeriod: 2, RSIPeriod: 2}, nil)
	suite.Require().NoError(err)

	strategy, err := parser.Parse("ENTRY:\nclose > sma(close)")
	suite.Require().NoError(err)

	evaluator, err := compiler.Compile(strategy)
	suite.Require().NoError(err)

	signals, err := evaluator.Evaluate(tableFromCloses([]float64{1, 2, 3}))
	suite.Require().NoError(err)

	// With period 2 only row 0 is warm-up; rising close beats its mean.
	suite.Equal([]bool{false, true, true}, signals.Entry)
}

func (suite *CompilerTestSuite) TestBooleanFold() {
	data := tableFromCloses([]float64{1, 2, 3, 4, 5})

	signals := suite.evaluate("ENTRY:\nclose > 2 AND close < 5", data)
	suite.Equal([]bool{false, false, true, true, false}, signals.Entry)

	signals = suite.evaluate("ENTRY:\nclose < 2 OR close > 4", data)
	suite.Equal([]bool{true, false, false, false, true}, signals.Entry)
}

func (suite *CompilerTestSuite) TestUndefinedAndDefinedFalse() {
	// sma(close, 3) is undefined on rows 0-1; AND with a defined-false
	// operand still collapses to false, and a defined-true operand cannot
	// resurrect an undefined row.
	data := tableFromCloses([]float64{5, 4, 3, 2, 1})

	signals := suite.evaluate("ENTRY:\nclose < sma(close, 3) AND close > 0", data)

	suite.Equal([]bool{false, false, true, true, true}, signals.Entry)
}

func (suite *CompilerTestSuite) TestCrossEvaluation() {
	closes := []float64{1, 2, 3, 4, 3, 2, 1}

	data := tableFromCloses(closes)
	for i := range data {
		data[i].Open = 2.5
	}

	signals := suite.evaluate("ENTRY:\nclose crosses_above open\nEXIT:\ncrosses_below(close, open)", data)

	suite.Equal([]bool{false, false, true, false, false, false, false}, signals.Entry)
	suite.Equal([]bool{false, false, false, false, false, true, false}, signals.Exit)
}

func (suite *CompilerTestSuite) TestTimeShiftEvaluation() {
	signals := suite.evaluate("ENTRY:\nclose > yesterday(close)", tableFromCloses([]float64{1, 2, 2, 3}))

	suite.Equal([]bool{false, true, false, true}, signals.Entry)
}

func (suite *CompilerTestSuite) TestEvaluatorIsReusable() {
	strategy, err := parser.Parse("ENTRY:\nclose > 2")
	suite.Require().NoError(err)

	evaluator, err := suite.compiler.Compile(strategy)
	suite.Require().NoError(err)

	first, err := evaluator.Evaluate(tableFromCloses([]float64{1, 3}))
	suite.Require().NoError(err)
	suite.Equal([]bool{false, true}, first.Entry)

	second, err := evaluator.Evaluate(tableFromCloses([]float64{5}))
	suite.Require().NoError(err)
	suite.Equal([]bool{true}, second.Entry)
}

func (suite *CompilerTestSuite) TestEmptyStrategy() {
	_, err := suite.compiler.Compile(nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyStrategy))
}

func (suite *CompilerTestSuite) TestInvalidConfig() {
	_, err := NewCompiler(Config{SMAPeriod: 0, EMAPeriod: 20, RSIPeriod: 14}, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *CompilerTestSuite) TestIndicatorLookupUsesRegistry() {
	strategy, err := parser.Parse("ENTRY:\nclose > sma(close, 3)")
	suite.Require().NoError(err)

	compiler, err := NewCompiler(DefaultConfig(), indicator.NewEmptyRegistry())
	suite.Require().NoError(err)

	_, err = compiler.Compile(strategy)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownIndicator))

	compiler, err = NewCompiler(DefaultConfig(), indicator.NewRegistry())
	suite.Require().NoError(err)

	_, err = compiler.Compile(strategy)
	suite.NoError(err)
}
