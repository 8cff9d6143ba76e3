package rules

import (
	"testing"

	"github.com/quantlab-oss/stratdsl/internal/dsl/parser"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RulesTestSuite struct {
	suite.Suite
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesTestSuite))
}

func intPtr(v int) *int {
	return &v
}

func seriesExpr(name string) Expression {
	return Expression{Series: &SeriesExpression{Name: name}}
}

func indicatorExpr(name, series string, period *int) Expression {
	return Expression{Indicator: &IndicatorExpression{Name: name, Series: series, Period: period}}
}

func literalExpr(value float64) Expression {
	return Expression{Literal: &LiteralExpression{Value: value}}
}

func (suite *RulesTestSuite) smaCrossoverDocument() *Document {
	return &Document{
		SchemaVersion: "1.0.0",
		Entry: &Section{
			Conditions: []Condition{
				{
					Left:     indicatorExpr("sma", "close", intPtr(10)),
					Operator: OperatorCrossAbove,
					Right:    indicatorExpr("sma", "close", intPtr(50)),
				},
			},
		},
		Exit: &Section{
			Conditions: []Condition{
				{
					Left:     indicatorExpr("sma", "close", intPtr(10)),
					Operator: OperatorCrossBelow,
					Right:    indicatorExpr("sma", "close", intPtr(50)),
				},
			},
		},
	}
}

func (suite *RulesTestSuite) TestGenerateDSL() {
	text, err := GenerateDSL(suite.smaCrossoverDocument())
	suite.Require().NoError(err)

	suite.Equal("ENTRY:\ncrosses_above(sma(close, 10), sma(close, 50))\nEXIT:\ncrosses_below(sma(close, 10), sma(close, 50))\n", text)
}

func (suite *RulesTestSuite) TestGenerateDSLConnectors() {
	doc := &Document{
		SchemaVersion: "1.0.0",
		Entry: &Section{
			Connector: ConnectorOr,
			Conditions: []Condition{
				{Left: seriesExpr("close"), Operator: OperatorGT, Right: literalExpr(100)},
				{
					Left:     Expression{Function: &FunctionExpression{Name: "percent_change", Series: "volume", Lag: intPtr(7)}},
					Operator: OperatorGT,
					Right:    Expression{Literal: &LiteralExpression{Value: 30, Percent: true}},
				},
			},
		},
	}

	text, err := GenerateDSL(doc)
	suite.Require().NoError(err)

	suite.Equal("ENTRY:\nclose > 100 OR percent_change(volume, 7) > 30%\n", text)
}

func (suite *RulesTestSuite) TestConnectorDefaultsToAnd() {
	doc := &Document{
		SchemaVersion: "1.0.0",
		Exit: &Section{
			Conditions: []Condition{
				{Left: indicatorExpr("rsi", "close", nil), Operator: OperatorGT, Right: literalExpr(70)},
				{Left: seriesExpr("close"), Operator: OperatorLT, Right: Expression{Function: &FunctionExpression{Name: "yesterday", Series: "low"}}},
			},
		},
	}

	text, err := GenerateDSL(doc)
	suite.Require().NoError(err)

	suite.Equal("EXIT:\nrsi(close) > 70 AND close < yesterday(low)\n", text)
}

func (suite *RulesTestSuite) TestRoundTrip() {
	docs := []*Document{
		suite.smaCrossoverDocument(),
		{
			SchemaVersion: "1.0.0",
			Entry: &Section{
				Conditions: []Condition{
					{Left: seriesExpr("volume"), Operator: OperatorGTE, Right: literalExpr(1000000)},
					{
						Left:     Expression{Function: &FunctionExpression{Name: "n_days_ago", Series: "close", Lag: intPtr(30)}},
						Operator: OperatorNEQ,
						Right:    seriesExpr("close"),
					},
				},
			},
		},
	}

	for _, doc := range docs {
		text, err := GenerateDSL(doc)
		suite.Require().NoError(err)

		// Emitted DSL always parses.
		strategy, err := parser.Parse(text)
		suite.NoError(err)
		suite.NotNil(strategy)

		// Re-emission is byte-stable.
		again, err := GenerateDSL(doc)
		suite.Require().NoError(err)
		suite.Equal(text, again)
	}
}

func (suite *RulesTestSuite) TestParseDocument() {
	doc, err := ParseDocument([]byte(`
schema_version: "1.0.0"
entry:
  conditions:
    - left:
        series:
          name: close
      operator: ">"
      right:
        indicator:
          name: sma
          series: close
          period: 20
`))
	suite.Require().NoError(err)

	suite.Equal("1.0.0", doc.SchemaVersion)
	suite.Require().NotNil(doc.Entry)
	suite.Len(doc.Entry.Conditions, 1)
	suite.Equal(20, *doc.Entry.Conditions[0].Right.Indicator.Period)
}

func (suite *RulesTestSuite) TestEmptyDocument() {
	doc := &Document{SchemaVersion: "1.0.0"}

	err := doc.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyRuleDocument))
}

func (suite *RulesTestSuite) TestExpressionMustBeExactlyOneVariant() {
	doc := &Document{
		SchemaVersion: "1.0.0",
		Entry: &Section{
			Conditions: []Condition{
				{
					Left:     Expression{Series: &SeriesExpression{Name: "close"}, Literal: &LiteralExpression{Value: 5}},
					Operator: OperatorGT,
					Right:    literalExpr(5),
				},
			},
		},
	}

	err := doc.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRuleValidation))
}

func (suite *RulesTestSuite) TestFunctionLagRules() {
	base := func(fn FunctionExpression) *Document {
		return &Document{
			SchemaVersion: "1.0.0",
			Entry: &Section{
				Conditions: []Condition{
					{Left: Expression{Function: &fn}, Operator: OperatorGT, Right: literalExpr(0)},
				},
			},
		}
	}

	err := base(FunctionExpression{Name: "n_days_ago", Series: "close"}).Validate()
	suite.Error(err)
	suite.Contains(err.Error(), "requires a lag")

	err = base(FunctionExpression{Name: "yesterday", Series: "close", Lag: intPtr(2)}).Validate()
	suite.Error(err)
	suite.Contains(err.Error(), "does not take a lag")

	suite.NoError(base(FunctionExpression{Name: "change", Series: "close", Lag: intPtr(5)}).Validate())
}

func (suite *RulesTestSuite) TestCrossNeedsNonLiteralSide() {
	doc := &Document{
		SchemaVersion: "1.0.0",
		Entry: &Section{
			Conditions: []Condition{
				{Left: literalExpr(1), Operator: OperatorCrossAbove, Right: literalExpr(2)},
			},
		},
	}

	err := doc.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRuleValidation))
}

func (suite *RulesTestSuite) TestSchemaVersionMismatch() {
	doc := suite.smaCrossoverDocument()
	doc.SchemaVersion = "2.0.0"

	_, err := GenerateDSL(doc)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaVersionMismatch))
}

func (suite *RulesTestSuite) TestGenerateSchemaJSON() {
	schema, err := GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.Contains(schema, "schema_version")
	suite.Contains(schema, "conditions")
}
