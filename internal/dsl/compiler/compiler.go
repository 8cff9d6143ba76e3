// Package compiler turns a parsed strategy AST into a reusable Evaluator
// that produces entry/exit signal sequences over OHLCV tables.
package compiler

import (
	"github.com/quantlab-oss/stratdsl/internal/dsl/ast"
	"github.com/quantlab-oss/stratdsl/internal/indicator"
	"github.com/quantlab-oss/stratdsl/internal/series"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

type exprFunc func(tbl *table) (series.Float, error)

type ruleFunc func(tbl *table) (series.Bool, error)

// Compiler compiles strategy ASTs against an indicator registry and a set
// of default periods.
type Compiler struct {
	config   Config
	registry indicator.Registry
}

// NewCompiler creates a compiler. A nil registry falls back to the default
// registry with the built-in indicators.
func NewCompiler(config Config, registry indicator.Registry) (*Compiler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if registry == nil {
		registry = indicator.NewRegistry()
	}

	return &Compiler{config: config, registry: registry}, nil
}

// Compile walks the AST once, grounds every node (indicator lookups, series
// names), and captures the evaluation plan. A validated AST compiles without
// error; failures here indicate a malformed tree and carry compile error
// codes. The returned Evaluator is immutable and safe for concurrent use.
func (c *Compiler) Compile(strategy *ast.Strategy) (*Evaluator, error) {
	if strategy == nil || (strategy.Entry == nil && strategy.Exit == nil) {
		return nil, errors.New(errors.ErrCodeEmptyStrategy, "strategy has no entry or exit rule")
	}

	evaluator := &Evaluator{}

	if strategy.Entry != nil {
		entry, err := c.compileRule(strategy.Entry)
		if err != nil {
			return nil, err
		}

		evaluator.entry = entry
	}

	if strategy.Exit != nil {
		exit, err := c.compileRule(strategy.Exit)
		if err != nil {
			return nil, err
		}

		evaluator.exit = exit
	}

	return evaluator, nil
}

func (c *Compiler) compileRule(rule ast.Rule) (ruleFunc, error) {
	switch node := rule.(type) {
	case *ast.Comparison:
		return c.compileComparison(node)

	case *ast.Cross:
		return c.compileCross(node)

	case *ast.Boolean:
		return c.compileBoolean(node)

	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedNode, "unsupported rule node %T", rule)
	}
}

func (c *Compiler) compileComparison(node *ast.Comparison) (ruleFunc, error) {
	compare, err := compareOpFunc(node.Op)
	if err != nil {
		return nil, err
	}

	left, err := c.compileExpr(node.Left)
	if err != nil {
		return nil, err
	}

	right, err := c.compileExpr(node.Right)
	if err != nil {
		return nil, err
	}

	return func(tbl *table) (series.Bool, error) {
		a, err := left(tbl)
		if err != nil {
			return series.Bool{}, err
		}

		b, err := right(tbl)
		if err != nil {
			return series.Bool{}, err
		}

		return a.Compare(b, compare)
	}, nil
}

func (c *Compiler) compileCross(node *ast.Cross) (ruleFunc, error) {
	left, err := c.compileExpr(node.Left)
	if err != nil {
		return nil, err
	}

	right, err := c.compileExpr(node.Right)
	if err != nil {
		return nil, err
	}

	detect := indicator.CrossAbove
	if node.Direction == ast.CrossBelow {
		detect = indicator.CrossBelow
	}

	return func(tbl *table) (series.Bool, error) {
		a, err := left(tbl)
		if err != nil {
			return series.Bool{}, err
		}

		b, err := right(tbl)
		if err != nil {
			return series.Bool{}, err
		}

		return detect(a, b)
	}, nil
}

func (c *Compiler) compileBoolean(node *ast.Boolean) (ruleFunc, error) {
	left, err := c.compileRule(node.Left)
	if err != nil {
		return nil, err
	}

	right, err := c.compileRule(node.Right)
	if err != nil {
		return nil, err
	}

	and := node.Op == ast.BoolAnd

	return func(tbl *table) (series.Bool, error) {
		a, err := left(tbl)
		if err != nil {
			return series.Bool{}, err
		}

		b, err := right(tbl)
		if err != nil {
			return series.Bool{}, err
		}

		if and {
			return a.And(b)
		}

		return a.Or(b)
	}, nil
}

func (c *Compiler) compileExpr(expr ast.Expr) (exprFunc, error) {
	switch node := expr.(type) {
	case *ast.SeriesRef:
		name := node.Name

		return func(tbl *table) (series.Float, error) {
			return tbl.column(name)
		}, nil

	case *ast.Number:
		value := node.Value

		return func(tbl *table) (series.Float, error) {
			return series.Constant(value, tbl.length), nil
		}, nil

	case *ast.Percent:
		// A percentage literal compares by its bare numeric value; 30%
		// matches a percent_change result of 30.
		value := node.Value

		return func(tbl *table) (series.Float, error) {
			return series.Constant(value, tbl.length), nil
		}, nil

	case *ast.Indicator:
		return c.compileIndicator(node)

	case *ast.TimeShift:
		name := node.Series.Name
		lag := node.Lag

		return func(tbl *table) (series.Float, error) {
			col, err := tbl.column(name)
			if err != nil {
				return series.Float{}, err
			}

			return indicator.NDaysAgo(col, lag)
		}, nil

	case *ast.Change:
		name := node.Series.Name
		lag := node.Lag

		change := indicator.Change
		if node.Percent {
			change = indicator.PercentChange
		}

		return func(tbl *table) (series.Float, error) {
			col, err := tbl.column(name)
			if err != nil {
				return series.Float{}, err
			}

			return change(col, lag)
		}, nil

	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedNode, "unsupported expression node %T", expr)
	}
}

func (c *Compiler) compileIndicator(node *ast.Indicator) (exprFunc, error) {
	ind, err := c.registry.GetIndicator(node.Name)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeUnknownIndicator, err, "indicator %q is not registered", node.Name)
	}

	period, err := c.periodFor(node)
	if err != nil {
		return nil, err
	}

	arg, err := c.compileExpr(node.Arg)
	if err != nil {
		return nil, err
	}

	return func(tbl *table) (series.Float, error) {
		x, err := arg(tbl)
		if err != nil {
			return series.Float{}, err
		}

		return ind.Compute(x, period)
	}, nil
}

func (c *Compiler) periodFor(node *ast.Indicator) (int, error) {
	if node.Period.IsSome() {
		return node.Period.Unwrap(), nil
	}

	switch node.Name {
	case types.IndicatorTypeSMA:
		return c.config.SMAPeriod, nil
	case types.IndicatorTypeEMA:
		return c.config.EMAPeriod, nil
	case types.IndicatorTypeRSI:
		return c.config.RSIPeriod, nil
	default:
		return 0, errors.Newf(errors.ErrCodeUnknownIndicator, "no default period for indicator %q", node.Name)
	}
}

func compareOpFunc(op ast.CompareOp) (series.CompareOp, error) {
	switch op {
	case ast.CompareGT:
		return func(a, b float64) bool { return a > b }, nil
	case ast.CompareLT:
		return func(a, b float64) bool { return a < b }, nil
	case ast.CompareGTE:
		return func(a, b float64) bool { return a >= b }, nil
	case ast.CompareLTE:
		return func(a, b float64) bool { return a <= b }, nil
	case ast.CompareEQ:
		return func(a, b float64) bool { return a == b }, nil
	case ast.CompareNEQ:
		return func(a, b float64) bool { return a != b }, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedNode, "unsupported comparison operator %q", op)
	}
}

// Evaluator is a compiled strategy. It holds no mutable state and can be
// applied to any number of tables concurrently.
type Evaluator struct {
	entry ruleFunc
	exit  ruleFunc
}

// Evaluate produces the entry and exit signal sequences for a table. A
// missing section yields an all-false sequence. Warm-up rows where an
// indicator or lag lacks history collapse to false here, never to an error.
func (e *Evaluator) Evaluate(data []types.MarketData) (types.Signals, error) {
	tbl := newTable(data)

	entry, err := evalSection(e.entry, tbl)
	if err != nil {
		return types.Signals{}, err
	}

	exit, err := evalSection(e.exit, tbl)
	if err != nil {
		return types.Signals{}, err
	}

	return types.Signals{Entry: entry, Exit: exit}, nil
}

func evalSection(fn ruleFunc, tbl *table) ([]bool, error) {
	if fn == nil {
		return make([]bool, tbl.length), nil
	}

	signal, err := fn(tbl)
	if err != nil {
		return nil, err
	}

	return signal.Collapse(), nil
}
