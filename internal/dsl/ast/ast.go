// Package ast defines the node types produced by parsing strategy DSL text.
// Nodes are immutable after parse; each carries the source position of its
// introducing token.
package ast

import (
	"github.com/moznion/go-optional"
	"github.com/quantlab-oss/stratdsl/internal/types"
)

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// Pos returns the position itself so that embedding Position satisfies Node.
func (p Position) Pos() Position {
	return p
}

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
}

// Expr is a numeric-valued expression node.
type Expr interface {
	Node
	exprNode()
}

// Rule is a boolean-valued rule node.
type Rule interface {
	Node
	ruleNode()
}

// SeriesRef references one of the OHLCV columns.
type SeriesRef struct {
	Position
	Name types.Column
}

// Number is a plain numeric literal.
type Number struct {
	Position
	Value float64
}

// Percent is a numeric literal written with a trailing percent sign.
// Its value is the bare number; 5% compares equal to the literal 5.
type Percent struct {
	Position
	Value float64
}

// Indicator is an indicator call such as sma(close, 20). Period is unset
// when the call omits it; the compiler applies its configured default.
type Indicator struct {
	Position
	Name   types.IndicatorType
	Arg    Expr
	Period optional.Option[int]
}

// TimeShift shifts a series back by a fixed number of rows. yesterday and
// last_week are sugar for lags 1 and 7.
type TimeShift struct {
	Position
	Series SeriesRef
	Lag    int
}

// Change is change(series, n) or percent_change(series, n).
type Change struct {
	Position
	Percent bool
	Series  SeriesRef
	Lag     int
}

// CrossDirection distinguishes crosses_above from crosses_below.
type CrossDirection string

const (
	CrossAbove CrossDirection = "crosses_above"
	CrossBelow CrossDirection = "crosses_below"
)

// Cross detects one sequence crossing another. Both the infix and the
// function-call surface forms parse to this node.
type Cross struct {
	Position
	Direction CrossDirection
	Left      Expr
	Right     Expr
}

// CompareOp is a comparison operator token.
type CompareOp string

const (
	CompareGT  CompareOp = ">"
	CompareLT  CompareOp = "<"
	CompareGTE CompareOp = ">="
	CompareLTE CompareOp = "<="
	CompareEQ  CompareOp = "=="
	CompareNEQ CompareOp = "!="
)

// Comparison applies an operator elementwise to two numeric expressions.
type Comparison struct {
	Position
	Op    CompareOp
	Left  Expr
	Right Expr
}

// BoolOp joins two rules.
type BoolOp string

const (
	BoolAnd BoolOp = "and"
	BoolOr  BoolOp = "or"
)

// Boolean is a binary AND/OR over two rules. Left-to-right chains parse
// into left-nested Boolean nodes.
type Boolean struct {
	Position
	Op    BoolOp
	Left  Rule
	Right Rule
}

// Strategy is the root node. Entry or Exit is nil when the corresponding
// section is absent; at least one is always present after a successful parse.
type Strategy struct {
	Entry Rule
	Exit  Rule
}

func (*SeriesRef) exprNode() {}
func (*Number) exprNode()    {}
func (*Percent) exprNode()   {}
func (*Indicator) exprNode() {}
func (*TimeShift) exprNode() {}
func (*Change) exprNode()    {}

func (*Cross) ruleNode()      {}
func (*Comparison) ruleNode() {}
func (*Boolean) ruleNode()    {}
