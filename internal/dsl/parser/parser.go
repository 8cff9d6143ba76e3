// Package parser turns strategy DSL text into an AST. All vocabulary, arity,
// and argument-type violations are reported at parse time as syntax errors
// carrying the offending token's position; no partial AST is ever returned.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/quantlab-oss/stratdsl/internal/dsl/ast"
	"github.com/quantlab-oss/stratdsl/internal/indicator"
	"github.com/quantlab-oss/stratdsl/internal/types"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

// Parse parses a full strategy: an ENTRY section, an EXIT section, or both.
func Parse(text string) (*ast.Strategy, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}

	strategy := &ast.Strategy{}

	if p.atKeyword("ENTRY") {
		p.next()
		if err := p.expect(tokenColon, "expected ':' after ENTRY"); err != nil {
			return nil, err
		}

		rule, err := p.parseRuleList()
		if err != nil {
			return nil, err
		}

		strategy.Entry = rule
	}

	if p.atKeyword("EXIT") {
		p.next()
		if err := p.expect(tokenColon, "expected ':' after EXIT"); err != nil {
			return nil, err
		}

		rule, err := p.parseRuleList()
		if err != nil {
			return nil, err
		}

		strategy.Exit = rule
	}

	if strategy.Entry == nil && strategy.Exit == nil {
		tok := p.peek()
		return nil, errors.NewSyntaxError(tok.Line, tok.Column,
			"strategy requires at least one ENTRY or EXIT section")
	}

	if p.peek().Kind != tokenEOF {
		tok := p.peek()
		return nil, errors.NewSyntaxErrorf(tok.Line, tok.Column,
			"unexpected token %q after strategy", tok.Text)
	}

	return strategy, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.Kind != tokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) expect(kind tokenKind, msg string) error {
	tok := p.peek()
	if tok.Kind != kind {
		return errors.NewSyntaxErrorf(tok.Line, tok.Column, "%s, got %s", msg, tokenText(tok))
	}

	p.next()

	return nil
}

func (p *parser) atKeyword(keyword string) bool {
	tok := p.peek()

	return tok.Kind == tokenIdent && strings.EqualFold(tok.Text, keyword)
}

func (p *parser) atSectionBoundary() bool {
	return p.atKeyword("ENTRY") || p.atKeyword("EXIT")
}

// parseRuleList parses a left-to-right AND/OR chain with a single precedence
// level. Chains become left-nested Boolean nodes.
func (p *parser) parseRuleList() (ast.Rule, error) {
	left, err := p.parseRule()
	if err != nil {
		return nil, err
	}

	for p.atKeyword("AND") || p.atKeyword("OR") {
		opTok := p.next()

		op := ast.BoolAnd
		if strings.EqualFold(opTok.Text, "OR") {
			op = ast.BoolOr
		}

		right, err := p.parseRule()
		if err != nil {
			return nil, err
		}

		left = &ast.Boolean{
			Position: pos(opTok),
			Op:       op,
			Left:     left,
			Right:    right,
		}
	}

	return left, nil
}

// parseRule parses a single rule: a function-call cross, a parenthesized
// rule chain, or a comparison. An opening parenthesis is ambiguous between
// grouping a chain and grouping a comparison operand; the grouped-chain
// interpretation is tried first and the parser rewinds on failure.
func (p *parser) parseRule() (ast.Rule, error) {
	tok := p.peek()

	if tok.Kind == tokenIdent && isCrossName(tok.Text) && p.tokens[p.pos+1].Kind == tokenLParen {
		return p.parseCrossCall()
	}

	if tok.Kind == tokenLParen {
		saved := p.pos

		p.next()

		rule, err := p.parseRuleList()
		if err == nil && p.peek().Kind == tokenRParen {
			p.next()

			return rule, nil
		}

		p.pos = saved
	}

	return p.parseComparison()
}

func (p *parser) parseComparison() (ast.Rule, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	tok := p.peek()

	if tok.Kind == tokenIdent && isCrossName(tok.Text) {
		p.next()

		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &ast.Cross{
			Position:  pos(tok),
			Direction: ast.CrossDirection(tok.Text),
			Left:      left,
			Right:     right,
		}, nil
	}

	if tok.Kind != tokenOperator {
		return nil, errors.NewSyntaxErrorf(tok.Line, tok.Column,
			"expected comparison operator, got %s", tokenText(tok))
	}

	p.next()

	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Comparison{
		Position: pos(tok),
		Op:       ast.CompareOp(tok.Text),
		Left:     left,
		Right:    right,
	}, nil
}

func (p *parser) parseExpr() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case tokenLParen:
		p.next()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(tokenRParen, "expected ')'"); err != nil {
			return nil, err
		}

		return expr, nil

	case tokenNumber:
		p.next()

		return &ast.Number{Position: pos(tok), Value: tok.Value}, nil

	case tokenPercent:
		p.next()

		return &ast.Percent{Position: pos(tok), Value: tok.Value}, nil

	case tokenIdent:
		return p.parseIdentExpr()

	default:
		return nil, errors.NewSyntaxErrorf(tok.Line, tok.Column,
			"expected expression, got %s", tokenText(tok))
	}
}

func (p *parser) parseIdentExpr() (ast.Expr, error) {
	tok := p.next()

	if types.IsValidColumn(tok.Text) {
		return &ast.SeriesRef{Position: pos(tok), Name: types.Column(tok.Text)}, nil
	}

	if types.IsValidIndicator(tok.Text) {
		return p.parseIndicatorCall(tok)
	}

	switch tok.Text {
	case "yesterday":
		return p.parseTimeShiftCall(tok, indicator.YesterdayLag)
	case "last_week":
		return p.parseTimeShiftCall(tok, indicator.LastWeekLag)
	case "n_days_ago":
		return p.parseNDaysAgoCall(tok)
	case "change":
		return p.parseChangeCall(tok, false)
	case "percent_change":
		return p.parseChangeCall(tok, true)
	}

	if isCrossName(tok.Text) {
		return nil, errors.NewSyntaxErrorf(tok.Line, tok.Column,
			"%s is a boolean condition and cannot be used as a numeric expression", tok.Text)
	}

	return nil, errors.NewSyntaxErrorf(tok.Line, tok.Column, "unknown identifier %q", tok.Text)
}

// parseIndicatorCall parses '(' expr (',' number)? ')' after an indicator
// name. An omitted period stays unset in the node.
func (p *parser) parseIndicatorCall(name token) (ast.Expr, error) {
	if err := p.expect(tokenLParen, "expected '(' after "+name.Text); err != nil {
		return nil, err
	}

	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	period := optional.None[int]()

	if p.peek().Kind == tokenComma {
		p.next()

		n, err := p.parsePositiveInt("period")
		if err != nil {
			return nil, err
		}

		period = optional.Some(n)
	}

	if err := p.expect(tokenRParen, "expected ')'"); err != nil {
		return nil, err
	}

	return &ast.Indicator{
		Position: pos(name),
		Name:     types.IndicatorType(name.Text),
		Arg:      arg,
		Period:   period,
	}, nil
}

func (p *parser) parseTimeShiftCall(name token, lag int) (ast.Expr, error) {
	if err := p.expect(tokenLParen, "expected '(' after "+name.Text); err != nil {
		return nil, err
	}

	series, err := p.parseSeriesArg(name.Text)
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenRParen, "expected ')'"); err != nil {
		return nil, err
	}

	return &ast.TimeShift{Position: pos(name), Series: series, Lag: lag}, nil
}

func (p *parser) parseNDaysAgoCall(name token) (ast.Expr, error) {
	if err := p.expect(tokenLParen, "expected '(' after "+name.Text); err != nil {
		return nil, err
	}

	series, err := p.parseSeriesArg(name.Text)
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenComma, "expected ','"); err != nil {
		return nil, err
	}

	lag, err := p.parsePositiveInt("lag")
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenRParen, "expected ')'"); err != nil {
		return nil, err
	}

	return &ast.TimeShift{Position: pos(name), Series: series, Lag: lag}, nil
}

func (p *parser) parseChangeCall(name token, percent bool) (ast.Expr, error) {
	if err := p.expect(tokenLParen, "expected '(' after "+name.Text); err != nil {
		return nil, err
	}

	series, err := p.parseSeriesArg(name.Text)
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenComma, "expected ','"); err != nil {
		return nil, err
	}

	lag, err := p.parsePositiveInt("lag")
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenRParen, "expected ')'"); err != nil {
		return nil, err
	}

	return &ast.Change{Position: pos(name), Percent: percent, Series: series, Lag: lag}, nil
}

func (p *parser) parseCrossCall() (ast.Rule, error) {
	name := p.next()

	if err := p.expect(tokenLParen, "expected '(' after "+name.Text); err != nil {
		return nil, err
	}

	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenComma, "expected ','"); err != nil {
		return nil, err
	}

	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(tokenRParen, "expected ')'"); err != nil {
		return nil, err
	}

	return &ast.Cross{
		Position:  pos(name),
		Direction: ast.CrossDirection(name.Text),
		Left:      left,
		Right:     right,
	}, nil
}

func (p *parser) parseSeriesArg(fn string) (ast.SeriesRef, error) {
	tok := p.peek()

	if tok.Kind != tokenIdent || !types.IsValidColumn(tok.Text) {
		return ast.SeriesRef{}, errors.NewSyntaxErrorf(tok.Line, tok.Column,
			"%s requires a series name, got %s", fn, tokenText(tok))
	}

	p.next()

	return ast.SeriesRef{Position: pos(tok), Name: types.Column(tok.Text)}, nil
}

func (p *parser) parsePositiveInt(what string) (int, error) {
	tok := p.peek()

	if tok.Kind != tokenNumber {
		return 0, errors.NewSyntaxErrorf(tok.Line, tok.Column,
			"expected %s, got %s", what, tokenText(tok))
	}

	if tok.Value < 1 || tok.Value != math.Trunc(tok.Value) {
		return 0, errors.NewSyntaxErrorf(tok.Line, tok.Column,
			"%s must be a positive integer, got %s", what, tok.Text)
	}

	p.next()

	return int(tok.Value), nil
}

func isCrossName(name string) bool {
	return name == string(ast.CrossAbove) || name == string(ast.CrossBelow)
}

func pos(tok token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column}
}

func tokenText(tok token) string {
	if tok.Kind == tokenEOF {
		return "end of input"
	}

	return strconv.Quote(tok.Text)
}
