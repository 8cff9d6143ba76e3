// Package rules defines the structured rule document accepted at the
// system boundary and its translation into strategy DSL text.
package rules

import (
	"github.com/go-playground/validator/v10"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Connector joins the conditions of one section.
type Connector string

const (
	ConnectorAnd Connector = "AND"
	ConnectorOr  Connector = "OR"
)

// Operator relates the two sides of a condition.
type Operator string

const (
	OperatorGT         Operator = ">"
	OperatorLT         Operator = "<"
	OperatorGTE        Operator = ">="
	OperatorLTE        Operator = "<="
	OperatorEQ         Operator = "=="
	OperatorNEQ        Operator = "!="
	OperatorCrossAbove Operator = "crosses_above"
	OperatorCrossBelow Operator = "crosses_below"
)

// SeriesExpression names an OHLCV column.
type SeriesExpression struct {
	Name string `json:"name" yaml:"name" jsonschema:"description=OHLCV column name,enum=open,enum=high,enum=low,enum=close,enum=volume" validate:"required,oneof=open high low close volume"`
}

// IndicatorExpression is an indicator applied to a column. A nil period
// defers to the compiler's configured default.
type IndicatorExpression struct {
	Name   string `json:"name" yaml:"name" jsonschema:"description=Indicator name,enum=sma,enum=ema,enum=rsi" validate:"required,oneof=sma ema rsi"`
	Series string `json:"series" yaml:"series" jsonschema:"description=Column the indicator is computed over" validate:"required,oneof=open high low close volume"`
	Period *int   `json:"period,omitempty" yaml:"period,omitempty" jsonschema:"description=Indicator period; omit for the compiler default" validate:"omitempty,gt=0"`
}

// FunctionExpression is a lookback or change function applied to a column.
// Lag is required for n_days_ago, change, and percent_change.
type FunctionExpression struct {
	Name   string `json:"name" yaml:"name" jsonschema:"description=Function name,enum=yesterday,enum=last_week,enum=n_days_ago,enum=change,enum=percent_change" validate:"required,oneof=yesterday last_week n_days_ago change percent_change"`
	Series string `json:"series" yaml:"series" jsonschema:"description=Column the function is applied to" validate:"required,oneof=open high low close volume"`
	Lag    *int   `json:"lag,omitempty" yaml:"lag,omitempty" jsonschema:"description=Row lag for n_days_ago/change/percent_change" validate:"omitempty,gt=0"`
}

// LiteralExpression is a numeric constant, optionally a percentage.
type LiteralExpression struct {
	Value   float64 `json:"value" yaml:"value" jsonschema:"description=Numeric value" validate:"gte=0"`
	Percent bool    `json:"percent,omitempty" yaml:"percent,omitempty" jsonschema:"description=Render with a trailing percent sign"`
}

// Expression is a tagged union; exactly one field must be set.
type Expression struct {
	Series    *SeriesExpression    `json:"series,omitempty" yaml:"series,omitempty"`
	Indicator *IndicatorExpression `json:"indicator,omitempty" yaml:"indicator,omitempty"`
	Function  *FunctionExpression  `json:"function,omitempty" yaml:"function,omitempty"`
	Literal   *LiteralExpression   `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Condition relates two expressions with an operator.
type Condition struct {
	Left     Expression `json:"left" yaml:"left"`
	Operator Operator   `json:"operator" yaml:"operator" jsonschema:"description=Relation between the two sides,enum=>,enum=<,enum=>=,enum=<=,enum===,enum=!=,enum=crosses_above,enum=crosses_below" validate:"required,oneof=> < >= <= == != crosses_above crosses_below"`
	Right    Expression `json:"right" yaml:"right"`
}

// Section is one list of conditions joined by a connector. The connector
// defaults to AND when omitted.
type Section struct {
	Connector  Connector   `json:"connector,omitempty" yaml:"connector,omitempty" jsonschema:"description=Boolean connector between conditions,enum=AND,enum=OR,default=AND" validate:"omitempty,oneof=AND OR"`
	Conditions []Condition `json:"conditions" yaml:"conditions" validate:"required,min=1,dive"`
}

// Document is the rule document produced by the upstream rule-generation
// collaborator. At least one of Entry and Exit must be present.
type Document struct {
	SchemaVersion string   `json:"schema_version" yaml:"schema_version" jsonschema:"description=Schema version the document conforms to" validate:"required"`
	Entry         *Section `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit          *Section `json:"exit,omitempty" yaml:"exit,omitempty"`
}

// ParseDocument parses and validates a YAML rule document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRuleValidation, "failed to parse rule document", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks struct tags plus the constraints the tags cannot express:
// at least one section, and exactly one variant per expression.
func (d *Document) Validate() error {
	if d.Entry == nil && d.Exit == nil {
		return errors.New(errors.ErrCodeEmptyRuleDocument, "rule document has no entry or exit section")
	}

	validate := validator.New()

	if err := validate.Struct(d); err != nil {
		return errors.Wrap(errors.ErrCodeRuleValidation, "invalid rule document", err)
	}

	for _, section := range []*Section{d.Entry, d.Exit} {
		if section == nil {
			continue
		}

		for _, condition := range section.Conditions {
			if err := condition.Left.validate(); err != nil {
				return err
			}

			if err := condition.Right.validate(); err != nil {
				return err
			}

			if err := condition.validateOperands(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e Expression) validate() error {
	count := 0

	if e.Series != nil {
		count++
	}
	if e.Indicator != nil {
		count++
	}
	if e.Function != nil {
		count++
	}
	if e.Literal != nil {
		count++
	}

	if count != 1 {
		return errors.Newf(errors.ErrCodeRuleValidation,
			"expression must set exactly one of series, indicator, function, or literal; got %d", count)
	}

	if e.Function != nil {
		needsLag := functionNeedsLag(e.Function.Name)

		if needsLag && e.Function.Lag == nil {
			return errors.Newf(errors.ErrCodeRuleValidation, "function %q requires a lag", e.Function.Name)
		}

		if !needsLag && e.Function.Lag != nil {
			return errors.Newf(errors.ErrCodeRuleValidation, "function %q does not take a lag", e.Function.Name)
		}
	}

	return nil
}

func (c Condition) validateOperands() error {
	// Cross operators relate two evolving sequences; two literal sides can
	// never produce a crossing edge.
	if c.Operator == OperatorCrossAbove || c.Operator == OperatorCrossBelow {
		if c.Left.Literal != nil && c.Right.Literal != nil {
			return errors.New(errors.ErrCodeRuleValidation,
				"cross conditions require at least one non-literal side")
		}
	}

	return nil
}

func functionNeedsLag(name string) bool {
	return name == "n_days_ago" || name == "change" || name == "percent_change"
}
