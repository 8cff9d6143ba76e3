package rules

import (
	"strconv"
	"strings"

	"github.com/quantlab-oss/stratdsl/internal/version"
	"github.com/quantlab-oss/stratdsl/pkg/errors"
	"github.com/quantlab-oss/stratdsl/pkg/utils"
)

// GenerateDSL renders a validated document as strategy DSL text. Emission is
// deterministic: the same document always yields the same bytes. Cross
// conditions emit the function-call form; the parser accepts both forms.
func GenerateDSL(doc *Document) (string, error) {
	if doc == nil {
		return "", errors.New(errors.ErrCodeEmptyRuleDocument, "rule document is nil")
	}

	if err := version.CheckSchemaCompatibility(version.GetVersion(), doc.SchemaVersion); err != nil {
		return "", err
	}

	if err := doc.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder

	if doc.Entry != nil {
		b.WriteString("ENTRY:\n")
		writeSection(&b, doc.Entry)
	}

	if doc.Exit != nil {
		b.WriteString("EXIT:\n")
		writeSection(&b, doc.Exit)
	}

	return b.String(), nil
}

// GenerateSchemaJSON returns the JSON schema rule documents must conform to.
func GenerateSchemaJSON() (string, error) {
	return utils.GetSchemaFromConfig(&Document{})
}

func writeSection(b *strings.Builder, section *Section) {
	connector := section.Connector
	if connector == "" {
		connector = ConnectorAnd
	}

	for i, condition := range section.Conditions {
		if i > 0 {
			b.WriteString(" ")
			b.WriteString(string(connector))
			b.WriteString(" ")
		}

		writeCondition(b, condition)
	}

	b.WriteString("\n")
}

func writeCondition(b *strings.Builder, condition Condition) {
	if condition.Operator == OperatorCrossAbove || condition.Operator == OperatorCrossBelow {
		b.WriteString(string(condition.Operator))
		b.WriteString("(")
		writeExpression(b, condition.Left)
		b.WriteString(", ")
		writeExpression(b, condition.Right)
		b.WriteString(")")

		return
	}

	writeExpression(b, condition.Left)
	b.WriteString(" ")
	b.WriteString(string(condition.Operator))
	b.WriteString(" ")
	writeExpression(b, condition.Right)
}

func writeExpression(b *strings.Builder, expr Expression) {
	switch {
	case expr.Series != nil:
		b.WriteString(expr.Series.Name)

	case expr.Indicator != nil:
		b.WriteString(expr.Indicator.Name)
		b.WriteString("(")
		b.WriteString(expr.Indicator.Series)

		if expr.Indicator.Period != nil {
			b.WriteString(", ")
			b.WriteString(strconv.Itoa(*expr.Indicator.Period))
		}

		b.WriteString(")")

	case expr.Function != nil:
		b.WriteString(expr.Function.Name)
		b.WriteString("(")
		b.WriteString(expr.Function.Series)

		if expr.Function.Lag != nil {
			b.WriteString(", ")
			b.WriteString(strconv.Itoa(*expr.Function.Lag))
		}

		b.WriteString(")")

	case expr.Literal != nil:
		b.WriteString(strconv.FormatFloat(expr.Literal.Value, 'f', -1, 64))

		if expr.Literal.Percent {
			b.WriteString("%")
		}
	}
}
