package parser

import (
	"strconv"
	"strings"

	"github.com/quantlab-oss/stratdsl/pkg/errors"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenPercent
	tokenOperator
	tokenLParen
	tokenRParen
	tokenComma
	tokenColon
)

type token struct {
	Kind   tokenKind
	Text   string
	Value  float64
	Line   int
	Column int
}

// lex scans the full input up front. Keywords are not distinguished here;
// the parser matches ENTRY/EXIT/AND/OR case-insensitively on ident tokens.
func lex(input string) ([]token, error) {
	var tokens []token

	runes := []rune(input)
	line, col := 1, 1

	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case r == '\n':
			line++
			col = 1
			i++

		case r == ' ' || r == '\t' || r == '\r':
			col++
			i++

		case r == '#':
			// Comment runs to end of line.
			for i < len(runes) && runes[i] != '\n' {
				i++
			}

		case r == '(':
			tokens = append(tokens, token{Kind: tokenLParen, Text: "(", Line: line, Column: col})
			col++
			i++

		case r == ')':
			tokens = append(tokens, token{Kind: tokenRParen, Text: ")", Line: line, Column: col})
			col++
			i++

		case r == ',':
			tokens = append(tokens, token{Kind: tokenComma, Text: ",", Line: line, Column: col})
			col++
			i++

		case r == ':':
			tokens = append(tokens, token{Kind: tokenColon, Text: ":", Line: line, Column: col})
			col++
			i++

		case r == '>' || r == '<':
			text := string(r)
			if i+1 < len(runes) && runes[i+1] == '=' {
				text += "="
			}
			tokens = append(tokens, token{Kind: tokenOperator, Text: text, Line: line, Column: col})
			col += len(text)
			i += len(text)

		case r == '=' || r == '!':
			if i+1 >= len(runes) || runes[i+1] != '=' {
				return nil, errors.NewSyntaxErrorf(line, col, "unexpected character %q", string(r))
			}
			tokens = append(tokens, token{Kind: tokenOperator, Text: string(r) + "=", Line: line, Column: col})
			col += 2
			i += 2

		case r >= '0' && r <= '9' || r == '.':
			tok, consumed, err := lexNumber(runes[i:], line, col)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			col += consumed
			i += consumed

		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			text := string(runes[start:i])
			tokens = append(tokens, token{Kind: tokenIdent, Text: text, Line: line, Column: col})
			col += i - start

		default:
			return nil, errors.NewSyntaxErrorf(line, col, "unexpected character %q", string(r))
		}
	}

	tokens = append(tokens, token{Kind: tokenEOF, Line: line, Column: col})

	return tokens, nil
}

// lexNumber scans a numeric literal starting at runes[0]. Commas embedded in
// the integer part act as thousands separators only when followed by exactly
// three digits; otherwise the comma ends the number (it is an argument
// separator). A trailing % marks a percentage literal.
func lexNumber(runes []rune, line, col int) (token, int, error) {
	var digits strings.Builder

	i := 0
	for i < len(runes) {
		r := runes[i]

		if r >= '0' && r <= '9' || r == '.' {
			digits.WriteRune(r)
			i++
			continue
		}

		if r == ',' && isThousandsGroup(runes[i:]) {
			i++ // skip the separator
			continue
		}

		break
	}

	text := digits.String()

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, 0, errors.NewSyntaxErrorf(line, col, "invalid number %q", text)
	}

	kind := tokenNumber
	if i < len(runes) && runes[i] == '%' {
		kind = tokenPercent
		i++
	}

	return token{Kind: kind, Text: text, Value: value, Line: line, Column: col}, i, nil
}

// isThousandsGroup reports whether runes starts with a comma followed by
// exactly three digits, i.e. the comma is a separator inside a number like
// 1,000 rather than an argument delimiter as in n_days_ago(close, 200).
func isThousandsGroup(runes []rune) bool {
	if len(runes) < 4 || runes[0] != ',' {
		return false
	}

	for j := 1; j <= 3; j++ {
		if runes[j] < '0' || runes[j] > '9' {
			return false
		}
	}

	// A fourth digit would make the group ambiguous; treat the comma as an
	// argument separator in that case.
	if len(runes) > 4 && runes[4] >= '0' && runes[4] <= '9' {
		return false
	}

	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r >= '0' && r <= '9'
}
