package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var amountCharsRe = regexp.MustCompile(`^[0-9.\s+\-*/()]+$`)

// EvalAmount evaluates an arithmetic amount expression (+ - * /, parentheses,
// unary minus) without ever reaching for anything eval-like. An empty
// expression means an amount of 1. Malformed input fails fast with a
// descriptive error instead of leaking a NaN downstream.
func EvalAmount(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 1, nil
	}
	if !amountCharsRe.MatchString(expr) {
		return 0, errors.Errorf("invalid characters in amount expression %q", expr)
	}

	p := &amountParser{input: expr}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, errors.Errorf("unexpected %q in amount expression", p.input[p.pos:])
	}
	return value, nil
}

// amountParser is a small recursive-descent parser:
//
//	expr   = term   { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = "-" factor | "(" expr ")" | number
type amountParser struct {
	input string
	pos   int
}

func (p *amountParser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value -= rhs
		default:
			return value, nil
		}
	}
}

func (p *amountParser) parseTerm() (float64, error) {
	value, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			value *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, errors.New("division by zero in amount expression")
			}
			value /= rhs
		default:
			return value, nil
		}
	}
}

func (p *amountParser) parseFactor() (float64, error) {
	p.skipSpaces()
	switch p.peek() {
	case '-':
		p.pos++
		value, err := p.parseFactor()
		return -value, err
	case '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, errors.New("missing closing parenthesis in amount expression")
		}
		p.pos++
		return value, nil
	}
	return p.parseNumber()
}

func (p *amountParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		p.pos++
	}
	if start == p.pos {
		return 0, errors.Errorf("expected a number at position %d", start)
	}
	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad number %q", p.input[start:p.pos])
	}
	return value, nil
}

func (p *amountParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *amountParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}
