// Package expr evaluates numeric and boolean expressions with standard
// operator precedence. There is no token stream and no AST: a parser walks
// the source string in place and every grammar tier is one method, so a
// call to Eval re-parses the text from scratch each time.
//
// Grammar, highest to lowest precedence, left-associative except unary:
//
//	primary    := number | identifier | identifier "(" args ")" | "(" expr ")"
//	unary      := ("+"|"-"|"!") unary | primary
//	factor     := unary (("*"|"/"|"%") unary)*
//	term       := factor (("+"|"-") factor)*
//	comparison := term ((">"|"<"|">="|"<=") term)*
//	equality   := comparison (("=="|"!=") comparison)*
//	logicalAnd := equality ("&&" equality)*
//	logicalOr  := logicalAnd ("||" logicalAnd)*
//	expr       := logicalOr
//
// All values are float64. Comparisons and logic yield exactly 1 or 0; any
// non-zero operand counts as true. Both sides of "&&" and "||" are always
// evaluated. Division and remainder by zero are not guarded and follow
// IEEE-754 (Inf/NaN propagate).
package expr

import (
	"strconv"
	"strings"
)

// Env is the read-only variable lookup the evaluator needs.
type Env interface {
	Lookup(name string) (float64, bool)
}

// Vars is the canonical Env: a plain name-to-value map.
type Vars map[string]float64

func (v Vars) Lookup(name string) (float64, bool) {
	val, ok := v[name]
	return val, ok
}

// Error is a failed evaluation. Prefix tags the operation that asked for the
// evaluation ("Set expr error: ", "Loop count error: ", ...), Rest is the
// unconsumed input at the point of failure.
type Error struct {
	Prefix string
	Msg    string
	Rest   string
}

func (e *Error) Error() string {
	return e.Prefix + e.Msg + " near: '" + e.Rest + "'"
}

// Eval parses and evaluates src as one complete expression against env.
// Trailing non-whitespace after the expression is an error. prefix tags any
// failure message with the calling operation.
func Eval(src string, env Env, prefix string) (float64, error) {
	p := &parser{src: src, env: env, prefix: prefix}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, p.fail("Unexpected trailing characters")
	}
	return v, nil
}

type parser struct {
	src    string
	pos    int
	env    Env
	prefix string
}

func (p *parser) fail(msg string) error {
	return &Error{Prefix: p.prefix, Msg: msg, Rest: p.src[p.pos:]}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

// peek returns the next significant byte without consuming it, or 0 at end.
func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) match(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) matchStr(t string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], t) {
		p.pos += len(t)
		return true
	}
	return false
}

func truthy(v float64) bool { return v != 0 }

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (p *parser) identifier() string {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return ""
	}
	c := p.src[p.pos]
	if !isAlpha(c) && c != '_' {
		return ""
	}
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !isAlpha(c) && !isDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// number scans an optionally fractional literal with an optional exponent.
// An exponent marker without digits is not part of the number: the scan
// backs off to the marker and the literal ends there.
func (p *parser) number() (float64, error) {
	p.skipSpace()
	start := p.pos
	sawDigit := false

	if p.pos < len(p.src) && (p.src[p.pos] == '.' || isDigit(p.src[p.pos])) {
		if p.src[p.pos] == '.' {
			p.pos++
		}
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
			sawDigit = true
		}
		if p.pos < len(p.src) && p.src[p.pos] == '.' {
			p.pos++
			for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
				p.pos++
				sawDigit = true
			}
		}
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			markerPos := p.pos
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
				p.pos++
			}
			expDigit := false
			for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
				p.pos++
				expDigit = true
			}
			if !expDigit {
				p.pos = markerPos
			}
		}
	}

	if start == p.pos || !sawDigit {
		return 0, p.fail("Expected number")
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.fail("Expected number")
	}
	return v, nil
}

func (p *parser) primary() (float64, error) {
	if p.match('(') {
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if !p.match(')') {
			return 0, p.fail("Expected ')'")
		}
		return v, nil
	}

	if c := p.peek(); isAlpha(c) || c == '_' {
		id := p.identifier()

		// id(...) is a function call, anything else a variable.
		if p.match('(') {
			var args []float64
			if !p.match(')') {
				for {
					v, err := p.expr()
					if err != nil {
						return 0, err
					}
					args = append(args, v)
					if p.match(')') {
						break
					}
					if !p.match(',') {
						return 0, p.fail("Expected ',' or ')'")
					}
				}
			}
			return p.call(id, args)
		}

		if p.env != nil {
			if v, ok := p.env.Lookup(id); ok {
				return v, nil
			}
		}
		return 0, p.fail("Unknown variable: " + id)
	}

	if c := p.peek(); isDigit(c) || c == '.' {
		return p.number()
	}

	return 0, p.fail("Expected primary expression")
}

func (p *parser) unary() (float64, error) {
	p.skipSpace()
	if p.match('+') {
		return p.unary()
	}
	if p.match('-') {
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	if p.match('!') {
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		return boolVal(!truthy(v)), nil
	}
	return p.primary()
}

func (p *parser) factor() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		if p.match('*') {
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v *= r
		} else if p.match('/') {
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v /= r
		} else if p.match('%') {
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v = mod(v, r)
		} else {
			return v, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		if p.match('+') {
			r, err := p.factor()
			if err != nil {
				return 0, err
			}
			v += r
		} else if p.match('-') {
			r, err := p.factor()
			if err != nil {
				return 0, err
			}
			v -= r
		} else {
			return v, nil
		}
	}
}

func (p *parser) comparison() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	// Two-byte operators must be tried before their one-byte prefixes.
	for {
		if p.matchStr(">=") {
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v = boolVal(v >= r)
		} else if p.matchStr("<=") {
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v = boolVal(v <= r)
		} else if p.match('>') {
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v = boolVal(v > r)
		} else if p.match('<') {
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v = boolVal(v < r)
		} else {
			return v, nil
		}
	}
}

func (p *parser) equality() (float64, error) {
	v, err := p.comparison()
	if err != nil {
		return 0, err
	}
	for {
		if p.matchStr("==") {
			r, err := p.comparison()
			if err != nil {
				return 0, err
			}
			v = boolVal(v == r)
		} else if p.matchStr("!=") {
			r, err := p.comparison()
			if err != nil {
				return 0, err
			}
			v = boolVal(v != r)
		} else {
			return v, nil
		}
	}
}

func (p *parser) logicalAnd() (float64, error) {
	v, err := p.equality()
	if err != nil {
		return 0, err
	}
	for p.matchStr("&&") {
		r, err := p.equality()
		if err != nil {
			return 0, err
		}
		v = boolVal(truthy(v) && truthy(r))
	}
	return v, nil
}

func (p *parser) logicalOr() (float64, error) {
	v, err := p.logicalAnd()
	if err != nil {
		return 0, err
	}
	for p.matchStr("||") {
		r, err := p.logicalAnd()
		if err != nil {
			return 0, err
		}
		v = boolVal(truthy(v) || truthy(r))
	}
	return v, nil
}

func (p *parser) expr() (float64, error) {
	return p.logicalOr()
}
