// Package rule evaluates the boolean guards attached to template lines.
//
// The language has AND, OR and NOT (also &&, || and !), parentheses,
// quoted strings, bare words and one function, Contains(haystack, needle).
// A string or word used as a condition is true only when it reads TRUE.
// Keywords are case-insensitive; Contains is case-sensitive.
//
//	NOT Contains('{TAG}', 'SPARE') AND ({ENABLED} OR "{LATCHED}")
package rule

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrSyntax indicates a rule that could not be parsed.
var ErrSyntax = errors.New("rule syntax error")

// SyntaxError locates a parse failure within a rule.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("rule %q at %d: %s", e.Expr, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func syntaxError(expr string, pos int, msg string) error {
	return &SyntaxError{Expr: expr, Pos: pos, Msg: msg}
}

// Rule is a compiled expression.
type Rule struct {
	expr string
	root node
}

// Compile parses expr. An empty or blank expression compiles to a rule that
// is always true.
func Compile(expr string) (*Rule, error) {
	if strings.TrimSpace(expr) == "" {
		return &Rule{expr: expr}, nil
	}

	tokens, err := lex(expr)
	if err != nil {
		return nil, err
	}

	p := &parser{expr: expr, tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != kindEOF {
		return nil, syntaxError(expr, tok.pos, "unexpected "+describe(tok))
	}

	return &Rule{expr: expr, root: root}, nil
}

// Eval evaluates the rule.
func (r *Rule) Eval() bool {
	if r.root == nil {
		return true
	}
	return r.root.eval()
}

// String returns the source expression.
func (r *Rule) String() string {
	return r.expr
}

// Allow compiles and evaluates expr in one step. Empty rules allow; a rule
// that does not parse is logged and disallows.
func Allow(expr string, logger *zap.Logger) bool {
	r, err := Compile(expr)
	if err != nil {
		if logger != nil {
			logger.Error("rule evaluation failed", zap.String("rule", expr), zap.Error(err))
		}
		return false
	}
	return r.Eval()
}

// HasPlaceholder reports whether expr still contains a {FIELD} placeholder
// and so can only be evaluated once a record is substituted in.
func HasPlaceholder(expr string) bool {
	open := strings.IndexByte(expr, '{')
	return open >= 0 && strings.IndexByte(expr[open:], '}') > 1
}
