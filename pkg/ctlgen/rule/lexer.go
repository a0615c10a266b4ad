package rule

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type kind int

const (
	kindEOF kind = iota
	kindString
	kindWord
	kindAnd
	kindOr
	kindNot
	kindLParen
	kindRParen
	kindComma
)

func (k kind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindWord:
		return "word"
	case kindAnd:
		return "AND"
	case kindOr:
		return "OR"
	case kindNot:
		return "NOT"
	case kindLParen:
		return "'('"
	case kindRParen:
		return "')'"
	case kindComma:
		return "','"
	default:
		return "end of rule"
	}
}

type token struct {
	kind kind
	text string
	pos  int
}

func isWordRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '(', ')', ',', '!', '&', '|', '\'', '"':
		return false
	}
	return true
}

// lex splits expr into tokens. Positions are byte offsets into expr.
func lex(expr string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			tokens = append(tokens, token{kindLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{kindRParen, ")", i})
			i++
		case c == ',':
			tokens = append(tokens, token{kindComma, ",", i})
			i++
		case c == '!':
			tokens = append(tokens, token{kindNot, "!", i})
			i++

		case c == '&' || c == '|':
			if i+1 >= len(expr) || expr[i+1] != c {
				return nil, syntaxError(expr, i, "expected "+string([]byte{c, c}))
			}
			k := kindAnd
			if c == '|' {
				k = kindOr
			}
			tokens = append(tokens, token{k, expr[i : i+2], i})
			i += 2

		case c == '\'' || c == '"':
			text, n, ok := scanString(expr[i:])
			if !ok {
				return nil, syntaxError(expr, i, "unterminated string")
			}
			tokens = append(tokens, token{kindString, text, i})
			i += n

		default:
			start := i
			for i < len(expr) {
				r, size := utf8.DecodeRuneInString(expr[i:])
				if !isWordRune(r) {
					break
				}
				i += size
			}
			if i == start {
				return nil, syntaxError(expr, i, "unexpected character")
			}
			word := expr[start:i]
			tokens = append(tokens, token{keyword(word), word, start})
		}
	}

	return append(tokens, token{kindEOF, "", len(expr)}), nil
}

func keyword(word string) kind {
	switch strings.ToUpper(word) {
	case "AND":
		return kindAnd
	case "OR":
		return kindOr
	case "NOT":
		return kindNot
	default:
		return kindWord
	}
}

// scanString reads a quoted string at the start of s. A doubled quote
// stands for one quote character. It returns the unquoted text and the
// number of bytes consumed.
func scanString(s string) (string, int, bool) {
	quote := s[0]
	var b strings.Builder

	for i := 1; i < len(s); i++ {
		if s[i] != quote {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == quote {
			b.WriteByte(quote)
			i++
			continue
		}
		return b.String(), i + 1, true
	}
	return "", 0, false
}
