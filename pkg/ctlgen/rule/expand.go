package rule

import (
	"strings"
	"unicode/utf8"
)

// Quote returns s as a single-quoted rule string.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Expand replaces each {NAME} placeholder in expr with the value lookup
// returns for NAME, escaped so that the value stays one operand. Inside a
// quoted string the surrounding quote is doubled; outside one, values that
// are not a plain word are quoted. Placeholders lookup does not know are
// left as written.
func Expand(expr string, lookup func(name string) (string, bool)) string {
	if !strings.Contains(expr, "{") {
		return expr
	}

	var (
		b     strings.Builder
		quote byte
	)

	for i := 0; i < len(expr); i++ {
		c := expr[i]

		switch {
		case quote != 0 && c == quote:
			if i+1 < len(expr) && expr[i+1] == quote {
				b.WriteString(expr[i : i+2])
				i++
				continue
			}
			quote = 0
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
		case c == '{':
			end := strings.IndexByte(expr[i:], '}')
			if end < 0 {
				break
			}
			name := expr[i+1 : i+end]
			if strings.ContainsRune(name, '{') {
				break
			}
			value, ok := lookup(name)
			if !ok {
				break
			}
			if quote != 0 {
				q := string(quote)
				b.WriteString(strings.ReplaceAll(value, q, q+q))
			} else {
				b.WriteString(operand(value))
			}
			i += end
			continue
		}

		b.WriteByte(c)
	}

	return b.String()
}

// operand keeps plain words bare so adjacent placeholders still join into
// one word.
func operand(value string) string {
	if value == "" {
		return Quote(value)
	}
	for _, r := range value {
		if r == utf8.RuneError || !isWordRune(r) || r == '{' || r == '}' {
			return Quote(value)
		}
	}
	if keyword(value) != kindWord {
		return Quote(value)
	}
	return value
}
