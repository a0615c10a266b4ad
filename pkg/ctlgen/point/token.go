package point

import "unicode"

// Class is the character class of a token.
type Class int

const (
	// Punctuation covers every rune that is neither a letter nor a digit.
	Punctuation Class = iota
	// Letter is a run of unicode letters.
	Letter
	// Number is a run of decimal digits.
	Number
)

func (c Class) String() string {
	switch c {
	case Letter:
		return "Letter"
	case Number:
		return "Number"
	default:
		return "Punctuation"
	}
}

// Token is a maximal run of characters of one class.
type Token struct {
	Class Class
	Text  string
}

func classOf(r rune) Class {
	switch {
	case unicode.IsDigit(r):
		return Number
	case unicode.IsLetter(r):
		return Letter
	default:
		return Punctuation
	}
}

// Tokenize splits s at every change of character class. Adjacent
// punctuation runes stay in a single token, so "DI-_01" yields
// ["DI", "-_", "01"].
func Tokenize(s string) []Token {
	var tokens []Token
	start := 0
	current := Punctuation

	for i, r := range s {
		c := classOf(r)
		if i == 0 {
			current = c
			continue
		}
		if c != current {
			tokens = append(tokens, Token{Class: current, Text: s[start:i]})
			start = i
			current = c
		}
	}

	if start < len(s) {
		tokens = append(tokens, Token{Class: current, Text: s[start:]})
	}

	return tokens
}

// Texts returns the text of each token.
func Texts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	return texts
}

// classes reports whether tokens has exactly the given class sequence.
func classes(tokens []Token, want ...Class) bool {
	if len(tokens) != len(want) {
		return false
	}
	for i, t := range tokens {
		if t.Class != want[i] {
			return false
		}
	}
	return true
}
