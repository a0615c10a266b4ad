package rule

import "strings"

type node interface {
	eval() bool
}

// literal is a string or word; it is true only when it reads TRUE.
type literal string

func (l literal) eval() bool { return strings.EqualFold(strings.TrimSpace(string(l)), "TRUE") }

type not struct{ x node }

func (n not) eval() bool { return !n.x.eval() }

type and struct{ l, r node }

func (a and) eval() bool { return a.l.eval() && a.r.eval() }

type or struct{ l, r node }

func (o or) eval() bool { return o.l.eval() || o.r.eval() }

type contains struct{ haystack, needle string }

func (c contains) eval() bool { return strings.Contains(c.haystack, c.needle) }

type parser struct {
	expr   string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != kindEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(k kind) (token, error) {
	tok := p.next()
	if tok.kind != k {
		return tok, syntaxError(p.expr, tok.pos, "expected "+k.String()+", found "+describe(tok))
	}
	return tok, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == kindOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = or{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == kindAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = and{left, right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == kindNot {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return not{x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()

	switch tok.kind {
	case kindLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(kindRParen); err != nil {
			return nil, err
		}
		return x, nil

	case kindString:
		return literal(tok.text), nil

	case kindWord:
		if strings.EqualFold(tok.text, "Contains") && p.peek().kind == kindLParen {
			return p.parseContains()
		}
		return literal(tok.text), nil
	}

	return nil, syntaxError(p.expr, tok.pos, "unexpected "+describe(tok))
}

func (p *parser) parseContains() (node, error) {
	if _, err := p.expect(kindLParen); err != nil {
		return nil, err
	}
	haystack, err := p.operand()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(kindComma); err != nil {
		return nil, err
	}
	needle, err := p.operand()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(kindRParen); err != nil {
		return nil, err
	}
	return contains{haystack: haystack, needle: needle}, nil
}

func (p *parser) operand() (string, error) {
	tok := p.next()
	if tok.kind != kindString && tok.kind != kindWord {
		return "", syntaxError(p.expr, tok.pos, "expected string, found "+describe(tok))
	}
	return tok.text, nil
}

func describe(tok token) string {
	if tok.kind == kindString || tok.kind == kindWord {
		return tok.kind.String() + " " + tok.text
	}
	return tok.kind.String()
}
