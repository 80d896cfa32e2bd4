package gradle

import (
	"fmt"
	"strings"
)

type valueKind int

const (
	valString valueKind = iota
	valNumber
	valBool
	valRef  // unresolvable identifier, e.g. flutter.minSdkVersion
	valCall // name(args...)
)

type value struct {
	kind valueKind
	text string // literal text, ref or call name
	args []value
	line int
}

// node is one statement: an assignment (op set) or a call/block (op empty).
type node struct {
	name     string
	op       string // "=", "+=" or ""
	val      value
	args     []value
	children []node
	block    bool
	line     int
}

type parser struct {
	toks     []token
	pos      int
	warnings []string
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline || p.peek().kind == tokSemicolon {
		p.pos++
	}
}

func (p *parser) warnf(line int, format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
}

// parseBlock reads statements until a closing brace (inner) or EOF (top).
func (p *parser) parseBlock(inner bool) ([]node, error) {
	var nodes []node
	for {
		p.skipNewlines()
		t := p.peek()
		switch t.kind {
		case tokEOF:
			if inner {
				return nil, fmt.Errorf("line %d: missing closing brace", t.line)
			}
			return nodes, nil
		case tokRBrace:
			if !inner {
				return nil, fmt.Errorf("line %d: unexpected closing brace", t.line)
			}
			p.next()
			return nodes, nil
		case tokIdent:
			n, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			p.warnf(t.line, "skipping unexpected %q", t.text)
			p.skipLine()
		}
	}
}

func (p *parser) parseStatement() (node, error) {
	id := p.next()
	n := node{name: id.text, line: id.line}

	switch p.peek().kind {
	case tokAssign, tokAppend:
		n.op = p.next().text
		p.skipNewlines()
		v, err := p.parseValue()
		if err != nil {
			return node{}, err
		}
		if p.endStatement() {
			// Only the first operand was parsed. Keeping it would import
			// a prefix of the real value.
			v = value{kind: valRef, text: "<expression>", line: v.line}
		}
		n.val = v
		return n, nil

	case tokLParen:
		args, err := p.parseArgs()
		if err != nil {
			return node{}, err
		}
		n.args = args
	}

	if p.peek().kind == tokLBrace {
		p.next()
		children, err := p.parseBlock(true)
		if err != nil {
			return node{}, err
		}
		n.block = true
		n.children = children
		return n, nil
	}

	// Trailing infix forms such as `id("x") version "1.0" apply false`.
	p.skipLine()
	return n, nil
}

func (p *parser) parseArgs() ([]value, error) {
	open := p.next() // (
	var args []value
	for {
		p.skipNewlines()
		switch p.peek().kind {
		case tokRParen:
			p.next()
			return args, nil
		case tokComma:
			p.next()
			continue
		case tokEOF:
			return nil, fmt.Errorf("line %d: missing closing parenthesis", open.line)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
}

func (p *parser) parseValue() (value, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		if strings.Contains(t.text, "$") {
			return value{kind: valRef, text: `"` + t.text + `"`, line: t.line}, nil
		}
		return value{kind: valString, text: t.text, line: t.line}, nil
	case tokNumber:
		return value{kind: valNumber, text: t.text, line: t.line}, nil
	case tokIdent:
		if t.text == "true" || t.text == "false" {
			return value{kind: valBool, text: t.text, line: t.line}, nil
		}
		if p.peek().kind == tokLParen {
			args, err := p.parseArgs()
			if err != nil {
				return value{}, err
			}
			return value{kind: valCall, text: t.text, args: args, line: t.line}, nil
		}
		return value{kind: valRef, text: t.text, line: t.line}, nil
	default:
		return value{}, fmt.Errorf("line %d: expected a value, got %q", t.line, t.text)
	}
}

// endStatement consumes the rest of the line and reports whether anything
// was left over, meaning the expression was more than a single value
// (string concatenation, arithmetic, method chains).
func (p *parser) endStatement() bool {
	switch p.peek().kind {
	case tokNewline, tokSemicolon, tokEOF, tokRBrace:
		return false
	}
	p.skipLine()
	return true
}

// skipLine drops tokens up to the end of the line without consuming a
// closing brace that ends the enclosing block. A block opened on the line is
// skipped whole.
func (p *parser) skipLine() {
	for {
		switch p.peek().kind {
		case tokNewline, tokSemicolon, tokEOF, tokRBrace:
			return
		case tokLBrace:
			p.skipBraces()
			continue
		}
		p.next()
	}
}

func (p *parser) skipBraces() {
	depth := 0
	for {
		t := p.next()
		switch t.kind {
		case tokLBrace:
			depth++
		case tokRBrace:
			depth--
			if depth == 0 {
				return
			}
		case tokEOF:
			return
		}
	}
}
