package sexy

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeNumber
	NodeList
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeNumber:
		return "number"
	case NodeList:
		return "list"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node represents any Sexy datum
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeNumber
	Items []*Node // NodeList
}

// String renders n in canonical form: single spaces, escaped strings.
func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeNumber:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewNumber(text string) *Node {
	return &Node{Type: NodeNumber, Text: text}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Head returns the symbol at the front of a list, or "".
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

type parser struct {
	lexer *lexer
	tok   token
}

// Parse parses exactly one datum from input.
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	if err := p.next(); err != nil {
		return nil, err
	}

	result, err := p.parseDatum()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != tokenEOF {
		return nil, fmt.Errorf("expected EOF but got %s at offset %d", p.tok.Type, p.tok.Position)
	}
	return result, nil
}

func (p *parser) next() error {
	tok, err := p.lexer.nextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) parseDatum() (*Node, error) {
	tok := p.tok
	switch tok.Type {
	case tokenSymbol:
		return NewSymbol(tok.Value), p.next()
	case tokenString:
		return NewString(tok.Value), p.next()
	case tokenNumber:
		return NewNumber(tok.Value), p.next()
	case tokenLParen:
		return p.parseList()
	default:
		return nil, fmt.Errorf("unexpected token: %s at offset %d", tok.Type, tok.Position)
	}
}

func (p *parser) parseList() (*Node, error) {
	if err := p.next(); err != nil { // consume '('
		return nil, err
	}

	list := NewList()
	for p.tok.Type != tokenRParen {
		if p.tok.Type == tokenEOF {
			return nil, fmt.Errorf("expected ')' but got EOF")
		}
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
	return list, p.next() // consume ')'
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenNumber
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type     tokenType
	Value    string
	Position int
}

type lexer struct {
	input    []rune
	position int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input)}
}

func (l *lexer) peek(offset int) rune {
	if l.position+offset >= len(l.input) {
		return 0
	}
	return l.input[l.position+offset]
}

func (l *lexer) nextToken() (token, error) {
	for {
		for unicode.IsSpace(l.peek(0)) {
			l.position++
		}
		if l.peek(0) != ';' {
			break
		}
		for c := l.peek(0); c != '\n' && c != 0; c = l.peek(0) {
			l.position++
		}
	}

	pos := l.position
	c := l.peek(0)
	switch {
	case c == 0:
		return token{Type: tokenEOF, Position: pos}, nil
	case c == '(':
		l.position++
		return token{Type: tokenLParen, Value: "(", Position: pos}, nil
	case c == ')':
		l.position++
		return token{Type: tokenRParen, Value: ")", Position: pos}, nil
	case c == '"':
		s, err := l.readString()
		return token{Type: tokenString, Value: s, Position: pos}, err
	case unicode.IsDigit(c), c == '-' && unicode.IsDigit(l.peek(1)):
		return token{Type: tokenNumber, Value: l.readNumber(), Position: pos}, nil
	case isSymbolChar(c):
		return token{Type: tokenSymbol, Value: l.readSymbol(), Position: pos}, nil
	default:
		return token{}, fmt.Errorf("unexpected character '%c' at offset %d", c, pos)
	}
}

func (l *lexer) readString() (string, error) {
	var b strings.Builder
	l.position++ // skip opening quote

	for {
		c := l.peek(0)
		switch c {
		case 0:
			return "", fmt.Errorf("unterminated string")
		case '"':
			l.position++
			return b.String(), nil
		case '\\':
			switch esc := l.peek(1); esc {
			case '"', '\\':
				b.WriteRune(esc)
				l.position += 2
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", esc)
			}
		default:
			b.WriteRune(c)
			l.position++
		}
	}
}

func (l *lexer) readNumber() string {
	start := l.position
	if l.peek(0) == '-' {
		l.position++
	}
	for unicode.IsDigit(l.peek(0)) || (l.peek(0) == '.' && unicode.IsDigit(l.peek(1))) {
		l.position++
	}
	return string(l.input[start:l.position])
}

func (l *lexer) readSymbol() string {
	start := l.position
	for isSymbolChar(l.peek(0)) {
		l.position++
	}
	return string(l.input[start:l.position])
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
