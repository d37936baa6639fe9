package kicadsexp

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   lexer.Position
}

// SexpLexer defines the lexical structure of KiCad s-expression files.
// Symbols cover numbers, keywords and bare identifiers alike.
var SexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Symbol", Pattern: `[^\s()"]+`},
})

// Lexer tokenizes S-expressions from an io.Reader
type Lexer struct {
	lex   lexer.Lexer
	types map[lexer.TokenType]TokenType
	ws    lexer.TokenType
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) (*Lexer, error) {
	lex, err := SexpLexer.Lex("", r)
	if err != nil {
		return nil, fmt.Errorf("failed to start lexer: %w", err)
	}

	symbols := SexpLexer.Symbols()
	return &Lexer{
		lex: lex,
		types: map[lexer.TokenType]TokenType{
			symbols["String"]: TokenString,
			symbols["LParen"]: TokenLeftParen,
			symbols["RParen"]: TokenRightParen,
			symbols["Symbol"]: TokenSymbol,
		},
		ws: symbols["Whitespace"],
	}, nil
}

// NextToken reads the next token from the input, skipping whitespace
func (l *Lexer) NextToken() (Token, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return Token{}, err
		}
		if tok.EOF() {
			return Token{Type: TokenEOF, Pos: tok.Pos}, nil
		}
		if tok.Type == l.ws {
			continue
		}

		typ, ok := l.types[tok.Type]
		if !ok {
			return Token{}, fmt.Errorf("%s: unexpected token %q", tok.Pos, tok.Value)
		}

		value := tok.Value
		if typ == TokenString {
			value = unquote(value)
		}
		return Token{Type: typ, Value: value, Pos: tok.Pos}, nil
	}
}

// unquote strips the surrounding quotes and resolves backslash escapes.
// Unknown escapes keep the escaped character.
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	escaped := false
	for _, ch := range s {
		if !escaped {
			if ch == '\\' {
				escaped = true
				continue
			}
			sb.WriteRune(ch)
			continue
		}

		escaped = false
		switch ch {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
