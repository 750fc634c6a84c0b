package grapl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token is one lexeme of a GRAPL document.
type Token struct {
	Kind   string
	Value  string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d\t%-8s %s", t.Line, t.Column, t.Kind, t.Value)
}

// Tokens lexes src and returns its tokens, whitespace dropped. Comments are
// kept so the dump mirrors the source.
func Tokens(name, src string) ([]Token, error) {
	lex, err := graplLexer.Lex(name, strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	kinds := make(map[lexer.TokenType]string)
	for k, v := range graplLexer.Symbols() {
		kinds[v] = k
	}

	var out []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		if tok.EOF() {
			return out, nil
		}
		kind := kinds[tok.Type]
		if kind == "Whitespace" {
			continue
		}
		out = append(out, Token{Kind: kind, Value: tok.Value, Line: tok.Pos.Line, Column: tok.Pos.Column})
	}
}
