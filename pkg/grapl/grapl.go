// Package grapl reads and writes GRAPL, a small edge-list language for
// describing ADMGs.
//
// A GRAPL document is an optional quoted title followed by commands, each
// terminated by a semicolon:
//
//	"Front-door graph";
//	X; M; Y;          # node declarations
//	X -> M;           # directed edge
//	M -> Y;
//	X <-> Y;          # bidirected edge (hidden common cause)
//
// Node names match [A-Za-z_]+[0-9]*. Edges may only refer to nodes declared
// earlier in the document. Text from # to the end of the line is a comment.
package grapl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/nodeset"
)

var (
	// ErrSyntax wraps lexical and grammatical errors. The message carries the
	// line and column.
	ErrSyntax = errors.New("grapl syntax error")

	// ErrUndeclaredNode is returned when an edge names a node that has not
	// been declared before it.
	ErrUndeclaredNode = errors.New("node not declared")
)

var graplLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Title", Pattern: `"[^"\n]*"`},
	{Name: "BiEdge", Pattern: `<->`},
	{Name: "DirEdge", Pattern: `->`},
	{Name: "Node", Pattern: `[A-Za-z_]+[0-9]*`},
	{Name: "EOC", Pattern: `;`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

type document struct {
	Title    *string    `( @Title ";" )?`
	Commands []*command `@@*`
}

type command struct {
	Pos  lexer.Position
	From string `@Node`
	Edge string `( @( "<->" | "->" )`
	To   string `  @Node )? ";"`
}

var parser = participle.MustBuild[document](
	participle.Lexer(graplLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Map(stripQuotes, "Title"),
)

// stripQuotes removes the delimiting quotes of a title. The text between
// them is taken literally; there are no escapes.
func stripQuotes(tok lexer.Token) (lexer.Token, error) {
	tok.Value = tok.Value[1 : len(tok.Value)-1]
	return tok, nil
}

// Parse reads a GRAPL document from r. name is used in error positions.
func Parse(name string, r io.Reader) (*admg.ADMG, error) {
	doc, err := parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return build(doc)
}

// ParseString reads a GRAPL document from src.
func ParseString(name, src string) (*admg.ADMG, error) {
	doc, err := parser.ParseString(name, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return build(doc)
}

// ReadFile parses the GRAPL file at path.
func ReadFile(path string) (*admg.ADMG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

func build(doc *document) (*admg.ADMG, error) {
	g := admg.New("")
	if doc.Title != nil {
		g.SetTitle(*doc.Title)
	}
	for _, c := range doc.Commands {
		if c.Edge == "" {
			if err := g.AddNode(admg.Node{Name: c.From}); err != nil {
				return nil, fmt.Errorf("%s: %w", c.Pos, err)
			}
			continue
		}
		for _, name := range []string{c.From, c.To} {
			if !g.Has(name) {
				return nil, fmt.Errorf("%s: %w: %q", c.Pos, ErrUndeclaredNode, name)
			}
		}
		e := admg.Edges{Parents: nodeset.New(c.From)}
		if c.Edge == "<->" {
			e = admg.Edges{Bidirects: nodeset.New(c.From)}
		}
		if err := g.AddEdges(c.To, e); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Pos, err)
		}
	}
	if err := g.Connect(); err != nil {
		return nil, err
	}
	return g, nil
}

// Write serializes g as GRAPL: the title, then node declarations, directed
// edges and bidirected edges, each group sorted. Each bidirected pair is
// written once.
func Write(w io.Writer, g *admg.ADMG) error {
	_, err := io.WriteString(w, Marshal(g))
	return err
}

// Marshal returns g as a GRAPL document.
func Marshal(g *admg.ADMG) string {
	var b strings.Builder
	if g.Title() != "" {
		fmt.Fprintf(&b, "\"%s\";\n", quotable(g.Title()))
	}
	for _, name := range g.Names() {
		fmt.Fprintf(&b, "%s;\n", name)
	}
	for _, e := range g.DirectedEdges() {
		fmt.Fprintf(&b, "%s -> %s;\n", e.From, e.To)
	}
	for _, e := range g.BidirectedEdges() {
		fmt.Fprintf(&b, "%s <-> %s;\n", e.From, e.To)
	}
	return b.String()
}

// WriteFile writes g as GRAPL to path.
func WriteFile(path string, g *admg.ADMG) error {
	return os.WriteFile(path, []byte(Marshal(g)), 0o644)
}

// quotable makes title fit between GRAPL quotes: double quotes become single
// quotes and line breaks become spaces.
func quotable(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"':
			return '\''
		case '\n', '\r':
			return ' '
		}
		return r
	}, title)
}
