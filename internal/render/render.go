// Package render prints front-end results as coloured text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/msto63/stormsql/foundation/stormsql"
	"github.com/msto63/stormsql/foundation/stormsql/ast"
	"github.com/msto63/stormsql/foundation/stormsql/lexer"
	"github.com/msto63/stormsql/foundation/stormsql/parser"
	"github.com/msto63/stormsql/foundation/stormsql/reconstruct"
	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// Format selects the output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Renderer writes results to Out
type Renderer struct {
	Out    io.Writer
	Format Format
	// Color enables lipgloss styling in text output
	Color bool
}

// New creates a renderer
func New(out io.Writer, format Format, color bool) *Renderer {
	return &Renderer{Out: out, Format: format, Color: color}
}

func (r *Renderer) style(kind token.Kind, s string) string {
	if !r.Color {
		return s
	}
	return KindStyle(kind).Render(s)
}

func (r *Renderer) paint(render func(...string) string, s string) string {
	if !r.Color {
		return s
	}
	return render(s)
}

// Structured writes v as JSON or YAML. Text format falls back to YAML,
// which reads well in a terminal.
func (r *Renderer) Structured(v interface{}) error {
	if r.Format == FormatJSON {
		enc := json.NewEncoder(r.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(r.Out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Tokens prints a token stream in the diagnostic token format
func (r *Renderer) Tokens(tokens []token.Token) error {
	if r.Format != FormatText {
		return r.Structured(TokensList(tokens))
	}
	for _, t := range tokens {
		line := fmt.Sprintf(`{ "type": %s, "location": %s, "value": "%s" }`,
			r.style(t.Kind, t.Kind.String()),
			r.paint(LocationStyle.Render, t.Location.String()),
			r.style(t.Kind, t.Value))
		if _, err := fmt.Fprintln(r.Out, line); err != nil {
			return err
		}
	}
	return nil
}

// Highlight colours source reconstructed from tokens
func (r *Renderer) Highlight(tokens []token.Token, reconstructed string) string {
	if !r.Color {
		return reconstructed
	}
	// re-render token by token on top of the reconstructed layout
	var b strings.Builder
	rest := reconstructed
	for _, t := range tokens {
		if t.Kind == token.EndOfFile {
			break
		}
		text := reconstruct.Render(t)
		i := strings.Index(rest, text)
		if i < 0 {
			return reconstructed
		}
		b.WriteString(rest[:i])
		b.WriteString(r.style(t.Kind, text))
		rest = rest[i+len(text):]
	}
	b.WriteString(rest)
	return b.String()
}

// Statements prints parsed statements
func (r *Renderer) Statements(stmts []ast.Statement) error {
	if r.Format != FormatText {
		return r.Structured(StatementsList(stmts))
	}
	_, err := io.WriteString(r.Out, r.paint(HeaderStyle.Render, ast.Format(stmts)))
	return err
}

// LexErrors prints lexer diagnostics
func (r *Renderer) LexErrors(errs []*lexer.Error) error {
	if r.Format != FormatText {
		return r.Structured(map[string]interface{}{"lex_errors": LexErrorsList(errs)})
	}
	for _, e := range errs {
		if _, err := fmt.Fprintln(r.Out, r.paint(ErrorStyle.Render, e.Error())); err != nil {
			return err
		}
	}
	return nil
}

// SyntaxError prints a parse error
func (r *Renderer) SyntaxError(e *parser.SyntaxError) error {
	if r.Format != FormatText {
		return r.Structured(map[string]interface{}{"parse_error": SyntaxErrorMap(e)})
	}
	_, err := fmt.Fprintln(r.Out, r.paint(ErrorStyle.Render, e.Error()))
	return err
}

// Analysis prints the full outcome of a check
func (r *Renderer) Analysis(name string, a *stormsql.Analysis) error {
	if r.Format != FormatText {
		m := AnalysisMap(a)
		if name != "" {
			m["name"] = name
		}
		return r.Structured(m)
	}

	prefix := ""
	if name != "" {
		prefix = name + ": "
	}

	if a.OK() {
		_, err := fmt.Fprintf(r.Out, "%s%s (%d statements, %d tokens)\n",
			prefix, r.paint(OKStyle.Render, "ok"), len(a.Statements), len(a.Tokens))
		return err
	}

	if err := a.Err(); err != nil {
		msg := err.Error()
		switch {
		case len(a.LexErrors) > 0:
			msg = a.LexErrors[0].Error()
		case a.ParseError != nil:
			msg = a.ParseError.Error()
		}
		_, werr := fmt.Fprintf(r.Out, "%s%s\n", prefix, r.paint(ErrorStyle.Render, msg))
		return werr
	}
	return nil
}
