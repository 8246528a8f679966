package render

import (
	"time"

	"github.com/msto63/stormsql/foundation/stormsql"
	"github.com/msto63/stormsql/foundation/stormsql/ast"
	"github.com/msto63/stormsql/foundation/stormsql/lexer"
	"github.com/msto63/stormsql/foundation/stormsql/parser"
	"github.com/msto63/stormsql/foundation/stormsql/token"
	"github.com/msto63/stormsql/internal/history/store"
)

// The tree functions build plain maps and []interface{} slices only, so the
// result serialises to JSON and YAML and converts with structpb.NewStruct.

// TokenMap converts a token. Locations are reported 1-based.
func TokenMap(t token.Token) map[string]interface{} {
	return map[string]interface{}{
		"type":     t.Kind.String(),
		"value":    t.Value,
		"line":     t.Location.Line + 1,
		"column":   t.Location.Column + 1,
		"location": t.Location.String(),
	}
}

// TokensList converts a token stream
func TokensList(tokens []token.Token) []interface{} {
	out := make([]interface{}, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, TokenMap(t))
	}
	return out
}

// ExpressionMap converts an expression tree
func ExpressionMap(expr ast.Expression) map[string]interface{} {
	switch e := expr.(type) {
	case *ast.Literal:
		m := TokenMap(e.Token)
		m["node"] = "literal"
		return m
	case *ast.Binary:
		return map[string]interface{}{
			"node":     "binary",
			"operator": e.Operator.Value,
			"location": e.Operator.Location.String(),
			"left":     ExpressionMap(e.Left),
			"right":    ExpressionMap(e.Right),
		}
	default:
		return nil
	}
}

func expressionList(exprs []ast.Expression) []interface{} {
	out := make([]interface{}, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, ExpressionMap(e))
	}
	return out
}

// StatementMap converts a statement
func StatementMap(stmt ast.Statement) map[string]interface{} {
	m := map[string]interface{}{
		"kind":     stmt.Kind().String(),
		"location": stmt.Pos().String(),
		"sql":      stmt.String(),
	}

	switch s := stmt.(type) {
	case *ast.Select:
		m["columns"] = expressionList(s.Columns)
		if s.Table != nil {
			m["from"] = s.Table.Value
		}
		if s.Where != nil {
			m["where"] = ExpressionMap(s.Where)
		}
	case *ast.Insert:
		m["table"] = s.Table.Value
		m["values"] = expressionList(s.Values)
	case *ast.Create:
		m["table"] = s.Name.Value
		columns := make([]interface{}, 0, len(s.Columns))
		for _, c := range s.Columns {
			columns = append(columns, map[string]interface{}{
				"name":     c.Name.Value,
				"datatype": c.Datatype.Value,
			})
		}
		m["columns"] = columns
	}
	return m
}

// StatementsList converts a statement list
func StatementsList(stmts []ast.Statement) []interface{} {
	out := make([]interface{}, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, StatementMap(s))
	}
	return out
}

// LexErrorMap converts a lexer diagnostic
func LexErrorMap(e *lexer.Error) map[string]interface{} {
	return map[string]interface{}{
		"kind":        e.Kind.String(),
		"location":    e.Location.String(),
		"fragment":    e.Fragment,
		"description": e.Description,
		"message":     e.Error(),
	}
}

// LexErrorsList converts lexer diagnostics
func LexErrorsList(errs []*lexer.Error) []interface{} {
	out := make([]interface{}, 0, len(errs))
	for _, e := range errs {
		out = append(out, LexErrorMap(e))
	}
	return out
}

// SyntaxErrorMap converts a parse error
func SyntaxErrorMap(e *parser.SyntaxError) map[string]interface{} {
	return map[string]interface{}{
		"location": e.Location.String(),
		"reason":   e.Reason,
		"got":      e.Got.String(),
		"message":  e.Message,
	}
}

// AnalysisMap converts a complete analysis
func AnalysisMap(a *stormsql.Analysis) map[string]interface{} {
	m := map[string]interface{}{
		"ok":            a.OK(),
		"tokens":        TokensList(a.Tokens),
		"statements":    StatementsList(a.Statements),
		"reconstructed": a.Reconstructed,
		"round_trip_ok": a.RoundTripOK,
		"duration_ms":   float64(a.Duration.Nanoseconds()) / 1e6,
	}
	if len(a.LexErrors) > 0 {
		m["lex_errors"] = LexErrorsList(a.LexErrors)
	}
	if a.ParseError != nil {
		m["parse_error"] = SyntaxErrorMap(a.ParseError)
	}
	return m
}

// EntryMap converts a history entry to Struct-compatible values
func EntryMap(e *store.Entry) map[string]interface{} {
	return map[string]interface{}{
		"id":            e.ID,
		"timestamp":     e.Timestamp.UTC().Format(time.RFC3339Nano),
		"origin":        e.Origin,
		"operation":     e.Operation,
		"status":        string(e.Status),
		"source":        e.Source,
		"formatted":     e.Formatted,
		"token_count":   e.TokenCount,
		"statements":    e.Statements,
		"error_code":    e.ErrorCode,
		"error_message": e.ErrorMessage,
		"duration_ms":   e.DurationMS,
		"request_id":    e.RequestID,
	}
}
