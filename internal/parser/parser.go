// Package parser wraps the PostgreSQL parser behind a dialect-aware entry
// point. The rest of the engine consumes raw statement nodes and never touches
// SQL text directly.
package parser //nolint:revive // intentional: does not conflict with go/parser in internal package

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/nacharyadev/db-schema-visualizer/internal/dialect"
)

// Result holds the parsed statements and the original SQL they came from.
// The original text is kept so statement spans can be recovered for
// diagnostics.
type Result struct {
	Stmts []*pg_query.RawStmt
	SQL   string
}

// Parse parses a SQL string in the given dialect and returns the statement
// list. Returns an empty result (zero statements) for empty or
// whitespace-only input. A parse failure covers the whole input; callers skip
// the file and continue the run.
func Parse(sql string, d dialect.Dialect) (*Result, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return &Result{SQL: sql}, nil
	}

	tree, err := pg_query.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL as %s: %w", d, err)
	}

	return &Result{
		Stmts: tree.Stmts,
		SQL:   trimmed,
	}, nil
}

// StmtSQL extracts the original text of statement idx from the full SQL
// string using the parser's statement locations. Returns "" when the span
// cannot be recovered.
func StmtSQL(stmts []*pg_query.RawStmt, idx int, fullSQL string) string {
	if idx < 0 || idx >= len(stmts) {
		return ""
	}

	start := int(stmts[idx].StmtLocation)

	var end int
	if idx+1 < len(stmts) {
		end = int(stmts[idx+1].StmtLocation)
	} else {
		end = len(fullSQL)
	}

	if start > len(fullSQL) || end > len(fullSQL) || start >= end {
		return ""
	}

	return strings.TrimSpace(fullSQL[start:end])
}
